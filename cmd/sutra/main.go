// Command sutra is a terminal client for feed and learning agents.
package main

import "github.com/tesso57/sutra/internal/presentation/cli"

func main() {
	cli.Run()
}

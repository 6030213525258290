package tui

import (
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

var errNoLink = errors.New("item has no link")

// OSOpenCmd builds the command that hands a link to the desktop. Tests
// replace it.
var OSOpenCmd = func(link string) *exec.Cmd {
	switch runtime.GOOS {
	case "linux", "freebsd", "openbsd":
		return exec.Command("xdg-open", link)
	case "darwin":
		return exec.Command("open", link)
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", link) //nolint:gosec
	default:
		return nil
	}
}

// openBrowser opens an http(s) link. AI-generated items carry no link.
func openBrowser(link string) error {
	if link == "" {
		return errNoLink
	}
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("refusing to open %q", link)
	}
	cmd := OSOpenCmd(link)
	if cmd == nil {
		return fmt.Errorf("opening links is not supported on %s", runtime.GOOS)
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

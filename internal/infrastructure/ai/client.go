// Package ai abstracts the text models that write AI-sourced content.
package ai

import "context"

// Client turns a prompt into model output.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

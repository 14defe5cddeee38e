package auth

import (
	"fmt"

	"github.com/pterm/pterm"
)

// promptValue returns current, or asks for it when interactive prompts are allowed.
func promptValue(current, label string, secret bool) (string, error) {
	if current != "" {
		return current, nil
	}
	if NonInteractive {
		return "", fmt.Errorf("%s is required in non-interactive mode", label)
	}
	input := pterm.DefaultInteractiveTextInput.WithDefaultText(label)
	if secret {
		input = input.WithMask("*")
	}
	return input.Show()
}

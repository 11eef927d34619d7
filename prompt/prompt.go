// Package prompt asks the user for option values on the terminal.
package prompt

import (
	"errors"
	"fmt"
	"io"

	"github.com/manifoldco/promptui"
)

// ErrCancelled is returned when the user interrupts or aborts a prompt.
var ErrCancelled = errors.New("cancelled")

// Terminal prompts on the controlling terminal using promptui.
// Nil Stdin and Stdout fall back to os.Stdin and os.Stdout.
type Terminal struct {
	Stdin  io.ReadCloser
	Stdout io.WriteCloser
}

// Prompt asks for label and returns the answer. Secret input is masked.
func (t Terminal) Prompt(label string, secret bool) (string, error) {
	p := promptui.Prompt{
		Label:  label,
		Stdin:  t.Stdin,
		Stdout: t.Stdout,
	}
	if secret {
		p.Mask = '*'
	}

	v, err := p.Run()
	if err != nil {
		return "", handlePromptError(err)
	}
	return v, nil
}

func handlePromptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrEOF) {
		return fmt.Errorf("%w: %w", ErrCancelled, err)
	}
	return err
}

package prompt

import (
	"errors"
	"testing"

	"github.com/manifoldco/promptui"
	"github.com/stretchr/testify/assert"
)

func TestHandlePromptError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		cancelled bool
	}{
		{name: "interrupt", err: promptui.ErrInterrupt, cancelled: true},
		{name: "abort", err: promptui.ErrAbort, cancelled: true},
		{name: "eof", err: promptui.ErrEOF, cancelled: true},
		{name: "other", err: errors.New("tty gone"), cancelled: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := handlePromptError(tt.err)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, tt.cancelled, errors.Is(err, ErrCancelled))
		})
	}
}

package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"not found", NotFound("client", nil), ErrNotFound},
		{"validation", Validation("bad input", nil), ErrValidation},
		{"invalid assignment", InvalidAssignment("not enabled"), ErrInvalidAssignment},
		{"slot unavailable", SlotUnavailable("taken"), ErrSlotUnavailable},
		{"invalid transition", InvalidTransition("completed", "scheduled"), ErrInvalidTransition},
		{"wrapped", fmt.Errorf("creating: %w", NotFound("service", nil)), ErrNotFound},
		{"plain error", fmt.Errorf("boom"), ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeOf(tt.err))
			assert.True(t, Is(tt.err, tt.want))
		})
	}
}

func TestInvalidTransitionMessage(t *testing.T) {
	err := InvalidTransition("completed", "confirmed")
	assert.Equal(t, "cannot transition appointment from completed to confirmed", err.Message)
}

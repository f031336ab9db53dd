package geoerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorListsAlternatives(t *testing.T) {
	err := NewValidationError(UnknownToken, "grid", "XX", "unknown grid %q", "XX")
	err.Alternatives = []string{"NTV2", "NA27SCRS"}

	assert.Equal(t, `unknown grid "XX"; possible inputs: NTV2, NA27SCRS`, err.Error())
}

func TestMissing(t *testing.T) {
	err := Missing("geoid", "epoch")

	assert.Equal(t, MissingRequiredField, err.Reason)
	assert.Equal(t, []string{"geoid", "epoch"}, err.Missing)
	assert.Equal(t, "missing required parameter(s): geoid, epoch", err.Error())
}

func TestIsValidation(t *testing.T) {
	wrapped := fmt.Errorf("failed to resolve: %w", Missing("x"))

	assert.True(t, IsValidation(wrapped, MissingRequiredField))
	assert.False(t, IsValidation(wrapped, UnknownToken))
	assert.False(t, IsValidation(errors.New("plain"), MissingRequiredField))
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"validation", Missing("x"), ExitValidation},
		{"transport", &TransportError{URL: "http://x", StatusCode: 500}, ExitTransport},
		{"service", &ServiceError{Message: "bad input"}, ExitService},
		{"filesystem", &FileSystemError{Op: "open", Path: "a.csv", Err: errors.New("missing")}, ExitFileSystem},
		{"wrapped service", fmt.Errorf("gpsh: %w", &ServiceError{Message: "bad"}), ExitService},
		{"other", errors.New("boom"), ExitOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestTransportErrorMessage(t *testing.T) {
	cause := errors.New("connection refused")
	err := &TransportError{URL: "http://svc", Err: cause}

	assert.Equal(t, "request to http://svc failed: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
}

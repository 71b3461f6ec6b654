package apperror

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"not found", NotFound("payment %d not found", 4), KindNotFound},
		{"wrapped validation", fmt.Errorf("edit: %w", Validation("id cannot be changed")), KindValidationFailed},
		{"store", Store("list payments", errors.New("connection refused")), KindTransientStoreFailure},
		{"deadline", context.DeadlineExceeded, KindTransientStoreFailure},
		{"plain", errors.New("boom"), KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestErrorsIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("delete: %w", NotFound("payment 7 not found"))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrValidationFailed))
	assert.True(t, errors.Is(AuthenticationFailed(), ErrAuthenticationFailed))
}

func TestWrapKeepsKind(t *testing.T) {
	err := Wrap(NotFound("payment 1 not found"), KindInternal, "edit payment")
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, KindInternal, KindOf(Wrap(errors.New("x"), KindInternal, "y")))
	assert.Nil(t, Wrap(nil, KindInternal, "y"))
}

func TestPublicMessageHidesDetails(t *testing.T) {
	assert.Equal(t, MsgInvalidCredentials, PublicMessage(AuthenticationFailed()))
	assert.Equal(t, "service temporarily unavailable", PublicMessage(Store("q", errors.New("dial tcp 10.0.0.1"))))
	assert.Equal(t, "payment 3 not found", PublicMessage(NotFound("payment 3 not found")))
	assert.True(t, Retryable(Store("q", errors.New("timeout"))))
	assert.False(t, Retryable(NotFound("x")))
}

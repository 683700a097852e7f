package domainerrors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCode(t *testing.T) {
	base := New(CodeDomainRejected, "please use your college email address")

	assert.True(t, HasCode(base, CodeDomainRejected))
	assert.False(t, HasCode(base, CodeProviderError))

	wrapped := fmt.Errorf("sign-in failed: %w", base)
	assert.True(t, HasCode(wrapped, CodeDomainRejected))
	assert.True(t, Is(wrapped))
	assert.False(t, Is(fmt.Errorf("plain")))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeInvalidUser, CodeOf(New(CodeInvalidUser, "user has no id")))
	assert.Equal(t, CodeInternal, CodeOf(fmt.Errorf("boom")))
}

func TestToHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, ToHTTPStatus(CodeAuthRequired))
	assert.Equal(t, http.StatusForbidden, ToHTTPStatus(CodeDomainRejected))
	assert.Equal(t, http.StatusBadGateway, ToHTTPStatus(CodeProviderError))
	assert.Equal(t, http.StatusInternalServerError, ToHTTPStatus(Code("unknown")))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("socket closed")
	err := Wrap(cause, CodeProviderError, "provider call failed")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "provider call failed")
}

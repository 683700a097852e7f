package signin

import (
	"context"
	"errors"
)

// ErrPopupClosed is returned by providers when the user closes the sign-in
// prompt. The flow treats it as an abandoned attempt, not a failure to
// surface.
var ErrPopupClosed = errors.New("popup closed by user")

// Account is what the external auth provider reports after a successful
// popup sign-in.
type Account struct {
	ID          string
	Email       string
	DisplayName string
	PhotoURL    string
}

// Provider is the external auth collaborator. Implementations wrap a vendor
// SDK (or, server-side, the result a browser SDK already obtained); the core
// only consumes this contract.
type Provider interface {
	// SignIn runs one authentication attempt. It returns ErrPopupClosed
	// when the user abandoned the prompt; any other error is a provider
	// failure.
	SignIn(ctx context.Context) (Account, error)
}

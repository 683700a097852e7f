// Package signin drives the authentication gate: it runs one provider
// attempt, validates the returned email against the recognized domains, and
// settles the session store into authenticated or back to anonymous. All
// business failures here are recoverable; the UI re-prompts.
package signin

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"unitrader/internal/audit"
	"unitrader/internal/platform/metrics"
	"unitrader/internal/session"
	"unitrader/internal/session/userrecord"
	"unitrader/pkg/domain"
	dErrors "unitrader/pkg/domain-errors"
	"unitrader/pkg/identity"
)

// Result is what a successful sign-in hands back to the transport layer.
type Result struct {
	User  session.User
	Token string
}

// Service coordinates the provider, the identity resolver, the session
// store, and user-record persistence.
type Service struct {
	resolver *identity.Resolver
	users    userrecord.Store
	tokens   *TokenService
	recorder *audit.Recorder
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewService(
	resolver *identity.Resolver,
	users userrecord.Store,
	tokens *TokenService,
	recorder *audit.Recorder,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	return &Service{
		resolver: resolver,
		users:    users,
		tokens:   tokens,
		recorder: recorder,
		metrics:  m,
		logger:   logger,
	}
}

// SignIn runs one authentication attempt against the provider for the given
// session. On any failure the store is returned to anonymous with a reason;
// no partial user state survives.
func (s *Service) SignIn(ctx context.Context, st *session.Store, provider Provider) (Result, error) {
	st.BeginAuth()

	account, err := provider.SignIn(ctx)
	if err != nil {
		if errors.Is(err, ErrPopupClosed) {
			st.FailAuth(session.ReasonUserCancelled)
			s.metrics.SignIns.WithLabelValues("user_cancelled").Inc()
			return Result{}, dErrors.New(dErrors.CodePopupClosed, "sign-in cancelled")
		}
		st.FailAuth(session.ReasonProviderError)
		s.metrics.SignIns.WithLabelValues("provider_error").Inc()
		s.logger.ErrorContext(ctx, "auth provider failed", "error", err)
		return Result{}, dErrors.Wrap(err, dErrors.CodeProviderError, "error signing in, please try again")
	}

	if !s.resolver.AllowedDomain(account.Email) {
		st.FailAuth(session.ReasonDomainRejected)
		s.metrics.SignIns.WithLabelValues("domain_rejected").Inc()
		s.recorder.Record(ctx, audit.Event{
			Action:    audit.ActionAuthRejected,
			SessionID: st.ID().String(),
			Subject:   account.Email,
			Reason:    string(session.ReasonDomainRejected),
		})
		return Result{}, dErrors.New(dErrors.CodeDomainRejected, "please use your college email address")
	}

	user := session.User{
		ID:        domain.UserID(account.ID),
		Handle:    s.displayHandle(account),
		AvatarURL: account.PhotoURL,
		Email:     account.Email,
	}
	if err := st.CompleteAuth(user); err != nil {
		// Provider returned an account without an ID; treat as a provider
		// fault, not a precondition panic.
		st.FailAuth(session.ReasonProviderError)
		s.metrics.SignIns.WithLabelValues("provider_error").Inc()
		return Result{}, dErrors.Wrap(err, dErrors.CodeProviderError, "provider returned malformed account")
	}

	if err := s.users.Save(ctx, userrecord.Record{
		ID:        user.ID,
		Handle:    user.Handle,
		AvatarURL: user.AvatarURL,
		Email:     user.Email,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		// Persistence is best effort; the session itself is already
		// authenticated and usable.
		s.logger.WarnContext(ctx, "failed to persist user record",
			"error", err,
			"user_id", user.ID,
		)
	}

	token, err := s.tokens.IssueToken(user.ID, st.ID())
	if err != nil {
		return Result{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue session token")
	}

	s.metrics.SignIns.WithLabelValues("success").Inc()
	s.recorder.Record(ctx, audit.Event{
		Action:    audit.ActionUserSignedIn,
		UserID:    user.ID,
		SessionID: st.ID().String(),
	})
	return Result{User: user, Token: token}, nil
}

// SignOut resets the session and drops the persisted user record.
func (s *Service) SignOut(ctx context.Context, st *session.Store) {
	if user, ok := st.CurrentUser(); ok {
		if err := s.users.Delete(ctx, user.ID); err != nil {
			s.logger.WarnContext(ctx, "failed to delete user record",
				"error", err,
				"user_id", user.ID,
			)
		}
	}
	st.Reset()
}

// displayHandle prefers the derived institutional handle; personal-domain
// accounts fall back to the first token of the provider display name.
func (s *Service) displayHandle(account Account) string {
	if handle, ok := s.resolver.DeriveHandle(account.Email); ok {
		return handle
	}
	if fields := strings.Fields(account.DisplayName); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

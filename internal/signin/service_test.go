package signin

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"unitrader/internal/audit"
	"unitrader/internal/platform/metrics"
	"unitrader/internal/session"
	"unitrader/internal/session/userrecord"
	"unitrader/pkg/domain"
	dErrors "unitrader/pkg/domain-errors"
	"unitrader/pkg/identity"
)

// fakeProvider scripts one provider round-trip.
type fakeProvider struct {
	account Account
	err     error
}

func (f *fakeProvider) SignIn(context.Context) (Account, error) {
	return f.account, f.err
}

type ServiceSuite struct {
	suite.Suite
	svc   *Service
	users *userrecord.InMemoryStore
	sink  *audit.InMemoryStore
	inbox chan audit.Event
	store *session.Store
	ctx   context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	s.users = userrecord.NewInMemory()
	s.sink = audit.NewInMemoryStore()
	s.inbox = make(chan audit.Event, 16)
	s.store = session.New(domain.NewSessionID())
	s.ctx = context.Background()

	s.svc = NewService(
		identity.NewResolver("iiitkottayam.ac.in", "gmail.com"),
		s.users,
		NewTokenService("test-signing-key", "unitrader-test", time.Hour),
		audit.NewRecorder(s.inbox, logger),
		metrics.NewForTest(),
		logger,
	)
}

// drain copies queued audit events into the sink synchronously.
func (s *ServiceSuite) drain() {
	for {
		select {
		case ev := <-s.inbox:
			s.Require().NoError(s.sink.Append(s.ctx, ev))
		default:
			return
		}
	}
}

func (s *ServiceSuite) TestSuccessfulInstitutionalSignIn() {
	provider := &fakeProvider{account: Account{
		ID:          "uid-1",
		Email:       "pavan23bcy2@iiitkottayam.ac.in",
		DisplayName: "Pavan Kumar",
		PhotoURL:    "https://example.com/p.png",
	}}

	res, err := s.svc.SignIn(s.ctx, s.store, provider)
	s.Require().NoError(err)

	s.Equal(domain.UserID("uid-1"), res.User.ID)
	s.Equal("PAVAN", res.User.Handle, "handle derives from the institutional email")
	s.NotEmpty(res.Token)
	s.Equal(session.PhaseAuthenticated, s.store.Phase())

	rec, err := s.users.FindByID(s.ctx, "uid-1")
	s.Require().NoError(err)
	s.Equal("pavan23bcy2@iiitkottayam.ac.in", rec.Email)

	s.drain()
	events := s.sink.List()
	s.Require().Len(events, 1)
	s.Equal(audit.ActionUserSignedIn, events[0].Action)
}

func (s *ServiceSuite) TestFallbackDomainUsesDisplayName() {
	provider := &fakeProvider{account: Account{
		ID:          "uid-2",
		Email:       "john.doe@gmail.com",
		DisplayName: "John Doe",
	}}

	res, err := s.svc.SignIn(s.ctx, s.store, provider)
	s.Require().NoError(err)
	s.Equal("John", res.User.Handle, "personal domains fall back to the display name")
	s.Equal(session.PhaseAuthenticated, s.store.Phase())
}

func (s *ServiceSuite) TestDomainRejected() {
	provider := &fakeProvider{account: Account{
		ID:    "uid-3",
		Email: "someone@outlook.com",
	}}

	_, err := s.svc.SignIn(s.ctx, s.store, provider)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeDomainRejected))
	s.Equal(session.PhaseAnonymous, s.store.Phase())
	s.Equal(session.ReasonDomainRejected, s.store.LastFailure())

	_, findErr := s.users.FindByID(s.ctx, "uid-3")
	s.Error(findErr, "rejected accounts are never persisted")

	s.drain()
	events := s.sink.List()
	s.Require().Len(events, 1)
	s.Equal(audit.ActionAuthRejected, events[0].Action)
	s.Equal("someone@outlook.com", events[0].Subject)
}

func (s *ServiceSuite) TestPopupClosedIsANoOp() {
	provider := &fakeProvider{err: ErrPopupClosed}

	_, err := s.svc.SignIn(s.ctx, s.store, provider)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodePopupClosed))
	s.Equal(session.PhaseAnonymous, s.store.Phase())
	s.Equal(session.ReasonUserCancelled, s.store.LastFailure())

	_, ok := s.store.CurrentUser()
	s.False(ok, "no partial user state after an abandoned popup")
}

func (s *ServiceSuite) TestProviderError() {
	provider := &fakeProvider{err: errors.New("network down")}

	_, err := s.svc.SignIn(s.ctx, s.store, provider)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeProviderError))
	s.Equal(session.PhaseAnonymous, s.store.Phase())
	s.Equal(session.ReasonProviderError, s.store.LastFailure())
}

func (s *ServiceSuite) TestMalformedAccount() {
	provider := &fakeProvider{account: Account{
		Email: "pavan23bcy2@iiitkottayam.ac.in",
	}}

	_, err := s.svc.SignIn(s.ctx, s.store, provider)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeProviderError))
	s.Equal(session.PhaseAnonymous, s.store.Phase())
}

func (s *ServiceSuite) TestRetryAfterRejection() {
	_, err := s.svc.SignIn(s.ctx, s.store, &fakeProvider{account: Account{ID: "x", Email: "x@outlook.com"}})
	s.Require().Error(err)

	res, err := s.svc.SignIn(s.ctx, s.store, &fakeProvider{account: Account{
		ID:    "uid-1",
		Email: "pavan23bcy2@iiitkottayam.ac.in",
	}})
	s.Require().NoError(err, "rejection is recoverable, the user is prompted again")
	s.Equal(session.PhaseAuthenticated, s.store.Phase())
	s.NotEmpty(res.Token)
}

func (s *ServiceSuite) TestSignOut() {
	_, err := s.svc.SignIn(s.ctx, s.store, &fakeProvider{account: Account{
		ID:    "uid-1",
		Email: "pavan23bcy2@iiitkottayam.ac.in",
	}})
	s.Require().NoError(err)

	s.svc.SignOut(s.ctx, s.store)
	s.Equal(session.PhaseAnonymous, s.store.Phase())

	_, findErr := s.users.FindByID(s.ctx, "uid-1")
	s.Error(findErr, "sign-out drops the persisted record")
}

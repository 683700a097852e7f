package checkout

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/suite"

	"unitrader/internal/audit"
	"unitrader/internal/platform/metrics"
	"unitrader/internal/session"
	"unitrader/pkg/domain"
	dErrors "unitrader/pkg/domain-errors"
)

type fakeRedirector struct {
	id    string
	err   error
	calls int
	last  []session.CartLine
}

func (f *fakeRedirector) CreateSession(_ context.Context, cart []session.CartLine) (string, error) {
	f.calls++
	f.last = cart
	if f.err != nil {
		return "", f.err
	}
	return f.id, nil
}

type ServiceSuite struct {
	suite.Suite
	redirector *fakeRedirector
	inbox      chan audit.Event
	svc        *Service
	ctx        context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	s.ctx = context.Background()
	s.redirector = &fakeRedirector{id: "cs_test_123"}
	s.inbox = make(chan audit.Event, 16)
	s.svc = NewService(s.redirector, audit.NewRecorder(s.inbox, logger), metrics.NewForTest(), logger)
}

func (s *ServiceSuite) authenticatedStore() *session.Store {
	st := session.New(domain.NewSessionID())
	st.BeginAuth()
	s.Require().NoError(st.CompleteAuth(session.User{ID: "uid-1", Handle: "PAVAN", Email: "pavan23bcy2@iiitkottayam.ac.in"}))
	return st
}

func (s *ServiceSuite) TestStart() {
	st := s.authenticatedStore()
	_, err := st.AddToCart(session.Item{ID: "calc-1", Title: "Scientific Calculator", UnitPrice: 450, Available: true}, 1)
	s.Require().NoError(err)
	_, err = st.AddToCart(session.Item{ID: "lamp-2", Title: "Desk Lamp", UnitPrice: 300, Available: true}, 2)
	s.Require().NoError(err)

	id, err := s.svc.Start(s.ctx, st)
	s.Require().NoError(err)
	s.Equal("cs_test_123", id)
	s.Len(s.redirector.last, 2)
	s.Equal(domain.ItemID("calc-1"), s.redirector.last[0].ItemID)

	event := <-s.inbox
	s.Equal(audit.ActionCheckoutStarted, event.Action)
	s.Equal(domain.UserID("uid-1"), event.UserID)
	s.Equal("cs_test_123", event.Subject)
}

func (s *ServiceSuite) TestEmptyCartRejectedBeforeNetworkCall() {
	st := s.authenticatedStore()

	_, err := s.svc.Start(s.ctx, st)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Zero(s.redirector.calls)
}

func (s *ServiceSuite) TestAnonymousSessionRejected() {
	st := session.New(domain.NewSessionID())

	_, err := s.svc.Start(s.ctx, st)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeAuthRequired))
	s.Zero(s.redirector.calls)
}

func (s *ServiceSuite) TestUnavailableLineRejected() {
	st := s.authenticatedStore()
	_, err := st.AddToCart(session.Item{ID: "calc-1", Title: "Scientific Calculator", UnitPrice: 450, Available: false}, 1)
	s.Require().NoError(err)

	_, err = s.svc.Start(s.ctx, st)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Zero(s.redirector.calls)
}

func (s *ServiceSuite) TestCollaboratorFailure() {
	st := s.authenticatedStore()
	_, err := st.AddToCart(session.Item{ID: "calc-1", Title: "Scientific Calculator", UnitPrice: 450, Available: true}, 1)
	s.Require().NoError(err)
	s.redirector.err = errors.New("upstream down")

	_, err = s.svc.Start(s.ctx, st)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeProviderError))
	s.Empty(s.inbox)
}

func TestHTTPRedirector(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("unexpected method %s", r.Method)
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":"cs_live_42"}`))
		}))
		defer srv.Close()

		id, err := NewHTTPRedirector(srv.URL).CreateSession(context.Background(), []session.CartLine{
			{ItemID: "calc-1", Title: "Scientific Calculator", Quantity: 1, Available: true, UnitPrice: 450},
		})
		if err != nil {
			t.Fatalf("CreateSession: %v", err)
		}
		if id != "cs_live_42" {
			t.Errorf("id = %q, want cs_live_42", id)
		}
	})

	t.Run("non-200 status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := NewHTTPRedirector(srv.URL).CreateSession(context.Background(), nil)
		if err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("empty session id", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		_, err := NewHTTPRedirector(srv.URL).CreateSession(context.Background(), nil)
		if err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestWebhookSecret(t *testing.T) {
	hash, err := HashWebhookSecret("topsecret")
	if err != nil {
		t.Fatalf("HashWebhookSecret: %v", err)
	}
	if !VerifyWebhookSecret(hash, "topsecret") {
		t.Error("correct secret rejected")
	}
	if VerifyWebhookSecret(hash, "wrong") {
		t.Error("wrong secret accepted")
	}
	if VerifyWebhookSecret("", "topsecret") {
		t.Error("empty hash accepted a secret")
	}
}

// Package profile aggregates a user's profile view: the persisted user
// record, identity fields recomputed on demand from its email, and the items
// sold under the derived roll number.
package profile

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"unitrader/internal/audit"
	"unitrader/internal/catalog"
	"unitrader/internal/platform/metrics"
	"unitrader/internal/session/userrecord"
	"unitrader/pkg/domain"
	dErrors "unitrader/pkg/domain-errors"
	"unitrader/pkg/identity"
	"unitrader/pkg/platform/sentinel"
)

// Profile is the aggregated view served to the profile page.
type Profile struct {
	User userrecord.Record `json:"user"`
	// Handle and RollNumber are recomputed from the record's email on every
	// view; they are empty when derivation misses and the page omits them.
	Handle     string         `json:"handle,omitempty"`
	RollNumber string         `json:"roll_number,omitempty"`
	Purchases  []catalog.Item `json:"purchases"`
	Sold       []catalog.Item `json:"sold"`
}

type Service struct {
	users    userrecord.Store
	items    catalog.Store
	resolver *identity.Resolver
	recorder *audit.Recorder
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewService(
	users userrecord.Store,
	items catalog.Store,
	resolver *identity.Resolver,
	recorder *audit.Recorder,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	return &Service{
		users:    users,
		items:    items,
		resolver: resolver,
		recorder: recorder,
		metrics:  m,
		logger:   logger,
	}
}

// View builds the aggregated profile. A missing roll number (personal-domain
// or unrecognized local part) degrades to a profile without roll and sold
// sections; it is data, not an error.
func (s *Service) View(ctx context.Context, userID domain.UserID) (Profile, error) {
	rec, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Profile{}, dErrors.New(dErrors.CodeNotFound, "user record not found")
		}
		return Profile{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user record")
	}

	p := Profile{
		User:      rec,
		Purchases: []catalog.Item{},
		Sold:      []catalog.Item{},
	}
	if handle, ok := s.resolver.DeriveHandle(rec.Email); ok {
		p.Handle = handle
	}
	roll, hasRoll := s.resolver.DeriveRollNumber(rec.Email)
	if hasRoll {
		p.RollNumber = roll
	}

	g, gctx := errgroup.WithContext(ctx)
	if hasRoll {
		g.Go(func() error {
			sold, err := s.items.ListBySellerRoll(gctx, roll)
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load sold items")
			}
			p.Sold = sold
			return nil
		})
	}
	if len(rec.Purchases) > 0 {
		g.Go(func() error {
			purchases, err := s.items.ListByIDs(gctx, rec.Purchases)
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load purchases")
			}
			p.Purchases = purchases
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Profile{}, err
	}
	if p.Sold == nil {
		p.Sold = []catalog.Item{}
	}
	if p.Purchases == nil {
		p.Purchases = []catalog.Item{}
	}

	s.metrics.ProfileViews.Inc()
	s.recorder.Record(ctx, audit.Event{
		Action: audit.ActionProfileViewed,
		UserID: userID,
	})
	return p, nil
}

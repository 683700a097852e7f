// Package chat provisions peers on the external messaging collaborator.
// The collaborator owns accounts and message history; this package only
// guarantees a peer exists before a conversation opens.
package chat

import (
	"context"
	"errors"
	"log/slog"

	"unitrader/pkg/domain"
	dErrors "unitrader/pkg/domain-errors"
	"unitrader/pkg/identity"
	"unitrader/pkg/platform/sentinel"
)

// DefaultGreeting opens every seller conversation so buyers never face an
// empty thread.
const DefaultGreeting = "Hey there! I am interested in the item you are selling and wanted to know more about it."

// Peer is a provisioned identity on the messaging collaborator.
type Peer struct {
	UID    string
	Name   string
	UserID domain.UserID
}

// Directory is the messaging collaborator's account surface. Lookup returns
// sentinel.ErrNotFound for unknown UIDs.
type Directory interface {
	Lookup(ctx context.Context, uid string) (Peer, error)
	Create(ctx context.Context, peer Peer) error
	SendText(ctx context.Context, fromUID, toUID, text string) error
}

type Service struct {
	directory Directory
	logger    *slog.Logger
}

func NewService(directory Directory, logger *slog.Logger) *Service {
	return &Service{directory: directory, logger: logger}
}

// HandleFor normalizes a display name into the collaborator's UID form.
func (s *Service) HandleFor(name string) (string, error) {
	uid := identity.ChatUID(name)
	if uid == "" {
		return "", dErrors.New(dErrors.CodeValidation, "name is empty")
	}
	return uid, nil
}

// EnsurePeer looks up the peer for a display name, creating it on first
// contact. Directory UIDs are deterministic so repeated calls converge on
// the same peer.
func (s *Service) EnsurePeer(ctx context.Context, name string, userID domain.UserID) (Peer, error) {
	uid, err := s.HandleFor(name)
	if err != nil {
		return Peer{}, err
	}

	peer, err := s.directory.Lookup(ctx, uid)
	if err == nil {
		return peer, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return Peer{}, dErrors.Wrap(err, dErrors.CodeProviderError, "looking up chat peer")
	}

	peer = Peer{UID: uid, Name: name, UserID: userID}
	if err := s.directory.Create(ctx, peer); err != nil {
		return Peer{}, dErrors.Wrap(err, dErrors.CodeProviderError, "creating chat peer")
	}
	s.logger.Info("chat peer provisioned", "uid", uid)
	return peer, nil
}

// OpenConversation makes sure the seller exists on the collaborator and
// sends the opening message from the buyer.
func (s *Service) OpenConversation(ctx context.Context, buyer Peer, sellerName string, sellerID domain.UserID) (Peer, error) {
	seller, err := s.EnsurePeer(ctx, sellerName, sellerID)
	if err != nil {
		return Peer{}, err
	}
	if err := s.directory.SendText(ctx, buyer.UID, seller.UID, DefaultGreeting); err != nil {
		return Peer{}, dErrors.Wrap(err, dErrors.CodeProviderError, "sending greeting")
	}
	return seller, nil
}

package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"unitrader/pkg/domain"
	"unitrader/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewInMemory(
		Item{ID: "calc-1", Slug: "scientific-calculator", Title: "Scientific Calculator", Price: 450, Currency: "INR", Count: 2, Category: "electronics", Seller: "2023BCY0002"},
		Item{ID: "lamp-2", Slug: "desk-lamp", Title: "Desk Lamp", Price: 300, Currency: "INR", Count: 0, Category: "furniture", Seller: "2023BCY0002"},
		Item{ID: "book-3", Slug: "clrs", Title: "Introduction to Algorithms", Price: 700, Currency: "INR", Count: 1, Category: "books", Seller: "2022BCS0101"},
	)
}

func (s *InMemoryStoreSuite) TestFindBySlug() {
	item, err := s.store.FindBySlug(s.ctx, "scientific-calculator")
	s.Require().NoError(err)
	s.Equal(domain.ItemID("calc-1"), item.ID)
	s.True(item.Available())

	_, err = s.store.FindBySlug(s.ctx, "missing")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestListByCategory() {
	items, err := s.store.ListByCategory(s.ctx, "books")
	s.Require().NoError(err)
	s.Require().Len(items, 1)
	s.Equal("Introduction to Algorithms", items[0].Title)

	items, err = s.store.ListByCategory(s.ctx, "vehicles")
	s.Require().NoError(err)
	s.Empty(items)
}

func (s *InMemoryStoreSuite) TestListBySellerRoll() {
	items, err := s.store.ListBySellerRoll(s.ctx, "2023BCY0002")
	s.Require().NoError(err)
	s.Len(items, 2)
}

func (s *InMemoryStoreSuite) TestListByIDs() {
	items, err := s.store.ListByIDs(s.ctx, []domain.ItemID{"book-3", "missing", "calc-1"})
	s.Require().NoError(err)
	s.Require().Len(items, 2, "missing ids are skipped")
	s.Equal(domain.ItemID("book-3"), items[0].ID, "caller ordering preserved")
	s.Equal(domain.ItemID("calc-1"), items[1].ID)
}

func (s *InMemoryStoreSuite) TestCartView() {
	item, err := s.store.FindBySlug(s.ctx, "desk-lamp")
	s.Require().NoError(err)

	view := item.CartView()
	s.Equal(item.ID, view.ID)
	s.Equal(300.0, view.UnitPrice)
	s.False(view.Available, "zero count renders as not available")
}

func (s *InMemoryStoreSuite) TestPutReplacesByID() {
	s.store.Put(Item{ID: "calc-1", Slug: "scientific-calculator", Title: "Scientific Calculator", Price: 400, Count: 1})

	item, err := s.store.FindBySlug(s.ctx, "scientific-calculator")
	s.Require().NoError(err)
	s.Equal(400.0, item.Price)

	items, err := s.store.ListByIDs(s.ctx, []domain.ItemID{"calc-1"})
	s.Require().NoError(err)
	s.Len(items, 1)
}

package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	types "github.com/potensio/gii-backend/internal/domain"
	"github.com/potensio/gii-backend/internal/domain/identity"
)

type mergeFixture struct {
	store   *memStore
	carts   *fakeCartRepo
	items   *fakeCartItemRepo
	service CartMergeService
}

func newMergeFixture(t *testing.T) *mergeFixture {
	t.Helper()
	store := &memStore{}
	carts := &fakeCartRepo{s: store}
	items := &fakeCartItemRepo{s: store}
	return &mergeFixture{
		store:   store,
		carts:   carts,
		items:   items,
		service: NewCartMergeService(testLogger(t), passTxRunner{}, carts, items),
	}
}

func (f *mergeFixture) seedCart(id identity.Identity) *types.Cart {
	c, _ := f.carts.Create(context.Background(), nil, newCartFor(id))
	return c
}

func (f *mergeFixture) seedLine(cartID uuid.UUID, productID uuid.UUID, key string, qty int, price int64, updatedAt time.Time) *types.CartItem {
	item, _ := f.items.Create(context.Background(), nil, &types.CartItem{
		CartID:       cartID,
		ProductID:    productID,
		SelectionKey: key,
		Quantity:     qty,
		UnitPrice:    price,
		Selected:     true,
		AddedAt:      updatedAt,
		UpdatedAt:    updatedAt,
	})
	return item
}

func TestClaimMovesGuestLinesIntoUserCart(t *testing.T) {
	f := newMergeFixture(t)
	userID := uuid.New()
	guest := identity.ForGuest("sess_guest")
	guestCart := f.seedCart(guest)
	f.seedLine(guestCart.ID, uuid.New(), "", 2, 50000, time.Now())

	if err := f.service.Claim(context.Background(), "sess_guest", userID); err != nil {
		t.Fatalf("Claim: %v", err)
	}

	userCart, _ := f.carts.GetByIdentity(context.Background(), nil, identity.ForUser(userID))
	if userCart == nil {
		t.Fatal("user cart should have been created")
	}
	lines, _ := f.items.ListByCartID(context.Background(), nil, userCart.ID)
	if len(lines) != 1 || lines[0].Quantity != 2 {
		t.Fatalf("expected the guest line in the user cart, got %+v", lines)
	}
	if got, _ := f.carts.GetByIdentity(context.Background(), nil, guest); got != nil {
		t.Fatal("guest cart must be gone after claim")
	}
}

func TestClaimSumsMatchingLines(t *testing.T) {
	f := newMergeFixture(t)
	userID := uuid.New()
	productID := uuid.New()
	now := time.Now()

	guestCart := f.seedCart(identity.ForGuest("sess_guest"))
	userCart := f.seedCart(identity.ForUser(userID))
	// The guest line is newer, so its snapshot wins the merge.
	f.seedLine(guestCart.ID, productID, "size=m", 1, 60000, now)
	f.seedLine(userCart.ID, productID, "size=m", 2, 50000, now.Add(-time.Hour))

	if err := f.service.Claim(context.Background(), "sess_guest", userID); err != nil {
		t.Fatalf("Claim: %v", err)
	}

	lines, _ := f.items.ListByCartID(context.Background(), nil, userCart.ID)
	if len(lines) != 1 {
		t.Fatalf("matching lines must merge into one, got %d", len(lines))
	}
	if lines[0].Quantity != 3 {
		t.Fatalf("quantity = %d, want 2+1=3", lines[0].Quantity)
	}
	if lines[0].UnitPrice != 60000 {
		t.Fatalf("the newer snapshot must win, got price %d", lines[0].UnitPrice)
	}
}

func TestClaimKeepsDistinctVariantLinesApart(t *testing.T) {
	f := newMergeFixture(t)
	userID := uuid.New()
	productID := uuid.New()
	now := time.Now()

	guestCart := f.seedCart(identity.ForGuest("sess_guest"))
	userCart := f.seedCart(identity.ForUser(userID))
	f.seedLine(guestCart.ID, productID, "size=l", 1, 50000, now)
	f.seedLine(userCart.ID, productID, "size=m", 1, 50000, now)

	if err := f.service.Claim(context.Background(), "sess_guest", userID); err != nil {
		t.Fatalf("Claim: %v", err)
	}

	lines, _ := f.items.ListByCartID(context.Background(), nil, userCart.ID)
	if len(lines) != 2 {
		t.Fatalf("different selections are different lines, got %d", len(lines))
	}
}

func TestClaimWithoutGuestCartIsNoOp(t *testing.T) {
	f := newMergeFixture(t)
	userID := uuid.New()
	userCart := f.seedCart(identity.ForUser(userID))
	f.seedLine(userCart.ID, uuid.New(), "", 1, 50000, time.Now())

	if err := f.service.Claim(context.Background(), "sess_never_used", userID); err != nil {
		t.Fatalf("Claim: %v", err)
	}
	lines, _ := f.items.ListByCartID(context.Background(), nil, userCart.ID)
	if len(lines) != 1 {
		t.Fatalf("no-op claim must leave the user cart alone, got %d lines", len(lines))
	}
}

// Claiming twice is safe: the second run finds no guest cart and changes
// nothing, so a client retry after a dropped response cannot double lines.
func TestClaimIsIdempotent(t *testing.T) {
	f := newMergeFixture(t)
	userID := uuid.New()
	guestCart := f.seedCart(identity.ForGuest("sess_guest"))
	f.seedLine(guestCart.ID, uuid.New(), "", 2, 50000, time.Now())

	if err := f.service.Claim(context.Background(), "sess_guest", userID); err != nil {
		t.Fatalf("first Claim: %v", err)
	}
	if err := f.service.Claim(context.Background(), "sess_guest", userID); err != nil {
		t.Fatalf("second Claim: %v", err)
	}

	userCart, _ := f.carts.GetByIdentity(context.Background(), nil, identity.ForUser(userID))
	lines, _ := f.items.ListByCartID(context.Background(), nil, userCart.ID)
	if len(lines) != 1 || lines[0].Quantity != 2 {
		t.Fatalf("repeat claim must not change quantities, got %+v", lines)
	}
}

package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/potensio/gii-backend/internal/domain"
	"github.com/potensio/gii-backend/internal/domain/identity"
	"github.com/potensio/gii-backend/internal/platform/dbctx"
	"github.com/potensio/gii-backend/internal/platform/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

// passTxRunner runs the callback without a real transaction; the fakes
// below have no rollback, so tests assert observable end state instead.
type passTxRunner struct{}

func (passTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	return fn(dbctx.Context{Ctx: ctx})
}

// memStore backs the cart fakes so cart and line state stay consistent.
type memStore struct {
	carts []*types.Cart
	items []*types.CartItem
}

type fakeCartRepo struct {
	s        *memStore
	touchErr error
}

func (r *fakeCartRepo) find(id identity.Identity) *types.Cart {
	for _, c := range r.s.carts {
		if id.IsUser() && c.UserID != nil && *c.UserID == id.UserID {
			return c
		}
		if id.IsGuest() && c.SessionID != nil && *c.SessionID == id.SessionID {
			return c
		}
	}
	return nil
}

func (r *fakeCartRepo) GetByIdentity(ctx context.Context, tx *gorm.DB, id identity.Identity) (*types.Cart, error) {
	return r.find(id), nil
}

func (r *fakeCartRepo) GetByIdentityForUpdate(ctx context.Context, tx *gorm.DB, id identity.Identity) (*types.Cart, error) {
	return r.find(id), nil
}

func (r *fakeCartRepo) Create(ctx context.Context, tx *gorm.DB, c *types.Cart) (*types.Cart, error) {
	c.ID = uuid.New()
	r.s.carts = append(r.s.carts, c)
	return c, nil
}

func (r *fakeCartRepo) Touch(ctx context.Context, tx *gorm.DB, cartID uuid.UUID, at time.Time) error {
	if r.touchErr != nil {
		return r.touchErr
	}
	for _, c := range r.s.carts {
		if c.ID == cartID {
			c.LastActivityAt = at
		}
	}
	return nil
}

func (r *fakeCartRepo) Delete(ctx context.Context, tx *gorm.DB, cartID uuid.UUID) error {
	kept := r.s.carts[:0]
	for _, c := range r.s.carts {
		if c.ID != cartID {
			kept = append(kept, c)
		}
	}
	r.s.carts = kept
	return nil
}

type fakeCartItemRepo struct {
	s *memStore
}

func (r *fakeCartItemRepo) ListByCartID(ctx context.Context, tx *gorm.DB, cartID uuid.UUID) ([]*types.CartItem, error) {
	var out []*types.CartItem
	for _, it := range r.s.items {
		if it.CartID == cartID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *fakeCartItemRepo) ListSelectedByCartID(ctx context.Context, tx *gorm.DB, cartID uuid.UUID) ([]*types.CartItem, error) {
	var out []*types.CartItem
	for _, it := range r.s.items {
		if it.CartID == cartID && it.Selected {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *fakeCartItemRepo) GetByID(ctx context.Context, tx *gorm.DB, cartID, itemID uuid.UUID) (*types.CartItem, error) {
	for _, it := range r.s.items {
		if it.CartID == cartID && it.ID == itemID {
			return it, nil
		}
	}
	return nil, nil
}

func (r *fakeCartItemRepo) FindLine(ctx context.Context, tx *gorm.DB, cartID, productID uuid.UUID, selectionKey string) (*types.CartItem, error) {
	for _, it := range r.s.items {
		if it.CartID == cartID && it.ProductID == productID && it.SelectionKey == selectionKey {
			return it, nil
		}
	}
	return nil, nil
}

func (r *fakeCartItemRepo) Create(ctx context.Context, tx *gorm.DB, item *types.CartItem) (*types.CartItem, error) {
	item.ID = uuid.New()
	r.s.items = append(r.s.items, item)
	return item, nil
}

func (r *fakeCartItemRepo) Update(ctx context.Context, tx *gorm.DB, item *types.CartItem) error {
	for i, it := range r.s.items {
		if it.ID == item.ID {
			r.s.items[i] = item
		}
	}
	return nil
}

func (r *fakeCartItemRepo) UpdateQuantity(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, quantity int) error {
	for _, it := range r.s.items {
		if it.ID == itemID {
			it.Quantity = quantity
		}
	}
	return nil
}

func (r *fakeCartItemRepo) SetSelected(ctx context.Context, tx *gorm.DB, cartID uuid.UUID, itemIDs []uuid.UUID, selected bool) error {
	for _, it := range r.s.items {
		if it.CartID != cartID {
			continue
		}
		for _, id := range itemIDs {
			if it.ID == id {
				it.Selected = selected
			}
		}
	}
	return nil
}

func (r *fakeCartItemRepo) MoveToCart(ctx context.Context, tx *gorm.DB, itemID, targetCartID uuid.UUID) error {
	for _, it := range r.s.items {
		if it.ID == itemID {
			it.CartID = targetCartID
		}
	}
	return nil
}

func (r *fakeCartItemRepo) Delete(ctx context.Context, tx *gorm.DB, cartID, itemID uuid.UUID) error {
	kept := r.s.items[:0]
	for _, it := range r.s.items {
		if !(it.CartID == cartID && it.ID == itemID) {
			kept = append(kept, it)
		}
	}
	r.s.items = kept
	return nil
}

func (r *fakeCartItemRepo) DeleteByCartID(ctx context.Context, tx *gorm.DB, cartID uuid.UUID) error {
	kept := r.s.items[:0]
	for _, it := range r.s.items {
		if it.CartID != cartID {
			kept = append(kept, it)
		}
	}
	r.s.items = kept
	return nil
}

func (r *fakeCartItemRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, cartID uuid.UUID, itemIDs []uuid.UUID) error {
	drop := make(map[uuid.UUID]bool, len(itemIDs))
	for _, id := range itemIDs {
		drop[id] = true
	}
	kept := r.s.items[:0]
	for _, it := range r.s.items {
		if it.CartID == cartID && drop[it.ID] {
			continue
		}
		kept = append(kept, it)
	}
	r.s.items = kept
	return nil
}

type fakeProductRepo struct {
	products map[uuid.UUID]*types.Product
}

func (r *fakeProductRepo) GetByID(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (*types.Product, error) {
	return r.products[productID], nil
}

func (r *fakeProductRepo) GetByIDs(ctx context.Context, tx *gorm.DB, productIDs []uuid.UUID) ([]*types.Product, error) {
	var out []*types.Product
	for _, id := range productIDs {
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeAddressRepo struct {
	addresses []*types.Address
	seq       int
}

func (r *fakeAddressRepo) Create(ctx context.Context, tx *gorm.DB, a *types.Address) (*types.Address, error) {
	a.ID = uuid.New()
	r.seq++
	a.CreatedAt = time.Unix(int64(r.seq), 0)
	r.addresses = append(r.addresses, a)
	return a, nil
}

func (r *fakeAddressRepo) GetByIDForUser(ctx context.Context, tx *gorm.DB, addressID, userID uuid.UUID) (*types.Address, error) {
	for _, a := range r.addresses {
		if a.ID == addressID && a.UserID == userID {
			return a, nil
		}
	}
	return nil, nil
}

func (r *fakeAddressRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Address, error) {
	var out []*types.Address
	for _, a := range r.addresses {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAddressRepo) Update(ctx context.Context, tx *gorm.DB, a *types.Address) error {
	for i, existing := range r.addresses {
		if existing.ID == a.ID {
			r.addresses[i] = a
		}
	}
	return nil
}

func (r *fakeAddressRepo) Delete(ctx context.Context, tx *gorm.DB, addressID, userID uuid.UUID) error {
	kept := r.addresses[:0]
	for _, a := range r.addresses {
		if !(a.ID == addressID && a.UserID == userID) {
			kept = append(kept, a)
		}
	}
	r.addresses = kept
	return nil
}

func (r *fakeAddressRepo) CountByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	var n int64
	for _, a := range r.addresses {
		if a.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *fakeAddressRepo) UnsetDefaults(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	for _, a := range r.addresses {
		if a.UserID == userID {
			a.IsDefault = false
		}
	}
	return nil
}

func (r *fakeAddressRepo) SetDefault(ctx context.Context, tx *gorm.DB, addressID, userID uuid.UUID) error {
	for _, a := range r.addresses {
		if a.ID == addressID && a.UserID == userID {
			a.IsDefault = true
		}
	}
	return nil
}

func (r *fakeAddressRepo) MostRecent(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Address, error) {
	var newest *types.Address
	for _, a := range r.addresses {
		if a.UserID != userID {
			continue
		}
		if newest == nil || a.CreatedAt.After(newest.CreatedAt) {
			newest = a
		}
	}
	return newest, nil
}

type fakeOrderRepo struct {
	orders    []*types.Order
	createErr error
}

func (r *fakeOrderRepo) Create(ctx context.Context, tx *gorm.DB, o *types.Order) (*types.Order, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	o.ID = uuid.New()
	for i := range o.Items {
		o.Items[i].ID = uuid.New()
		o.Items[i].OrderID = o.ID
	}
	r.orders = append(r.orders, o)
	return o, nil
}

func (r *fakeOrderRepo) GetByIDForUser(ctx context.Context, tx *gorm.DB, orderID, userID uuid.UUID) (*types.Order, error) {
	for _, o := range r.orders {
		if o.ID == orderID && o.UserID == userID {
			return o, nil
		}
	}
	return nil, nil
}

func (r *fakeOrderRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Order, error) {
	var out []*types.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) OrderNumberExists(ctx context.Context, tx *gorm.DB, orderNumber string) (bool, error) {
	for _, o := range r.orders {
		if o.OrderNumber == orderNumber {
			return true, nil
		}
	}
	return false, nil
}

type fakeUserRepo struct {
	users []*types.User
}

func (r *fakeUserRepo) Create(ctx context.Context, tx *gorm.DB, u *types.User) (*types.User, error) {
	u.ID = uuid.New()
	r.users = append(r.users, u)
	return u, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.User, error) {
	for _, u := range r.users {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	u, _ := r.GetByEmail(ctx, tx, email)
	return u != nil, nil
}

type fakeUserTokenRepo struct {
	tokens []*types.UserToken
}

func (r *fakeUserTokenRepo) Create(ctx context.Context, tx *gorm.DB, token *types.UserToken) (*types.UserToken, error) {
	token.ID = uuid.New()
	r.tokens = append(r.tokens, token)
	return token, nil
}

func (r *fakeUserTokenRepo) GetByRefreshToken(ctx context.Context, tx *gorm.DB, refreshToken string) (*types.UserToken, error) {
	for _, t := range r.tokens {
		if t.RefreshToken == refreshToken {
			return t, nil
		}
	}
	return nil, nil
}

func (r *fakeUserTokenRepo) DeleteByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	kept := r.tokens[:0]
	for _, t := range r.tokens {
		if t.UserID != userID {
			kept = append(kept, t)
		}
	}
	r.tokens = kept
	return nil
}

func (r *fakeUserTokenRepo) DeleteExpired(ctx context.Context, tx *gorm.DB, now time.Time) error {
	kept := r.tokens[:0]
	for _, t := range r.tokens {
		if t.ExpiresAt.After(now) {
			kept = append(kept, t)
		}
	}
	r.tokens = kept
	return nil
}

type fakeIdempotencyStore struct {
	receipts map[string]*CheckoutReceipt
	inflight map[string]bool
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{
		receipts: map[string]*CheckoutReceipt{},
		inflight: map[string]bool{},
	}
}

func (s *fakeIdempotencyStore) Begin(ctx context.Context, key string) (*CheckoutReceipt, bool, error) {
	if r, ok := s.receipts[key]; ok {
		return r, false, nil
	}
	if s.inflight[key] {
		return nil, true, nil
	}
	s.inflight[key] = true
	return nil, false, nil
}

func (s *fakeIdempotencyStore) Complete(ctx context.Context, key string, receipt *CheckoutReceipt) error {
	delete(s.inflight, key)
	s.receipts[key] = receipt
	return nil
}

func (s *fakeIdempotencyStore) Release(ctx context.Context, key string) error {
	delete(s.inflight, key)
	return nil
}

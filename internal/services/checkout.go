package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"

	repos "github.com/potensio/gii-backend/internal/data/repos"
	addressrepo "github.com/potensio/gii-backend/internal/data/repos/address"
	cartrepo "github.com/potensio/gii-backend/internal/data/repos/cart"
	orderrepo "github.com/potensio/gii-backend/internal/data/repos/order"
	userrepo "github.com/potensio/gii-backend/internal/data/repos/user"
	types "github.com/potensio/gii-backend/internal/domain"
	"github.com/potensio/gii-backend/internal/domain/identity"
	"github.com/potensio/gii-backend/internal/platform/apierr"
	"github.com/potensio/gii-backend/internal/platform/dbctx"
	"github.com/potensio/gii-backend/internal/platform/logger"
)

type GuestCheckoutInput struct {
	FullName     string
	Email        string
	Phone        string
	AddressLabel string
	FullAddress  string
	Village      string
	District     string
	City         string
	Province     string
	PostalCode   string
}

// CheckoutService is the transactional boundary that turns a validated cart
// into an immutable order. Snapshotting, totals, order persistence, and the
// cart clear all commit together or not at all.
type CheckoutService interface {
	CheckoutAuthenticated(ctx context.Context, userID, addressID uuid.UUID, idemKey string) (*CheckoutReceipt, error)
	CheckoutGuest(ctx context.Context, sessionID string, input GuestCheckoutInput, idemKey string) (*CheckoutReceipt, *TokenPair, error)
}

type checkoutService struct {
	log          *logger.Logger
	txRunner     repos.TxRunner
	cartRepo     cartrepo.CartRepo
	itemRepo     cartrepo.CartItemRepo
	addressRepo  addressrepo.AddressRepo
	orderRepo    orderrepo.OrderRepo
	userRepo     userrepo.UserRepo
	validator    CartValidationService
	auth         AuthService
	idempotency  IdempotencyStore
	shippingCost int64
}

func NewCheckoutService(
	log *logger.Logger,
	txRunner repos.TxRunner,
	cartRepo cartrepo.CartRepo,
	itemRepo cartrepo.CartItemRepo,
	addressRepo addressrepo.AddressRepo,
	orderRepo orderrepo.OrderRepo,
	userRepo userrepo.UserRepo,
	validator CartValidationService,
	auth AuthService,
	idempotency IdempotencyStore,
	shippingCost int64,
) CheckoutService {
	return &checkoutService{
		log:          log.With("service", "CheckoutService"),
		txRunner:     txRunner,
		cartRepo:     cartRepo,
		itemRepo:     itemRepo,
		addressRepo:  addressRepo,
		orderRepo:    orderRepo,
		userRepo:     userRepo,
		validator:    validator,
		auth:         auth,
		idempotency:  idempotency,
		shippingCost: shippingCost,
	}
}

func (cs *checkoutService) CheckoutAuthenticated(ctx context.Context, userID, addressID uuid.UUID, idemKey string) (*CheckoutReceipt, error) {
	replay, release, err := cs.beginIdempotent(ctx, idemKey)
	if err != nil {
		return nil, err
	}
	if replay != nil {
		return replay, nil
	}

	u, err := cs.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		release()
		return nil, fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		release()
		return nil, apierr.Unauthorized("identity_unresolved", fmt.Errorf("user %s not found", userID))
	}

	var receipt *CheckoutReceipt
	err = cs.txRunner.InTx(ctx, func(dbc dbctx.Context) error {
		// Ownership check: an address id belonging to someone else reads
		// exactly like a missing one.
		addr, err := cs.addressRepo.GetByIDForUser(dbc.Ctx, dbc.Tx, addressID, userID)
		if err != nil {
			return fmt.Errorf("load address: %w", err)
		}
		if addr == nil {
			return apierr.NotFound("address_not_found", fmt.Errorf("address %s not found for user", addressID))
		}

		cart, items, err := cs.loadCheckoutLines(dbc, identity.ForUser(userID))
		if err != nil {
			return err
		}

		snapshot := shippingFromAddress(addr)
		o, err := cs.createOrder(dbc, u, cart, items, snapshot)
		if err != nil {
			return err
		}
		receipt = &CheckoutReceipt{OrderID: o.ID.String(), OrderNumber: o.OrderNumber}
		return nil
	})
	if err != nil {
		release()
		return nil, err
	}

	cs.completeIdempotent(ctx, idemKey, receipt)
	cs.log.Info("authenticated checkout completed", "user_id", userID.String(), "order_number", receipt.OrderNumber)
	return receipt, nil
}

func (cs *checkoutService) CheckoutGuest(ctx context.Context, sessionID string, input GuestCheckoutInput, idemKey string) (*CheckoutReceipt, *TokenPair, error) {
	if sessionID == "" {
		return nil, nil, apierr.Unauthorized("identity_unresolved", fmt.Errorf("no guest session"))
	}
	if err := validateGuestInput(input); err != nil {
		return nil, nil, err
	}

	replay, release, err := cs.beginIdempotent(ctx, idemKey)
	if err != nil {
		return nil, nil, err
	}
	if replay != nil {
		return replay, nil, nil
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	var receipt *CheckoutReceipt
	var createdUser *types.User
	err = cs.txRunner.InTx(ctx, func(dbc dbctx.Context) error {
		cart, items, err := cs.loadCheckoutLines(dbc, identity.ForGuest(sessionID))
		if err != nil {
			return err
		}

		// Guest checkout against an already-registered email is refused
		// outright; orders never attach to an account the caller has not
		// authenticated as.
		exists, err := cs.userRepo.EmailExists(dbc.Ctx, dbc.Tx, email)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if exists {
			return apierr.Validation("email_taken", fmt.Errorf("email already registered, log in to check out"))
		}

		password, err := randomPassword()
		if err != nil {
			return err
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		createdUser, err = cs.userRepo.Create(dbc.Ctx, dbc.Tx, &types.User{
			Email:    email,
			Password: string(hashed),
			FullName: strings.TrimSpace(input.FullName),
			Phone:    strings.TrimSpace(input.Phone),
		})
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}

		addr, err := cs.addressRepo.Create(dbc.Ctx, dbc.Tx, &types.Address{
			UserID:      createdUser.ID,
			Label:       input.AddressLabel,
			Recipient:   strings.TrimSpace(input.FullName),
			Phone:       strings.TrimSpace(input.Phone),
			FullAddress: input.FullAddress,
			Village:     input.Village,
			District:    input.District,
			City:        input.City,
			Province:    input.Province,
			PostalCode:  input.PostalCode,
			Country:     "ID",
			IsDefault:   true,
		})
		if err != nil {
			return fmt.Errorf("create address: %w", err)
		}

		o, err := cs.createOrder(dbc, createdUser, cart, items, shippingFromAddress(addr))
		if err != nil {
			return err
		}
		// The guest cart is finished; the next visit gets a user cart.
		if err := cs.cartRepo.Delete(dbc.Ctx, dbc.Tx, cart.ID); err != nil {
			return fmt.Errorf("delete guest cart: %w", err)
		}
		receipt = &CheckoutReceipt{
			OrderID:     o.ID.String(),
			OrderNumber: o.OrderNumber,
			UserID:      createdUser.ID.String(),
		}
		return nil
	})
	if err != nil {
		release()
		return nil, nil, err
	}

	pair, err := cs.auth.IssueTokens(ctx, nil, createdUser)
	if err != nil {
		// The order is committed; a token failure only costs auto sign-in.
		cs.log.Warn("post-checkout sign-in failed", "error", err)
		pair = nil
	}

	cs.completeIdempotent(ctx, idemKey, receipt)
	cs.log.Info("guest checkout completed", "user_id", receipt.UserID, "order_number", receipt.OrderNumber)
	return receipt, pair, nil
}

// loadCheckoutLines locks the cart and returns the lines selected for
// checkout. An absent cart and an empty selection both fail validation.
func (cs *checkoutService) loadCheckoutLines(dbc dbctx.Context, id identity.Identity) (*types.Cart, []*types.CartItem, error) {
	cart, err := cs.cartRepo.GetByIdentityForUpdate(dbc.Ctx, dbc.Tx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("load cart: %w", err)
	}
	if cart == nil {
		return nil, nil, apierr.Validation("empty_cart", fmt.Errorf("no cart to check out"))
	}
	items, err := cs.itemRepo.ListSelectedByCartID(dbc.Ctx, dbc.Tx, cart.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("list lines: %w", err)
	}
	if len(items) == 0 {
		return nil, nil, apierr.Validation("empty_cart", fmt.Errorf("no items selected for checkout"))
	}

	// Server-side re-validation is the authority; the client should have
	// remediated already, so any issue here is a hard stop.
	result, err := cs.validator.Validate(dbc, items)
	if err != nil {
		return nil, nil, fmt.Errorf("validate cart: %w", err)
	}
	if !result.Valid {
		return nil, nil, apierr.ValidationWithDetails("cart_invalid", fmt.Errorf("cart failed validation"), result.Issues)
	}
	return cart, items, nil
}

func (cs *checkoutService) createOrder(dbc dbctx.Context, u *types.User, cart *types.Cart, items []*types.CartItem, snapshot types.ShippingSnapshot) (*types.Order, error) {
	now := time.Now()
	number, err := cs.uniqueOrderNumber(dbc, now)
	if err != nil {
		return nil, err
	}

	addrJSON, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("serialize shipping address: %w", err)
	}

	var subtotal int64
	orderItems := make([]types.OrderItem, 0, len(items))
	checkedOut := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		lineSubtotal := item.UnitPrice * int64(item.Quantity)
		subtotal += lineSubtotal
		orderItems = append(orderItems, types.OrderItem{
			ProductID:         item.ProductID,
			ProductName:       item.ProductName,
			SKU:               item.SKU,
			UnitPrice:         item.UnitPrice,
			Quantity:          item.Quantity,
			Subtotal:          lineSubtotal,
			ImageURL:          item.ThumbnailURL,
			VariantSelections: item.VariantSelections,
		})
		checkedOut = append(checkedOut, item.ID)
	}

	o, err := cs.orderRepo.Create(dbc.Ctx, dbc.Tx, &types.Order{
		OrderNumber:     number,
		UserID:          u.ID,
		CustomerName:    u.FullName,
		CustomerEmail:   u.Email,
		CustomerPhone:   u.Phone,
		ShippingAddress: datatypes.JSON(addrJSON),
		Subtotal:        subtotal,
		ShippingCost:    cs.shippingCost,
		Total:           subtotal + cs.shippingCost,
		Currency:        "IDR",
		OrderStatus:     types.OrderStatusPending,
		PaymentStatus:   types.PaymentStatusPending,
		Items:           orderItems,
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := cs.itemRepo.DeleteByIDs(dbc.Ctx, dbc.Tx, cart.ID, checkedOut); err != nil {
		return nil, fmt.Errorf("clear checked-out lines: %w", err)
	}
	if err := cs.cartRepo.Touch(dbc.Ctx, dbc.Tx, cart.ID, now); err != nil {
		return nil, fmt.Errorf("touch cart: %w", err)
	}
	return o, nil
}

func (cs *checkoutService) uniqueOrderNumber(dbc dbctx.Context, now time.Time) (string, error) {
	for attempt := 0; attempt < 3; attempt++ {
		number, err := newOrderNumber(now)
		if err != nil {
			return "", err
		}
		exists, err := cs.orderRepo.OrderNumberExists(dbc.Ctx, dbc.Tx, number)
		if err != nil {
			return "", fmt.Errorf("check order number: %w", err)
		}
		if !exists {
			return number, nil
		}
	}
	return "", fmt.Errorf("could not allocate a unique order number")
}

func (cs *checkoutService) beginIdempotent(ctx context.Context, key string) (*CheckoutReceipt, func(), error) {
	noop := func() {}
	if cs.idempotency == nil || key == "" {
		return nil, noop, nil
	}
	receipt, inflight, err := cs.idempotency.Begin(ctx, key)
	if err != nil {
		// The guard is best-effort; checkout proceeds without it.
		cs.log.Warn("idempotency store unavailable", "error", err)
		return nil, noop, nil
	}
	if inflight {
		return nil, noop, apierr.Validation("duplicate_request", fmt.Errorf("a checkout with this idempotency key is already in flight"))
	}
	if receipt != nil {
		return receipt, noop, nil
	}
	release := func() {
		if err := cs.idempotency.Release(ctx, key); err != nil {
			cs.log.Warn("idempotency release failed", "error", err)
		}
	}
	return nil, release, nil
}

func (cs *checkoutService) completeIdempotent(ctx context.Context, key string, receipt *CheckoutReceipt) {
	if cs.idempotency == nil || key == "" {
		return
	}
	if err := cs.idempotency.Complete(ctx, key, receipt); err != nil {
		cs.log.Warn("idempotency complete failed", "error", err)
	}
}

func validateGuestInput(input GuestCheckoutInput) error {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	switch {
	case strings.TrimSpace(input.FullName) == "":
		return apierr.Validation("invalid_contact", fmt.Errorf("full name is required"))
	case email == "" || !strings.Contains(email, "@"):
		return apierr.Validation("invalid_contact", fmt.Errorf("a valid email is required"))
	case strings.TrimSpace(input.Phone) == "":
		return apierr.Validation("invalid_contact", fmt.Errorf("phone is required"))
	case input.FullAddress == "":
		return apierr.Validation("invalid_address", fmt.Errorf("full address is required"))
	case input.City == "":
		return apierr.Validation("invalid_address", fmt.Errorf("city is required"))
	case input.Province == "":
		return apierr.Validation("invalid_address", fmt.Errorf("province is required"))
	}
	return nil
}

func shippingFromAddress(a *types.Address) types.ShippingSnapshot {
	return types.ShippingSnapshot{
		Recipient:   a.Recipient,
		Phone:       a.Phone,
		Label:       a.Label,
		FullAddress: a.FullAddress,
		Village:     a.Village,
		District:    a.District,
		City:        a.City,
		Province:    a.Province,
		PostalCode:  a.PostalCode,
		Country:     a.Country,
	}
}

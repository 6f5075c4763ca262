package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	repos "github.com/potensio/gii-backend/internal/data/repos"
	cartrepo "github.com/potensio/gii-backend/internal/data/repos/cart"
	"github.com/potensio/gii-backend/internal/domain/identity"
	"github.com/potensio/gii-backend/internal/platform/apierr"
	"github.com/potensio/gii-backend/internal/platform/dbctx"
	"github.com/potensio/gii-backend/internal/platform/logger"
)

// CartMergeService folds a guest cart into a user's cart on login. Claim is
// idempotent: a retry after the guest cart is gone is a no-op, not an error.
type CartMergeService interface {
	Claim(ctx context.Context, guestSessionID string, userID uuid.UUID) error
}

type cartMergeService struct {
	log      *logger.Logger
	txRunner repos.TxRunner
	cartRepo cartrepo.CartRepo
	itemRepo cartrepo.CartItemRepo
}

func NewCartMergeService(
	log *logger.Logger,
	txRunner repos.TxRunner,
	cartRepo cartrepo.CartRepo,
	itemRepo cartrepo.CartItemRepo,
) CartMergeService {
	return &cartMergeService{
		log:      log.With("service", "CartMergeService"),
		txRunner: txRunner,
		cartRepo: cartRepo,
		itemRepo: itemRepo,
	}
}

func (ms *cartMergeService) Claim(ctx context.Context, guestSessionID string, userID uuid.UUID) error {
	if guestSessionID == "" {
		return apierr.Validation("invalid_guest_id", fmt.Errorf("guest session id required"))
	}
	if userID == uuid.Nil {
		return apierr.Unauthorized("identity_unresolved", fmt.Errorf("no authenticated user"))
	}

	return ms.txRunner.InTx(ctx, func(dbc dbctx.Context) error {
		// Lock both carts for the duration of the merge so no concurrent
		// mutation of either interleaves.
		guestCart, err := ms.cartRepo.GetByIdentityForUpdate(dbc.Ctx, dbc.Tx, identity.ForGuest(guestSessionID))
		if err != nil {
			return fmt.Errorf("load guest cart: %w", err)
		}
		if guestCart == nil {
			// Already claimed, or the guest never added anything.
			return nil
		}

		userCart, err := ms.cartRepo.GetByIdentityForUpdate(dbc.Ctx, dbc.Tx, identity.ForUser(userID))
		if err != nil {
			return fmt.Errorf("load user cart: %w", err)
		}
		if userCart == nil {
			userCart, err = ms.cartRepo.Create(dbc.Ctx, dbc.Tx, newCartFor(identity.ForUser(userID)))
			if err != nil {
				return fmt.Errorf("create user cart: %w", err)
			}
		}

		guestItems, err := ms.itemRepo.ListByCartID(dbc.Ctx, dbc.Tx, guestCart.ID)
		if err != nil {
			return fmt.Errorf("list guest lines: %w", err)
		}

		for _, guestItem := range guestItems {
			userItem, err := ms.itemRepo.FindLine(dbc.Ctx, dbc.Tx, userCart.ID, guestItem.ProductID, guestItem.SelectionKey)
			if err != nil {
				return fmt.Errorf("find matching line: %w", err)
			}
			if userItem == nil {
				if err := ms.itemRepo.MoveToCart(dbc.Ctx, dbc.Tx, guestItem.ID, userCart.ID); err != nil {
					return fmt.Errorf("move line: %w", err)
				}
				continue
			}

			userItem.Quantity += guestItem.Quantity
			if guestItem.UpdatedAt.After(userItem.UpdatedAt) {
				userItem.UnitPrice = guestItem.UnitPrice
				userItem.StockSnapshot = guestItem.StockSnapshot
				userItem.ProductName = guestItem.ProductName
				userItem.SKU = guestItem.SKU
				userItem.ThumbnailURL = guestItem.ThumbnailURL
			}
			userItem.UpdatedAt = time.Now()
			if err := ms.itemRepo.Update(dbc.Ctx, dbc.Tx, userItem); err != nil {
				return fmt.Errorf("merge line: %w", err)
			}
			if err := ms.itemRepo.Delete(dbc.Ctx, dbc.Tx, guestCart.ID, guestItem.ID); err != nil {
				return fmt.Errorf("drop merged guest line: %w", err)
			}
		}

		if err := ms.itemRepo.DeleteByCartID(dbc.Ctx, dbc.Tx, guestCart.ID); err != nil {
			return fmt.Errorf("clear guest cart: %w", err)
		}
		if err := ms.cartRepo.Delete(dbc.Ctx, dbc.Tx, guestCart.ID); err != nil {
			return fmt.Errorf("delete guest cart: %w", err)
		}
		return ms.cartRepo.Touch(dbc.Ctx, dbc.Tx, userCart.ID, time.Now())
	})
}

package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	repos "github.com/potensio/gii-backend/internal/data/repos"
	addressrepo "github.com/potensio/gii-backend/internal/data/repos/address"
	types "github.com/potensio/gii-backend/internal/domain"
	"github.com/potensio/gii-backend/internal/platform/apierr"
	"github.com/potensio/gii-backend/internal/platform/dbctx"
	"github.com/potensio/gii-backend/internal/platform/logger"
)

type AddressInput struct {
	Label       string
	Recipient   string
	Phone       string
	FullAddress string
	Village     string
	District    string
	City        string
	Province    string
	PostalCode  string
	Country     string
	IsDefault   bool
}

// AddressService owns the single-default invariant: once a user has any
// address, exactly one is default. Every default swap runs unset-then-set
// inside the transaction of the triggering mutation, so no intermediate
// zero-default or two-default state is ever visible.
type AddressService interface {
	List(ctx context.Context, userID uuid.UUID) ([]*types.Address, error)
	Create(ctx context.Context, userID uuid.UUID, input AddressInput) (*types.Address, error)
	Update(ctx context.Context, addressID, userID uuid.UUID, input AddressInput) (*types.Address, error)
	Delete(ctx context.Context, addressID, userID uuid.UUID) error
	SetDefault(ctx context.Context, addressID, userID uuid.UUID) error
}

type addressService struct {
	log      *logger.Logger
	txRunner repos.TxRunner
	repo     addressrepo.AddressRepo
}

func NewAddressService(log *logger.Logger, txRunner repos.TxRunner, repo addressrepo.AddressRepo) AddressService {
	return &addressService{
		log:      log.With("service", "AddressService"),
		txRunner: txRunner,
		repo:     repo,
	}
}

func validateAddressInput(input AddressInput) error {
	switch {
	case input.Recipient == "":
		return apierr.Validation("invalid_address", fmt.Errorf("recipient is required"))
	case input.Phone == "":
		return apierr.Validation("invalid_address", fmt.Errorf("phone is required"))
	case input.FullAddress == "":
		return apierr.Validation("invalid_address", fmt.Errorf("full address is required"))
	case input.City == "":
		return apierr.Validation("invalid_address", fmt.Errorf("city is required"))
	case input.Province == "":
		return apierr.Validation("invalid_address", fmt.Errorf("province is required"))
	}
	return nil
}

func addressFromInput(userID uuid.UUID, input AddressInput) *types.Address {
	country := input.Country
	if country == "" {
		country = "ID"
	}
	return &types.Address{
		UserID:      userID,
		Label:       input.Label,
		Recipient:   input.Recipient,
		Phone:       input.Phone,
		FullAddress: input.FullAddress,
		Village:     input.Village,
		District:    input.District,
		City:        input.City,
		Province:    input.Province,
		PostalCode:  input.PostalCode,
		Country:     country,
		IsDefault:   input.IsDefault,
	}
}

func (as *addressService) List(ctx context.Context, userID uuid.UUID) ([]*types.Address, error) {
	return as.repo.ListByUserID(ctx, nil, userID)
}

func (as *addressService) Create(ctx context.Context, userID uuid.UUID, input AddressInput) (*types.Address, error) {
	if err := validateAddressInput(input); err != nil {
		return nil, err
	}
	addr := addressFromInput(userID, input)
	err := as.txRunner.InTx(ctx, func(dbc dbctx.Context) error {
		count, err := as.repo.CountByUserID(dbc.Ctx, dbc.Tx, userID)
		if err != nil {
			return fmt.Errorf("count addresses: %w", err)
		}
		// First address is always the default, requested or not.
		if count == 0 {
			addr.IsDefault = true
		}
		if addr.IsDefault {
			if err := as.repo.UnsetDefaults(dbc.Ctx, dbc.Tx, userID); err != nil {
				return fmt.Errorf("unset defaults: %w", err)
			}
		}
		if _, err := as.repo.Create(dbc.Ctx, dbc.Tx, addr); err != nil {
			return fmt.Errorf("create address: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return addr, nil
}

func (as *addressService) Update(ctx context.Context, addressID, userID uuid.UUID, input AddressInput) (*types.Address, error) {
	if err := validateAddressInput(input); err != nil {
		return nil, err
	}
	var updated *types.Address
	err := as.txRunner.InTx(ctx, func(dbc dbctx.Context) error {
		existing, err := as.repo.GetByIDForUser(dbc.Ctx, dbc.Tx, addressID, userID)
		if err != nil {
			return fmt.Errorf("load address: %w", err)
		}
		if existing == nil {
			return apierr.NotFound("address_not_found", fmt.Errorf("address %s not found for user", addressID))
		}
		if input.IsDefault && !existing.IsDefault {
			if err := as.repo.UnsetDefaults(dbc.Ctx, dbc.Tx, userID); err != nil {
				return fmt.Errorf("unset defaults: %w", err)
			}
		}

		existing.Label = input.Label
		existing.Recipient = input.Recipient
		existing.Phone = input.Phone
		existing.FullAddress = input.FullAddress
		existing.Village = input.Village
		existing.District = input.District
		existing.City = input.City
		existing.Province = input.Province
		existing.PostalCode = input.PostalCode
		if input.Country != "" {
			existing.Country = input.Country
		}
		// Unsetting the default directly is not allowed; defaults move by
		// promoting another address.
		if input.IsDefault {
			existing.IsDefault = true
		}
		if err := as.repo.Update(dbc.Ctx, dbc.Tx, existing); err != nil {
			return fmt.Errorf("update address: %w", err)
		}
		updated = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (as *addressService) Delete(ctx context.Context, addressID, userID uuid.UUID) error {
	return as.txRunner.InTx(ctx, func(dbc dbctx.Context) error {
		existing, err := as.repo.GetByIDForUser(dbc.Ctx, dbc.Tx, addressID, userID)
		if err != nil {
			return fmt.Errorf("load address: %w", err)
		}
		if existing == nil {
			return apierr.NotFound("address_not_found", fmt.Errorf("address %s not found for user", addressID))
		}
		if err := as.repo.Delete(dbc.Ctx, dbc.Tx, addressID, userID); err != nil {
			return fmt.Errorf("delete address: %w", err)
		}
		if existing.IsDefault {
			survivor, err := as.repo.MostRecent(dbc.Ctx, dbc.Tx, userID)
			if err != nil {
				return fmt.Errorf("find survivor: %w", err)
			}
			if survivor != nil {
				if err := as.repo.SetDefault(dbc.Ctx, dbc.Tx, survivor.ID, userID); err != nil {
					return fmt.Errorf("promote survivor: %w", err)
				}
			}
		}
		return nil
	})
}

func (as *addressService) SetDefault(ctx context.Context, addressID, userID uuid.UUID) error {
	return as.txRunner.InTx(ctx, func(dbc dbctx.Context) error {
		existing, err := as.repo.GetByIDForUser(dbc.Ctx, dbc.Tx, addressID, userID)
		if err != nil {
			return fmt.Errorf("load address: %w", err)
		}
		if existing == nil {
			return apierr.NotFound("address_not_found", fmt.Errorf("address %s not found for user", addressID))
		}
		if err := as.repo.UnsetDefaults(dbc.Ctx, dbc.Tx, userID); err != nil {
			return fmt.Errorf("unset defaults: %w", err)
		}
		if err := as.repo.SetDefault(dbc.Ctx, dbc.Tx, addressID, userID); err != nil {
			return fmt.Errorf("set default: %w", err)
		}
		return nil
	})
}

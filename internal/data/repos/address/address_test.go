package address

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/potensio/gii-backend/internal/data/repos/testutil"
	types "github.com/potensio/gii-backend/internal/domain"
)

func newAddress(userID uuid.UUID, label string) *types.Address {
	return &types.Address{
		UserID:      userID,
		Label:       label,
		Recipient:   "Budi Santoso",
		Phone:       "081234567890",
		FullAddress: "Jl. Merdeka No. 1",
		City:        "Jakarta Pusat",
		Province:    "DKI Jakarta",
		PostalCode:  "10110",
		Country:     "ID",
	}
}

func TestAddressRepoOwnershipScoping(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewAddressRepo(db, testutil.Logger(t))
	ctx := context.Background()

	owner := uuid.New()
	stranger := uuid.New()

	created, err := repo.Create(ctx, tx, newAddress(owner, "Rumah"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetByIDForUser(ctx, tx, created.ID, owner)
	if err != nil || got == nil {
		t.Fatalf("owner lookup failed: %v / %v", got, err)
	}
	got, err = repo.GetByIDForUser(ctx, tx, created.ID, stranger)
	if err != nil || got != nil {
		t.Fatalf("stranger lookup must read as missing, got %v / %v", got, err)
	}

	if err := repo.Delete(ctx, tx, created.ID, stranger); err != nil {
		t.Fatalf("scoped delete should be a silent no-op: %v", err)
	}
	if got, _ := repo.GetByIDForUser(ctx, tx, created.ID, owner); got == nil {
		t.Fatal("a stranger's delete must not remove the row")
	}
}

func TestAddressRepoDefaultSwap(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewAddressRepo(db, testutil.Logger(t))
	ctx := context.Background()

	userID := uuid.New()
	first, err := repo.Create(ctx, tx, newAddress(userID, "Rumah"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := repo.Create(ctx, tx, newAddress(userID, "Kantor"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.SetDefault(ctx, tx, first.ID, userID); err != nil {
		t.Fatalf("SetDefault: %v", err)
	}
	if err := repo.UnsetDefaults(ctx, tx, userID); err != nil {
		t.Fatalf("UnsetDefaults: %v", err)
	}
	if err := repo.SetDefault(ctx, tx, second.ID, userID); err != nil {
		t.Fatalf("SetDefault: %v", err)
	}

	list, err := repo.ListByUserID(ctx, tx, userID)
	if err != nil {
		t.Fatalf("ListByUserID: %v", err)
	}
	defaults := 0
	for _, a := range list {
		if a.IsDefault {
			defaults++
			if a.ID != second.ID {
				t.Fatalf("wrong default %s, want %s", a.ID, second.ID)
			}
		}
	}
	if defaults != 1 {
		t.Fatalf("expected exactly one default, got %d", defaults)
	}
}

func TestAddressRepoMostRecent(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewAddressRepo(db, testutil.Logger(t))
	ctx := context.Background()

	userID := uuid.New()
	if _, err := repo.Create(ctx, tx, newAddress(userID, "Rumah")); err != nil {
		t.Fatalf("create: %v", err)
	}
	newest, err := repo.Create(ctx, tx, newAddress(userID, "Kantor"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.MostRecent(ctx, tx, userID)
	if err != nil || got == nil {
		t.Fatalf("MostRecent: %v / %v", got, err)
	}
	if got.ID != newest.ID {
		t.Fatalf("MostRecent = %s, want %s", got.ID, newest.ID)
	}
}

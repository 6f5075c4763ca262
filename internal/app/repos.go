package app

import (
	"gorm.io/gorm"

	repos "github.com/potensio/gii-backend/internal/data/repos"
	addressrepo "github.com/potensio/gii-backend/internal/data/repos/address"
	authrepo "github.com/potensio/gii-backend/internal/data/repos/auth"
	cartrepo "github.com/potensio/gii-backend/internal/data/repos/cart"
	catalogrepo "github.com/potensio/gii-backend/internal/data/repos/catalog"
	orderrepo "github.com/potensio/gii-backend/internal/data/repos/order"
	userrepo "github.com/potensio/gii-backend/internal/data/repos/user"
	"github.com/potensio/gii-backend/internal/platform/logger"
)

type Repos struct {
	TxRunner  repos.TxRunner
	User      userrepo.UserRepo
	UserToken authrepo.UserTokenRepo
	Product   catalogrepo.ProductRepo
	Cart      cartrepo.CartRepo
	CartItem  cartrepo.CartItemRepo
	Address   addressrepo.AddressRepo
	Order     orderrepo.OrderRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		TxRunner:  repos.NewGormTxRunner(db),
		User:      userrepo.NewUserRepo(db, log),
		UserToken: authrepo.NewUserTokenRepo(db, log),
		Product:   catalogrepo.NewProductRepo(db, log),
		Cart:      cartrepo.NewCartRepo(db, log),
		CartItem:  cartrepo.NewCartItemRepo(db, log),
		Address:   addressrepo.NewAddressRepo(db, log),
		Order:     orderrepo.NewOrderRepo(db, log),
	}
}

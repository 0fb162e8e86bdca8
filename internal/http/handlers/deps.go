package handlers

import (
	"stitchmart/internal/assets"
	"stitchmart/internal/repos"
	"stitchmart/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	ProductHandler *ProductHandler
	AuthHandler    *AuthHandler
	CartHandler    *CartHandler
	OrderHandler   *OrderHandler
	Auth           *services.AuthService
}

func NewDeps(db *sqlx.DB, store assets.Store, jwtSecret []byte) *Deps {
	prodRepo := repos.NewProductRepo(db)
	userRepo := repos.NewUserRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)

	authSvc := services.NewAuthService(userRepo, jwtSecret)
	catalogSvc := services.NewCatalogService(prodRepo, store)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	orderSvc := services.NewOrderService(orderRepo)

	return &Deps{
		ProductHandler: &ProductHandler{Catalog: catalogSvc},
		AuthHandler:    &AuthHandler{Auth: authSvc},
		CartHandler:    &CartHandler{Cart: cartSvc, Auth: authSvc},
		OrderHandler:   &OrderHandler{Order: orderSvc, Auth: authSvc},
		Auth:           authSvc,
	}
}

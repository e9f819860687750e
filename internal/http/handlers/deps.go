package handlers

import (
	"orderdesk/internal/checkout"
	"orderdesk/internal/config"
	"orderdesk/internal/repos"
	"orderdesk/internal/services"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
)

type Deps struct {
	Auth             *services.AuthService
	AuthHandler      *AuthHandler
	InventoryHandler *InventoryHandler
	CartHandler      *CartHandler
	CheckoutHandler  *CheckoutHandler
	OrderHandler     *OrderHandler
	AdminHandler     *AdminHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, reg prometheus.Registerer) *Deps {
	userRepo := repos.NewUserRepo(db)
	prodRepo := repos.NewProductRepo(db)
	invRepo := repos.NewInventoryRepo(db)
	cartRepo := repos.NewCartRepo(db)
	custRepo := repos.NewCustomerRepo(db)
	orderRepo := repos.NewOrderRepo(db)

	authSvc := services.NewAuthService(userRepo)
	invSvc := services.NewInventoryService(prodRepo)
	cartSvc := services.NewCartService(cartRepo, prodRepo, custRepo)
	orderSvc := services.NewOrderService(orderRepo)
	coord := checkout.NewCoordinator(db, checkout.NewMetrics(reg), cfg.CheckoutTimeout)

	return &Deps{
		Auth:             authSvc,
		AuthHandler:      &AuthHandler{Auth: authSvc},
		InventoryHandler: &InventoryHandler{Inv: invSvc},
		CartHandler:      &CartHandler{Cart: cartSvc},
		CheckoutHandler:  &CheckoutHandler{Checkout: coord},
		OrderHandler:     &OrderHandler{Order: orderSvc},
		AdminHandler:     &AdminHandler{OrderRepo: orderRepo, Inv: invRepo},
	}
}

package handlers

import (
	"kalaur/internal/services"
)

type Deps struct {
	Auth            *services.AuthService
	AuthHandler     *AuthHandler
	CatalogHandler  *CatalogHandler
	CheckoutHandler *CheckoutHandler
	ShippingHandler *ShippingHandler
	BooksHandler    *BookkeepingHandler
}

func NewDeps(
	auth *services.AuthService,
	catalog *services.CatalogService,
	checkout *services.CheckoutService,
	shipping *services.ShippingService,
	books *services.BookkeepingService,
) *Deps {
	return &Deps{
		Auth:            auth,
		AuthHandler:     &AuthHandler{Auth: auth},
		CatalogHandler:  &CatalogHandler{Catalog: catalog},
		CheckoutHandler: &CheckoutHandler{Checkout: checkout},
		ShippingHandler: &ShippingHandler{Shipping: shipping},
		BooksHandler:    &BookkeepingHandler{Books: books},
	}
}

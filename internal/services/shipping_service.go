package services

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"kalaur/internal/apperr"
	"kalaur/internal/domain"
	"kalaur/internal/validate"
)

const (
	CityQueryMin   = 2
	CityQueryMax   = 60
	CityLimit      = 20
	WarehouseLimit = 50
	cityRefMax     = 64
)

// ErrShippingUnavailable means the carrier lookup failed and the client
// should fall back to manual address entry.
var ErrShippingUnavailable = errors.New("shipping lookup unavailable")

// ErrCarrierNotConfigured is an ErrShippingUnavailable caused by a missing API key.
var ErrCarrierNotConfigured = fmt.Errorf("%w: carrier api key is not set", ErrShippingUnavailable)

// Carrier is the upstream address directory.
type Carrier interface {
	Cities(ctx context.Context, query string, limit int) ([]domain.Place, error)
	Warehouses(ctx context.Context, cityRef string, limit int) ([]domain.Place, error)
}

type ShippingService struct {
	Carrier Carrier
}

func NewShippingService(c Carrier) *ShippingService { return &ShippingService{Carrier: c} }

// Cities searches cities by free text. Queries shorter than CityQueryMin
// runes return nothing without asking the carrier.
func (s *ShippingService) Cities(ctx context.Context, query string) ([]domain.Place, error) {
	q := validate.Text(query, CityQueryMax)
	if utf8.RuneCountInString(q) < CityQueryMin {
		return []domain.Place{}, nil
	}
	if s.Carrier == nil {
		return []domain.Place{}, ErrCarrierNotConfigured
	}
	cities, err := s.Carrier.Cities(ctx, q, CityLimit)
	if err != nil {
		return []domain.Place{}, unavailable(err)
	}
	return capPlaces(cities, CityLimit), nil
}

// Warehouses lists the carrier's branches in one city.
func (s *ShippingService) Warehouses(ctx context.Context, cityRef string) ([]domain.Place, error) {
	ref := validate.Text(cityRef, cityRefMax)
	if ref == "" {
		return []domain.Place{}, apperr.New(apperr.CodeValidation, "cityRef is required")
	}
	if s.Carrier == nil {
		return []domain.Place{}, ErrCarrierNotConfigured
	}
	whs, err := s.Carrier.Warehouses(ctx, ref, WarehouseLimit)
	if err != nil {
		return []domain.Place{}, unavailable(err)
	}
	return capPlaces(whs, WarehouseLimit), nil
}

func unavailable(err error) error {
	if errors.Is(err, ErrShippingUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrShippingUnavailable, err)
}

func capPlaces(in []domain.Place, n int) []domain.Place {
	if in == nil {
		return []domain.Place{}
	}
	if len(in) > n {
		return in[:n]
	}
	return in
}

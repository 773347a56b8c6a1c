package services

import (
	"context"

	"kalaur/internal/apperr"
	"kalaur/internal/domain"
	"kalaur/internal/repos"
	"kalaur/internal/validate"
)

type CatalogService struct {
	Parts *repos.PartsRepo
	Store repos.OverrideStore
}

func NewCatalogService(parts *repos.PartsRepo, store repos.OverrideStore) *CatalogService {
	return &CatalogService{Parts: parts, Store: store}
}

// CatalogView is the effective catalog plus the overrides it was built from.
type CatalogView struct {
	Catalog   []domain.Product         `json:"catalog"`
	Overrides []domain.CatalogOverride `json:"overrides"`
}

// Merge applies overrides onto base. The result has base's length and
// order; price always comes from base.
func Merge(base []domain.Product, overrides []domain.CatalogOverride) []domain.Product {
	byID := make(map[string]domain.CatalogOverride, len(overrides))
	for _, o := range overrides {
		byID[o.ID] = o
	}
	out := make([]domain.Product, len(base))
	for i, p := range base {
		o, ok := byID[p.ID]
		if !ok {
			out[i] = p
			continue
		}
		m := p
		if o.Name != nil {
			m.Name = *o.Name
		}
		if o.InStock != nil {
			m.InStock = *o.InStock
		}
		if o.Condition != nil && o.Condition.Valid() {
			m.Condition = *o.Condition
		}
		if o.SKU != nil {
			m.SKU = *o.SKU
		}
		if o.Description != nil {
			m.Description = *o.Description
		}
		if o.ImageURL != nil {
			m.ImageURL = *o.ImageURL
		}
		if o.StockQty != nil && *o.StockQty >= 0 {
			q := *o.StockQty
			m.StockQty = &q
		}
		m.PriceUAH = p.PriceUAH
		out[i] = m
	}
	return out
}

func (s *CatalogService) sanitize(raw any) []domain.CatalogOverride {
	return validate.Overrides(raw, s.Parts.Has)
}

// Overrides loads the stored overrides. Stored data is sanitized like any
// other untrusted input.
func (s *CatalogService) Overrides(ctx context.Context) ([]domain.CatalogOverride, error) {
	raw, err := s.Store.Load(ctx)
	if err != nil {
		return []domain.CatalogOverride{}, apperr.Wrap(apperr.CodeInternal, err, "read catalog overrides")
	}
	return s.sanitize(raw), nil
}

// Effective returns the merged catalog. When the store cannot be read the
// static catalog is returned together with the error.
func (s *CatalogService) Effective(ctx context.Context) (CatalogView, error) {
	overrides, err := s.Overrides(ctx)
	return CatalogView{Catalog: Merge(s.Parts.List(), overrides), Overrides: overrides}, err
}

// Replace sanitizes raw and stores it as the complete override set.
func (s *CatalogService) Replace(ctx context.Context, raw any) (CatalogView, error) {
	overrides := s.sanitize(raw)
	if err := s.Store.Save(ctx, overrides); err != nil {
		return CatalogView{}, apperr.Wrap(apperr.CodeInternal, err, "failed to write catalog")
	}
	return CatalogView{Catalog: Merge(s.Parts.List(), overrides), Overrides: overrides}, nil
}

// Reset drops every override.
func (s *CatalogService) Reset(ctx context.Context) (CatalogView, error) {
	return s.Replace(ctx, []any{})
}

package validate

import "kalaur/internal/domain"

// Overrides turns an untrusted decoded JSON value into catalog overrides.
// Elements that are not objects or that name an unknown product are
// dropped; fields of the wrong type are dropped individually. Unknown keys
// (price included) are never carried over. A repeated id replaces the
// earlier entry in place.
func Overrides(raw any, known func(id string) bool) []domain.CatalogOverride {
	rows, ok := raw.([]any)
	if !ok {
		return []domain.CatalogOverride{}
	}
	out := make([]domain.CatalogOverride, 0, len(rows))
	seen := make(map[string]int, len(rows))
	for _, r := range rows {
		row, ok := r.(map[string]any)
		if !ok {
			continue
		}
		id := Text(row["id"], 0)
		if id == "" || known == nil || !known(id) {
			continue
		}

		o := domain.CatalogOverride{ID: id}
		if s, ok := String(row["name"]); ok {
			o.Name = &s
		}
		if b, ok := row["inStock"].(bool); ok {
			o.InStock = &b
		}
		if c, ok := Condition(row["condition"]); ok {
			o.Condition = &c
		}
		if s, ok := String(row["sku"]); ok {
			o.SKU = &s
		}
		if s, ok := String(row["description"]); ok {
			o.Description = &s
		}
		if s, ok := String(row["imageUrl"]); ok {
			o.ImageURL = &s
		}
		if n, ok := NonNegativeInt(row["stockQty"]); ok {
			o.StockQty = &n
		}

		if i, dup := seen[id]; dup {
			out[i] = o
			continue
		}
		seen[id] = len(out)
		out = append(out, o)
	}
	return out
}

package repos

import "kalaur/internal/domain"

func price(v int64) *int64 { return &v }

// DefaultParts is the static parts list. It is the only source of product
// ids and prices.
func DefaultParts() []domain.Product {
	return []domain.Product{
		// new parts
		{ID: "new-oil-filter", Name: "Фільтр масляний (новий)", Condition: domain.ConditionNew, InStock: true, PriceUAH: price(450)},
		{ID: "new-air-filter", Name: "Фільтр повітряний (новий)", Condition: domain.ConditionNew, InStock: true, PriceUAH: price(520)},
		{ID: "new-brake-pads", Name: "Гальмівні колодки (нові)", Condition: domain.ConditionNew, InStock: true, PriceUAH: price(1850)},
		{ID: "new-alternator", Name: "Генератор (новий)", Condition: domain.ConditionNew, InStock: true, PriceUAH: price(7200)},
		{ID: "new-clutch-kit", Name: "Комплект зчеплення (новий)", Condition: domain.ConditionNew, InStock: true, PriceUAH: price(9800)},

		// used parts
		{ID: "used-starter", Name: "Стартер (б/у)", Condition: domain.ConditionUsed, InStock: true, PriceUAH: price(2100)},
		{ID: "used-turbo", Name: "Турбіна (б/у)", Condition: domain.ConditionUsed, InStock: true, PriceUAH: price(6500)},
		{ID: "used-gearbox", Name: "Коробка передач (б/у)", Condition: domain.ConditionUsed, InStock: true, PriceUAH: price(18500)},
		{ID: "used-ecu", Name: "Блок керування ECU (б/у)", Condition: domain.ConditionUsed, InStock: true, PriceUAH: price(3200)},
		{ID: "used-headlight", Name: "Фара (б/у)", Condition: domain.ConditionUsed, InStock: true, PriceUAH: price(1200)},
	}
}

// PartsRepo serves an immutable product list.
type PartsRepo struct {
	list  []domain.Product
	index map[string]int
}

func NewPartsRepo(list []domain.Product) *PartsRepo {
	r := &PartsRepo{list: make([]domain.Product, len(list)), index: make(map[string]int, len(list))}
	copy(r.list, list)
	for i, p := range r.list {
		r.index[p.ID] = i
	}
	return r
}

// List returns a copy; callers may modify it freely.
func (r *PartsRepo) List() []domain.Product {
	out := make([]domain.Product, len(r.list))
	copy(out, r.list)
	return out
}

func (r *PartsRepo) Has(id string) bool {
	_, ok := r.index[id]
	return ok
}

package domain

type Condition string

const (
	ConditionNew  Condition = "new"
	ConditionUsed Condition = "used"
)

func (c Condition) Valid() bool { return c == ConditionNew || c == ConditionUsed }

// Product is a catalog entry. PriceUAH is in minor currency units and is
// only ever taken from the static list.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Condition   Condition `json:"condition"`
	InStock     bool      `json:"inStock"`
	PriceUAH    *int64    `json:"priceUah,omitempty"`
	StockQty    *int      `json:"stockQty,omitempty"`
	SKU         string    `json:"sku,omitempty"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
}

// CatalogOverride is an admin edit of a product's non-price fields. Nil
// fields leave the static value untouched.
type CatalogOverride struct {
	ID          string     `json:"id"`
	Name        *string    `json:"name,omitempty"`
	InStock     *bool      `json:"inStock,omitempty"`
	Condition   *Condition `json:"condition,omitempty"`
	SKU         *string    `json:"sku,omitempty"`
	Description *string    `json:"description,omitempty"`
	ImageURL    *string    `json:"imageUrl,omitempty"`
	StockQty    *int       `json:"stockQty,omitempty"`
}

type CartItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// LineItem is a priced entry sent to the payment provider.
type LineItem struct {
	ProductID  string `json:"productId"`
	Name       string `json:"name"`
	Quantity   int64  `json:"quantity"`
	UnitAmount int64  `json:"unitAmount"`
}

type Shipping struct {
	FullName     string `json:"fullName,omitempty"`
	Phone        string `json:"phone,omitempty"`
	City         string `json:"city,omitempty"`
	CityRef      string `json:"cityRef,omitempty"`
	Warehouse    string `json:"warehouse,omitempty"`
	WarehouseRef string `json:"warehouseRef,omitempty"`
	Comment      string `json:"comment,omitempty"`
}

// Place is a carrier city or warehouse reduced to what the client needs.
type Place struct {
	Ref  string `json:"ref"`
	Name string `json:"name"`
}

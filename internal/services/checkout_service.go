package services

import (
	"context"
	"fmt"

	"kalaur/internal/apperr"
	"kalaur/internal/domain"
	"kalaur/internal/validate"
)

// Checkout rejection reasons. Compare with errors.Is.
var (
	ErrEmptyBasket       = apperr.New(apperr.CodeValidation, "Cart is empty or items are not available").WithReason("empty_basket")
	ErrUnknownProduct    = apperr.New(apperr.CodeValidation, "unknown product").WithReason("unknown_product")
	ErrOutOfStock        = apperr.New(apperr.CodeValidation, "product is out of stock").WithReason("out_of_stock")
	ErrInsufficientStock = apperr.New(apperr.CodeValidation, "not enough stock").WithReason("insufficient_stock")
	ErrInvalidPrice      = apperr.New(apperr.CodeValidation, "product has no valid price").WithReason("invalid_price")
	ErrQuantityTooLarge  = apperr.New(apperr.CodeValidation, "quantity is too large").WithReason("quantity_too_large")
)

const (
	shippingFieldMax   = 120
	shippingCommentMax = 500
)

// PaymentGateway opens a hosted payment page and returns its URL.
type PaymentGateway interface {
	CreateSession(ctx context.Context, req domain.PaymentRequest) (string, error)
}

// CheckoutItemInput is a cart line as the client sent it; both fields are
// coerced by NormalizeItems.
type CheckoutItemInput struct {
	ProductID any `json:"productId"`
	Quantity  any `json:"quantity"`
}

type CheckoutRequest struct {
	Items    []CheckoutItemInput `json:"items"`
	Shipping *domain.Shipping    `json:"shipping,omitempty"`
}

// ParseCheckoutRequest builds a request from an untrusted decoded body.
// A non-array items value yields no items and non-object entries are
// dropped, so a malformed cart ends as an empty basket. Shipping fields
// accept any scalar and are coerced to text; a non-object shipping value
// is ignored.
func ParseCheckoutRequest(raw any) CheckoutRequest {
	body, _ := raw.(map[string]any)
	var req CheckoutRequest
	if rows, ok := body["items"].([]any); ok {
		for _, r := range rows {
			row, ok := r.(map[string]any)
			if !ok {
				continue
			}
			req.Items = append(req.Items, CheckoutItemInput{ProductID: row["productId"], Quantity: row["quantity"]})
		}
	}
	if ship, ok := body["shipping"].(map[string]any); ok {
		req.Shipping = &domain.Shipping{
			FullName:     validate.Text(ship["fullName"], 0),
			Phone:        validate.Text(ship["phone"], 0),
			City:         validate.Text(ship["city"], 0),
			CityRef:      validate.Text(ship["cityRef"], 0),
			Warehouse:    validate.Text(ship["warehouse"], 0),
			WarehouseRef: validate.Text(ship["warehouseRef"], 0),
			Comment:      validate.Text(ship["comment"], 0),
		}
	}
	return req
}

// NormalizeItems coerces ids to trimmed strings and quantities to whole
// numbers >= 1. Quantities are not capped here.
func NormalizeItems(in []CheckoutItemInput) []domain.CartItem {
	out := make([]domain.CartItem, 0, len(in))
	for _, it := range in {
		out = append(out, domain.CartItem{
			ProductID: validate.Text(it.ProductID, 64),
			Quantity:  validate.Quantity(it.Quantity),
		})
	}
	return out
}

// BuildLineItems prices a cart against catalog. Lines for the same product
// are combined first. Any unknown, unavailable, over-quantity or unpriced
// line rejects the whole cart; quantities are never reduced.
func BuildLineItems(items []domain.CartItem, catalog []domain.Product) ([]domain.LineItem, error) {
	if len(items) == 0 {
		return nil, ErrEmptyBasket
	}
	byID := make(map[string]domain.Product, len(catalog))
	for _, p := range catalog {
		byID[p.ID] = p
	}

	var order []string
	qty := make(map[string]int, len(items))
	for _, it := range items {
		q := it.Quantity
		if q < 1 {
			q = 1
		}
		if _, seen := qty[it.ProductID]; !seen {
			order = append(order, it.ProductID)
		}
		qty[it.ProductID] += q
	}

	lines := make([]domain.LineItem, 0, len(order))
	for _, id := range order {
		p, ok := byID[id]
		if !ok {
			return nil, apperr.New(apperr.CodeValidation, fmt.Sprintf("unknown product %q", id)).WithReason("unknown_product")
		}
		if !p.InStock {
			return nil, apperr.New(apperr.CodeValidation, fmt.Sprintf("%s is out of stock", p.Name)).WithReason("out_of_stock")
		}
		q := qty[id]
		if q > validate.MaxQuantity {
			return nil, apperr.New(apperr.CodeValidation,
				fmt.Sprintf("at most %d of %s per order", validate.MaxQuantity, p.Name)).WithReason("quantity_too_large")
		}
		if p.StockQty != nil && q > *p.StockQty {
			return nil, apperr.New(apperr.CodeValidation,
				fmt.Sprintf("only %d of %s left", *p.StockQty, p.Name)).WithReason("insufficient_stock")
		}
		if p.PriceUAH == nil || *p.PriceUAH <= 0 {
			return nil, apperr.New(apperr.CodeValidation, fmt.Sprintf("%s cannot be bought online", p.Name)).WithReason("invalid_price")
		}
		lines = append(lines, domain.LineItem{
			ProductID:  p.ID,
			Name:       p.Name,
			Quantity:   int64(q),
			UnitAmount: *p.PriceUAH,
		})
	}
	return lines, nil
}

// ShippingMetadata trims and caps the shipping block into payment
// metadata. Empty fields are left out.
func ShippingMetadata(s *domain.Shipping) map[string]string {
	if s == nil {
		return nil
	}
	md := map[string]string{}
	put := func(key, v string, max int) {
		if v = validate.Text(v, max); v != "" {
			md[key] = v
		}
	}
	put("shipping_full_name", s.FullName, shippingFieldMax)
	put("shipping_phone", s.Phone, shippingFieldMax)
	put("shipping_city", s.City, shippingFieldMax)
	put("shipping_city_ref", s.CityRef, shippingFieldMax)
	put("shipping_warehouse", s.Warehouse, shippingFieldMax)
	put("shipping_warehouse_ref", s.WarehouseRef, shippingFieldMax)
	put("shipping_comment", s.Comment, shippingCommentMax)
	if len(md) == 0 {
		return nil
	}
	md["shipping_carrier"] = "nova_poshta"
	return md
}

type CheckoutService struct {
	Catalog    *CatalogService
	Payments   PaymentGateway
	Currency   string
	SuccessURL string
	CancelURL  string
}

// NewCheckoutService derives the return URLs from the public site origin.
// A nil gateway leaves checkout "not configured".
func NewCheckoutService(catalog *CatalogService, payments PaymentGateway, currency, origin string) *CheckoutService {
	return &CheckoutService{
		Catalog:    catalog,
		Payments:   payments,
		Currency:   currency,
		SuccessURL: origin + "/shop?success=1",
		CancelURL:  origin + "/cart",
	}
}

// Create validates the cart against the server's effective catalog and
// opens a payment session. It returns the payment page URL.
func (s *CheckoutService) Create(ctx context.Context, req CheckoutRequest) (string, []domain.LineItem, error) {
	if s.Payments == nil {
		return "", nil, apperr.New(apperr.CodeNotConfigured, "payments are not configured")
	}
	view, err := s.Catalog.Effective(ctx)
	if err != nil {
		return "", nil, err
	}
	lines, err := BuildLineItems(NormalizeItems(req.Items), view.Catalog)
	if err != nil {
		return "", nil, err
	}
	url, err := s.Payments.CreateSession(ctx, domain.PaymentRequest{
		LineItems:  lines,
		Currency:   s.Currency,
		SuccessURL: s.SuccessURL,
		CancelURL:  s.CancelURL,
		Metadata:   ShippingMetadata(req.Shipping),
	})
	if err != nil {
		return "", nil, apperr.Wrap(apperr.CodeUpstream, err, "payment provider failed")
	}
	if url == "" {
		return "", nil, apperr.New(apperr.CodeUpstream, "payment provider returned no url")
	}
	return url, lines, nil
}

package domain

// PaymentRequest is everything a payment provider needs to open a hosted
// checkout page. Amounts are minor currency units.
type PaymentRequest struct {
	LineItems  []LineItem
	Currency   string
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

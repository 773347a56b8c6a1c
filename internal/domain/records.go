package domain

type SaleKind string

const (
	SaleProduct SaleKind = "product"
	SaleService SaleKind = "service"
)

// SaleRecord is one bookkeeping entry. CreatedAt is epoch milliseconds.
type SaleRecord struct {
	ID        string   `db:"id" json:"id"`
	Kind      SaleKind `db:"kind" json:"kind"`
	RefID     string   `db:"ref_id" json:"refId"`
	Quantity  int      `db:"quantity" json:"quantity"`
	AmountUAH float64  `db:"amount_uah" json:"amountUah"`
	CreatedAt int64    `db:"created_at" json:"createdAt"`
}

type ServiceOrder struct {
	ID           string  `db:"id" json:"id"`
	ServiceID    string  `db:"service_id" json:"serviceId"`
	ServiceTitle string  `db:"service_title" json:"serviceTitle"`
	AmountUAH    float64 `db:"amount_uah" json:"amountUah"`
	OwnerName    string  `db:"owner_name" json:"ownerName"`
	OwnerPhone   string  `db:"owner_phone" json:"ownerPhone,omitempty"`
	CarMake      string  `db:"car_make" json:"carMake,omitempty"`
	CarModel     string  `db:"car_model" json:"carModel,omitempty"`
	CarYear      *int    `db:"car_year" json:"carYear,omitempty"`
	VIN          string  `db:"vin" json:"vin,omitempty"`
	Plate        string  `db:"plate" json:"plate,omitempty"`
	Notes        string  `db:"notes" json:"notes,omitempty"`
	CreatedAt    int64   `db:"created_at" json:"createdAt"`
}

type CarRecord struct {
	ID         string `db:"id" json:"id"`
	OwnerName  string `db:"owner_name" json:"ownerName"`
	OwnerPhone string `db:"owner_phone" json:"ownerPhone,omitempty"`
	Make       string `db:"make" json:"make,omitempty"`
	Model      string `db:"model" json:"model,omitempty"`
	Year       *int   `db:"year" json:"year,omitempty"`
	VIN        string `db:"vin" json:"vin,omitempty"`
	Plate      string `db:"plate" json:"plate,omitempty"`
	Notes      string `db:"notes" json:"notes,omitempty"`
	CreatedAt  int64  `db:"created_at" json:"createdAt"`
}

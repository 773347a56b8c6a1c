package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"kalaur/internal/apperr"
	"kalaur/internal/domain"
	"kalaur/internal/repos"
	"kalaur/internal/validate"
)

type SalesWindow string

const (
	WindowDay  SalesWindow = "day"
	WindowWeek SalesWindow = "week"
	WindowYear SalesWindow = "year"
)

const recordTextMax = 500

// BookkeepingService keeps the shop's ad hoc records: sales, service
// orders and customer cars. Input is sanitized record by record; malformed
// records are dropped rather than failing the batch.
type BookkeepingService struct {
	Sales  *repos.SalesRepo
	Orders *repos.ServiceOrderRepo
	Cars   *repos.CarRepo
	Now    func() time.Time
}

func NewBookkeepingService(sales *repos.SalesRepo, orders *repos.ServiceOrderRepo, cars *repos.CarRepo) *BookkeepingService {
	return &BookkeepingService{Sales: sales, Orders: orders, Cars: cars, Now: time.Now}
}

func recordID(v any) string {
	if id := validate.Text(v, 64); id != "" {
		return id
	}
	return uuid.NewString()
}

func createdAt(v any, now time.Time) int64 {
	if ts, ok := validate.Timestamp(v); ok {
		return ts
	}
	return now.UnixMilli()
}

func optText(v any) string { return validate.Text(v, recordTextMax) }

// SanitizeSales accepts one record or a list of records.
func SanitizeSales(raw any, now time.Time) []domain.SaleRecord {
	rows, ok := raw.([]any)
	if !ok {
		rows = []any{raw}
	}
	out := make([]domain.SaleRecord, 0, len(rows))
	for _, r := range rows {
		row, ok := r.(map[string]any)
		if !ok {
			continue
		}
		kind := domain.SaleKind(validate.Text(row["kind"], 0))
		if kind != domain.SaleProduct && kind != domain.SaleService {
			continue
		}
		refID := validate.Text(row["refId"], 64)
		if refID == "" {
			continue
		}
		qty, ok := validate.PositiveInt(row["quantity"])
		if !ok {
			continue
		}
		amount, ok := validate.NonNegativeAmount(row["amountUah"])
		if !ok {
			continue
		}
		out = append(out, domain.SaleRecord{
			ID:        recordID(row["id"]),
			Kind:      kind,
			RefID:     refID,
			Quantity:  qty,
			AmountUAH: amount,
			CreatedAt: createdAt(row["createdAt"], now),
		})
	}
	return out
}

func SanitizeServiceOrder(raw any, now time.Time) (domain.ServiceOrder, bool) {
	row, ok := raw.(map[string]any)
	if !ok {
		return domain.ServiceOrder{}, false
	}
	o := domain.ServiceOrder{
		ServiceID:    validate.Text(row["serviceId"], 64),
		ServiceTitle: validate.Text(row["serviceTitle"], 200),
		OwnerName:    validate.Text(row["ownerName"], 200),
	}
	if o.ServiceID == "" || o.ServiceTitle == "" || o.OwnerName == "" {
		return domain.ServiceOrder{}, false
	}
	amount, ok := validate.NonNegativeAmount(row["amountUah"])
	if !ok {
		return domain.ServiceOrder{}, false
	}
	o.ID = recordID(row["id"])
	o.AmountUAH = amount
	o.OwnerPhone = optText(row["ownerPhone"])
	o.CarMake = optText(row["carMake"])
	o.CarModel = optText(row["carModel"])
	o.CarYear = validate.Year(row["carYear"])
	o.VIN = optText(row["vin"])
	o.Plate = optText(row["plate"])
	o.Notes = optText(row["notes"])
	o.CreatedAt = createdAt(row["createdAt"], now)
	return o, true
}

func SanitizeCar(raw any, now time.Time) (domain.CarRecord, bool) {
	row, ok := raw.(map[string]any)
	if !ok {
		return domain.CarRecord{}, false
	}
	owner := validate.Text(row["ownerName"], 200)
	if owner == "" {
		return domain.CarRecord{}, false
	}
	return domain.CarRecord{
		ID:         recordID(row["id"]),
		OwnerName:  owner,
		OwnerPhone: optText(row["ownerPhone"]),
		Make:       optText(row["make"]),
		Model:      optText(row["model"]),
		Year:       validate.Year(row["year"]),
		VIN:        optText(row["vin"]),
		Plate:      optText(row["plate"]),
		Notes:      optText(row["notes"]),
		CreatedAt:  createdAt(row["createdAt"], now),
	}, true
}

// WindowStart returns the beginning of a reporting window ending at now.
// "day" starts at local midnight.
func WindowStart(now time.Time, w SalesWindow) (time.Time, bool) {
	switch w {
	case WindowDay:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), true
	case WindowWeek:
		return now.Add(-7 * 24 * time.Hour), true
	case WindowYear:
		return now.Add(-365 * 24 * time.Hour), true
	}
	return time.Time{}, false
}

type SalesSummary struct {
	Kind     domain.SaleKind `json:"kind"`
	RefID    string          `json:"refId"`
	Window   SalesWindow     `json:"window"`
	Quantity int             `json:"quantity"`
	Amount   float64         `json:"amount"`
}

// RecordSales appends the valid records in raw and returns the ones newly
// stored. Records whose id is already known are left out.
func (s *BookkeepingService) RecordSales(ctx context.Context, raw any) ([]domain.SaleRecord, error) {
	recs, err := s.Sales.Append(ctx, SanitizeSales(raw, s.Now()))
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, err, "save sales")
	}
	return recs, nil
}

func (s *BookkeepingService) ListSales(ctx context.Context) ([]domain.SaleRecord, error) {
	return s.Sales.List(ctx)
}

func (s *BookkeepingService) SalesSummary(ctx context.Context, kind domain.SaleKind, refID string, w SalesWindow) (SalesSummary, error) {
	if kind != domain.SaleProduct && kind != domain.SaleService {
		return SalesSummary{}, apperr.New(apperr.CodeValidation, "kind must be product or service")
	}
	if refID == "" {
		return SalesSummary{}, apperr.New(apperr.CodeValidation, "refId is required")
	}
	now := s.Now()
	from, ok := WindowStart(now, w)
	if !ok {
		return SalesSummary{}, apperr.New(apperr.CodeValidation, "window must be day, week or year")
	}
	qty, amount, err := s.Sales.Totals(ctx, kind, refID, from.UnixMilli(), now.UnixMilli())
	if err != nil {
		return SalesSummary{}, err
	}
	return SalesSummary{Kind: kind, RefID: refID, Window: w, Quantity: qty, Amount: amount}, nil
}

func (s *BookkeepingService) AddServiceOrder(ctx context.Context, raw any) (domain.ServiceOrder, error) {
	o, ok := SanitizeServiceOrder(raw, s.Now())
	if !ok {
		return domain.ServiceOrder{}, apperr.New(apperr.CodeValidation, "serviceId, serviceTitle, ownerName and amountUah are required")
	}
	if err := s.Orders.Insert(ctx, o); err != nil {
		return domain.ServiceOrder{}, apperr.Wrap(apperr.CodeInternal, err, "save service order")
	}
	return o, nil
}

func (s *BookkeepingService) ListServiceOrders(ctx context.Context) ([]domain.ServiceOrder, error) {
	return s.Orders.List(ctx)
}

func (s *BookkeepingService) DeleteServiceOrder(ctx context.Context, id string) error {
	ok, err := s.Orders.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.New(apperr.CodeNotFound, "service order not found")
	}
	return nil
}

func (s *BookkeepingService) SaveCar(ctx context.Context, raw any) (domain.CarRecord, error) {
	c, ok := SanitizeCar(raw, s.Now())
	if !ok {
		return domain.CarRecord{}, apperr.New(apperr.CodeValidation, "ownerName is required")
	}
	if err := s.Cars.Upsert(ctx, c); err != nil {
		return domain.CarRecord{}, apperr.Wrap(apperr.CodeInternal, err, "save car")
	}
	return c, nil
}

func (s *BookkeepingService) ListCars(ctx context.Context) ([]domain.CarRecord, error) {
	return s.Cars.List(ctx)
}

func (s *BookkeepingService) DeleteCar(ctx context.Context, id string) error {
	ok, err := s.Cars.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.New(apperr.CodeNotFound, "car not found")
	}
	return nil
}

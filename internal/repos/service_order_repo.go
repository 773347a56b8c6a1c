package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"kalaur/internal/domain"
)

type ServiceOrderRepo struct{ db *sqlx.DB }

func NewServiceOrderRepo(db *sqlx.DB) *ServiceOrderRepo { return &ServiceOrderRepo{db: db} }

func (r *ServiceOrderRepo) Insert(ctx context.Context, o domain.ServiceOrder) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO service_orders(
			id, service_id, service_title, amount_uah, owner_name, owner_phone,
			car_make, car_model, car_year, vin, plate, notes, created_at
		) VALUES (
			:id, :service_id, :service_title, :amount_uah, :owner_name, :owner_phone,
			:car_make, :car_model, :car_year, :vin, :plate, :notes, :created_at
		)
	`, o)
	return err
}

func (r *ServiceOrderRepo) List(ctx context.Context) ([]domain.ServiceOrder, error) {
	out := []domain.ServiceOrder{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT id, service_id, service_title, amount_uah, owner_name, owner_phone,
		       car_make, car_model, car_year, vin, plate, notes, created_at
		FROM service_orders
		ORDER BY created_at DESC, id
	`)
	return out, err
}

// Delete reports whether a row was removed.
func (r *ServiceOrderRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM service_orders WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"kalaur/internal/domain"
)

type CarRepo struct{ db *sqlx.DB }

func NewCarRepo(db *sqlx.DB) *CarRepo { return &CarRepo{db: db} }

// Upsert inserts a car or replaces the record with the same id.
func (r *CarRepo) Upsert(ctx context.Context, c domain.CarRecord) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO cars(id, owner_name, owner_phone, make, model, year, vin, plate, notes, created_at)
		VALUES (:id, :owner_name, :owner_phone, :make, :model, :year, :vin, :plate, :notes, :created_at)
		ON CONFLICT(id) DO UPDATE SET
			owner_name = excluded.owner_name,
			owner_phone = excluded.owner_phone,
			make = excluded.make,
			model = excluded.model,
			year = excluded.year,
			vin = excluded.vin,
			plate = excluded.plate,
			notes = excluded.notes,
			created_at = excluded.created_at
	`, c)
	return err
}

func (r *CarRepo) List(ctx context.Context) ([]domain.CarRecord, error) {
	out := []domain.CarRecord{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT id, owner_name, owner_phone, make, model, year, vin, plate, notes, created_at
		FROM cars
		ORDER BY created_at DESC, id
	`)
	return out, err
}

func (r *CarRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cars WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

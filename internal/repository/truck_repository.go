package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"gatelog/internal/entity"
)

type TruckRepository struct {
	db *sql.DB
}

func NewTruckRepository(db *sql.DB) *TruckRepository {
	return &TruckRepository{db: db}
}

const truckColumns = `id, COALESCE(created_by, ''), driver_name, driver_document,
	codriver_name, codriver_document, driver_phone, plate, destination,
	arrival_date, arrival_time, departure_datetime`

func scanTruckFields(scan func(...any) error) (entity.Truck, error) {
	var t entity.Truck
	err := scan(
		&t.ID, &t.CreatedBy, &t.DriverName, &t.DriverDocument,
		&t.CodriverName, &t.CodriverDocument, &t.DriverPhone, &t.Plate,
		&t.Destination, &t.ArrivalDate, &t.ArrivalTime, &t.DepartureDatetime,
	)
	return t, err
}

func (r *TruckRepository) Create(ctx context.Context, t entity.Truck) (int, error) {
	var id int
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO trucks (
			created_by, driver_name, driver_document, codriver_name,
			codriver_document, driver_phone, plate, destination,
			arrival_date, arrival_time
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`, t.CreatedBy, t.DriverName, t.DriverDocument, t.CodriverName,
		t.CodriverDocument, t.DriverPhone, t.Plate, t.Destination,
		t.ArrivalDate, t.ArrivalTime,
	).Scan(&id)
	return id, err
}

func (r *TruckRepository) GetByID(ctx context.Context, id int) (entity.Truck, error) {
	t, err := scanTruckFields(r.db.QueryRowContext(ctx, `
		SELECT `+truckColumns+` FROM trucks WHERE id = $1
	`, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Truck{}, ErrNotFound
	}
	return t, err
}

// OnPremises lists trucks that have arrived but not left yet.
func (r *TruckRepository) OnPremises(ctx context.Context) ([]entity.Truck, error) {
	return r.queryTrucks(ctx, `
		SELECT `+truckColumns+` FROM trucks
		WHERE departure_datetime IS NULL
		ORDER BY arrival_date, arrival_time
	`)
}

// MarkDeparture stamps the gate exit; it is set once per truck row.
func (r *TruckRepository) MarkDeparture(ctx context.Context, id int, stamp string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE trucks SET departure_datetime = $1 WHERE id = $2`, stamp, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TruckRepository) ListFiltered(ctx context.Context, f entity.TruckFilter) ([]entity.Truck, error) {
	var b strings.Builder
	b.WriteString(`SELECT ` + truckColumns + ` FROM trucks WHERE 1=1`)
	var args []any

	addCond(&b, &args, `arrival_date >=`, f.DateFrom)
	addCond(&b, &args, `arrival_date <=`, f.DateTo)
	addLike(&b, &args, `plate`, f.Plate)
	addLike(&b, &args, `destination`, f.Destination)

	b.WriteString(` ORDER BY arrival_date DESC, arrival_time DESC`)

	return r.queryTrucks(ctx, b.String(), args...)
}

func (r *TruckRepository) Update(ctx context.Context, t entity.Truck) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE trucks
		   SET driver_name        = $1,
		       driver_document    = $2,
		       codriver_name      = $3,
		       codriver_document  = $4,
		       driver_phone       = $5,
		       plate              = $6,
		       destination        = $7,
		       arrival_date       = $8,
		       arrival_time       = $9,
		       departure_datetime = $10
		 WHERE id = $11
	`, t.DriverName, t.DriverDocument, t.CodriverName, t.CodriverDocument,
		t.DriverPhone, t.Plate, t.Destination, t.ArrivalDate, t.ArrivalTime,
		t.DepartureDatetime, t.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TruckRepository) Delete(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM trucks WHERE id = $1`, id)
	return err
}

func (r *TruckRepository) queryTrucks(ctx context.Context, query string, args ...any) ([]entity.Truck, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trucks []entity.Truck
	for rows.Next() {
		t, err := scanTruckFields(rows.Scan)
		if err != nil {
			return nil, err
		}
		trucks = append(trucks, t)
	}
	return trucks, rows.Err()
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"gatelog/internal/entity"
)

type VisitRepository struct {
	db *sql.DB
}

func NewVisitRepository(db *sql.DB) *VisitRepository {
	return &VisitRepository{db: db}
}

const visitColumns = `id, COALESCE(created_by, ''), arrival_date, expected_time,
	host_employee, phone, object_name, guest_name, document_number,
	vehicle_plate, note, persons_count, entry_time, exit_time, status`

const visitInsert = `
	INSERT INTO visits (
		created_by, arrival_date, expected_time, host_employee, phone,
		object_name, guest_name, document_number, vehicle_plate, note,
		persons_count, entry_time
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	RETURNING id`

func scanVisitFields(scan func(...any) error) (entity.Visit, error) {
	var v entity.Visit
	err := scan(
		&v.ID, &v.CreatedBy, &v.ArrivalDate, &v.ExpectedTime,
		&v.HostEmployee, &v.Phone, &v.ObjectName, &v.GuestName,
		&v.DocumentNumber, &v.VehiclePlate, &v.Note, &v.PersonsCount,
		&v.EntryTime, &v.ExitTime, &v.Status,
	)
	return v, err
}

// Create inserts one visit and returns its id. EntryTime is passed
// through so the walk-in form can record the arrival in the same insert.
func (r *VisitRepository) Create(ctx context.Context, v entity.Visit) (int, error) {
	var id int
	err := r.db.QueryRowContext(ctx, visitInsert,
		v.CreatedBy, v.ArrivalDate, v.ExpectedTime, v.HostEmployee, v.Phone,
		v.ObjectName, v.GuestName, v.DocumentNumber, v.VehiclePlate, v.Note,
		v.PersonsCount, v.EntryTime,
	).Scan(&id)
	return id, err
}

// CreateBatch inserts one copy of the template per date inside a single
// transaction. Either every date is persisted or none is; the returned
// count is the number actually created.
func (r *VisitRepository) CreateBatch(ctx context.Context, template entity.Visit, dates []string) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	count := 0
	for _, date := range dates {
		var id int
		err := tx.QueryRowContext(ctx, visitInsert,
			template.CreatedBy, date, template.ExpectedTime, template.HostEmployee,
			template.Phone, template.ObjectName, template.GuestName,
			template.DocumentNumber, template.VehiclePlate, template.Note,
			template.PersonsCount, template.EntryTime,
		).Scan(&id)
		if err != nil {
			return 0, err
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *VisitRepository) GetByID(ctx context.Context, id int) (entity.Visit, error) {
	v, err := scanVisitFields(r.db.QueryRowContext(ctx, `
		SELECT `+visitColumns+` FROM visits WHERE id = $1
	`, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Visit{}, ErrNotFound
	}
	return v, err
}

// OpenForDate lists the gatehouse work queue for one day: announced
// visits that are not cancelled and not yet fully closed out.
func (r *VisitRepository) OpenForDate(ctx context.Context, date string) ([]entity.Visit, error) {
	return r.queryVisits(ctx, `
		SELECT `+visitColumns+` FROM visits
		WHERE arrival_date = $1
		  AND NOT (entry_time IS NOT NULL AND exit_time IS NOT NULL)
		  AND (status IS NULL OR status != 'cancelled')
		ORDER BY expected_time
	`, date)
}

func (r *VisitRepository) MarkEntry(ctx context.Context, id int, stamp string) error {
	return r.stamp(ctx, `UPDATE visits SET entry_time = $1 WHERE id = $2`, id, stamp)
}

// MarkExit stamps the exit unconditionally. A missing entry time is not
// checked here; whether an exit without a recorded entry is legal is an
// open operational question, so the original behavior is kept.
func (r *VisitRepository) MarkExit(ctx context.Context, id int, stamp string) error {
	return r.stamp(ctx, `UPDATE visits SET exit_time = $1 WHERE id = $2`, id, stamp)
}

func (r *VisitRepository) stamp(ctx context.Context, query string, id int, stamp string) error {
	res, err := r.db.ExecContext(ctx, query, stamp, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListFiltered is the audit view: all visits, optional conjunctive
// filters, newest arrival date first.
func (r *VisitRepository) ListFiltered(ctx context.Context, f entity.VisitFilter) ([]entity.Visit, error) {
	var b strings.Builder
	b.WriteString(`SELECT ` + visitColumns + ` FROM visits WHERE 1=1`)
	var args []any

	addCond(&b, &args, `arrival_date >=`, f.DateFrom)
	addCond(&b, &args, `arrival_date <=`, f.DateTo)
	addLike(&b, &args, `host_employee`, f.Host)
	addLike(&b, &args, `object_name`, f.ObjectName)
	addLike(&b, &args, `guest_name`, f.GuestName)

	b.WriteString(` ORDER BY arrival_date DESC, expected_time`)

	return r.queryVisits(ctx, b.String(), args...)
}

// ListByCreator lists a user's own announcements, still-open ones first.
func (r *VisitRepository) ListByCreator(ctx context.Context, email, dateFrom, dateTo string) ([]entity.Visit, error) {
	var b strings.Builder
	b.WriteString(`SELECT ` + visitColumns + ` FROM visits WHERE created_by = $1`)
	args := []any{email}

	addCond(&b, &args, `arrival_date >=`, dateFrom)
	addCond(&b, &args, `arrival_date <=`, dateTo)

	b.WriteString(`
		ORDER BY
			CASE WHEN exit_time IS NULL THEN 0 ELSE 1 END,
			arrival_date DESC,
			expected_time DESC`)

	return r.queryVisits(ctx, b.String(), args...)
}

// Cancel marks a visit cancelled. Only the creator or an admin may do
// it; the role gate on the route does not replace this check.
func (r *VisitRepository) Cancel(ctx context.Context, id int, requester string, role entity.Role) error {
	if err := r.checkOwnership(ctx, id, requester, role); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE visits SET status = $1 WHERE id = $2`, entity.VisitStatusCancelled, id)
	return err
}

// Reschedule moves a visit to a new arrival date, creator or admin only.
func (r *VisitRepository) Reschedule(ctx context.Context, id int, newDate, requester string, role entity.Role) error {
	if err := r.checkOwnership(ctx, id, requester, role); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE visits SET arrival_date = $1 WHERE id = $2`, newDate, id)
	return err
}

func (r *VisitRepository) checkOwnership(ctx context.Context, id int, requester string, role entity.Role) error {
	var createdBy string
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(created_by, '') FROM visits WHERE id = $1`, id,
	).Scan(&createdBy)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if createdBy != requester && role != entity.RoleAdmin {
		return ErrNotOwner
	}
	return nil
}

// Update rewrites every editable field of a visit (admin edit form).
func (r *VisitRepository) Update(ctx context.Context, v entity.Visit) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE visits
		   SET arrival_date    = $1,
		       expected_time   = $2,
		       host_employee   = $3,
		       guest_name      = $4,
		       object_name     = $5,
		       phone           = $6,
		       document_number = $7,
		       vehicle_plate   = $8,
		       persons_count   = $9,
		       note            = $10,
		       entry_time      = $11,
		       exit_time       = $12
		 WHERE id = $13
	`, v.ArrivalDate, v.ExpectedTime, v.HostEmployee, v.GuestName, v.ObjectName,
		v.Phone, v.DocumentNumber, v.VehiclePlate, v.PersonsCount, v.Note,
		v.EntryTime, v.ExitTime, v.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *VisitRepository) Delete(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM visits WHERE id = $1`, id)
	return err
}

func (r *VisitRepository) queryVisits(ctx context.Context, query string, args ...any) ([]entity.Visit, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var visits []entity.Visit
	for rows.Next() {
		v, err := scanVisitFields(rows.Scan)
		if err != nil {
			return nil, err
		}
		visits = append(visits, v)
	}
	return visits, rows.Err()
}

// addCond appends "AND <column op> $n" when value is non-empty.
func addCond(b *strings.Builder, args *[]any, columnOp, value string) {
	if value == "" {
		return
	}
	*args = append(*args, value)
	b.WriteString(` AND ` + columnOp + ` $` + strconv.Itoa(len(*args)))
}

// addLike appends a case-insensitive substring match on column.
func addLike(b *strings.Builder, args *[]any, column, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	*args = append(*args, "%"+strings.ToLower(value)+"%")
	b.WriteString(` AND LOWER(` + column + `) LIKE $` + strconv.Itoa(len(*args)))
}

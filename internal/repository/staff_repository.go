package repository // repository defines data access for staff accounts

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/restaurant-pos/internal/model"
)

// ErrStaffNotFound is returned when a staff lookup yields no rows.
var ErrStaffNotFound = errors.New("staff not found")

// StaffRepo provides methods to work with staff accounts in the database.
type StaffRepo struct {
	db *sql.DB
}

// NewStaffRepo constructs a StaffRepo with the given DB handle.
func NewStaffRepo(db *sql.DB) *StaffRepo {
	return &StaffRepo{db: db}
}

// Create inserts a staff account.  On success the ID is populated.
func (r *StaffRepo) Create(ctx context.Context, s *model.Staff) error {
	const q = `INSERT INTO staff (email, password_hash, display_name, role)
	           VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.Email, s.PasswordHash, s.DisplayName, s.Role)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// GetByEmail retrieves a staff account by email.
func (r *StaffRepo) GetByEmail(ctx context.Context, email string) (*model.Staff, error) {
	const q = `SELECT id, email, password_hash, display_name, role, created_at
	           FROM staff WHERE email = ?`
	var s model.Staff
	err := r.db.QueryRowContext(ctx, q, email).
		Scan(&s.ID, &s.Email, &s.PasswordHash, &s.DisplayName, &s.Role, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	return &s, nil
}

// GetByID retrieves a staff account by id.
func (r *StaffRepo) GetByID(ctx context.Context, id uint64) (*model.Staff, error) {
	const q = `SELECT id, email, password_hash, display_name, role, created_at
	           FROM staff WHERE id = ?`
	var s model.Staff
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&s.ID, &s.Email, &s.PasswordHash, &s.DisplayName, &s.Role, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	return &s, nil
}

package repository

import (
	"context"
	"strings"

	"github.com/iliyamo/hall-venue-booking/internal/model"
	"github.com/iliyamo/hall-venue-booking/internal/utils"
)

type UserRepo struct{ db DBTX }

func NewUserRepo(db DBTX) *UserRepo { return &UserRepo{db: db} }

const userCols = "id, email, name, password_hash, admin_level, accepted_term, is_active, created_at, updated_at"

func scanUser(s rowScanner) (model.User, error) {
	var u model.User
	err := s.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.AdminLevel, &u.AcceptedTerm, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, notFound(err)
}

// NormalizeEmail lower-cases and trims an address.  Emails identify users
// across requests, sessions and CCA leadership, so every write goes
// through it.
func NormalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

// Create hashes password and inserts the user, returning its ID.
func (r *UserRepo) Create(ctx context.Context, email, name, password string, adminLevel, cost int) (uint64, error) {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (email, name, password_hash, admin_level) VALUES (?,?,?,?)",
		NormalizeEmail(email), strings.TrimSpace(name), hash, adminLevel)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE email = ? LIMIT 1", NormalizeEmail(email)))
}

func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id = ? LIMIT 1", id))
}

// AcceptTerms records that the user agreed to the booking terms.
func (r *UserRepo) AcceptTerms(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, "UPDATE users SET accepted_term = TRUE WHERE id = ?", id)
	return err
}

// SetAdminLevel changes a user's privileges.
func (r *UserRepo) SetAdminLevel(ctx context.Context, email string, level int) error {
	res, err := r.db.ExecContext(ctx, "UPDATE users SET admin_level = ? WHERE email = ?", level, NormalizeEmail(email))
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		if _, err := r.GetByEmail(ctx, email); err != nil {
			return err
		}
	}
	return nil
}

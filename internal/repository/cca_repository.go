package repository

import (
	"context"
	"fmt"

	"github.com/iliyamo/hall-venue-booking/internal/model"
)

// CCARepo reads and writes ccas and cca_leaders.
type CCARepo struct{ db DBTX }

func NewCCARepo(db DBTX) *CCARepo { return &CCARepo{db: db} }

func (r *CCARepo) Get(ctx context.Context, id string) (model.CCA, error) {
	var c model.CCA
	err := r.db.QueryRowContext(ctx, "SELECT id, name, category FROM ccas WHERE id = ? LIMIT 1", id).
		Scan(&c.ID, &c.Name, &c.Category)
	return c, notFound(err)
}

// ListAll returns every CCA by name.
func (r *CCARepo) ListAll(ctx context.Context) ([]model.CCA, error) {
	return r.query(ctx, "SELECT id, name, category FROM ccas ORDER BY name")
}

// ListByLeader returns the CCAs email leads.
func (r *CCARepo) ListByLeader(ctx context.Context, email string) ([]model.CCA, error) {
	return r.query(ctx,
		`SELECT c.id, c.name, c.category FROM ccas c
		 JOIN cca_leaders l ON l.cca_id = c.id
		 WHERE l.email = ? ORDER BY c.name`, email)
}

func (r *CCARepo) query(ctx context.Context, q string, args ...any) ([]model.CCA, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.CCA
	for rows.Next() {
		var c model.CCA
		if err := rows.Scan(&c.ID, &c.Name, &c.Category); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// IsLeaderByName reports whether email leads the CCA called name.  Booking
// requests carry the CCA name, not its ID.
func (r *CCARepo) IsLeaderByName(ctx context.Context, name, email string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM cca_leaders l JOIN ccas c ON c.id = l.cca_id
		 WHERE c.name = ? AND l.email = ?)`, name, email).Scan(&ok)
	return ok, err
}

// IsLeader reports whether email leads the CCA with the given ID.
func (r *CCARepo) IsLeader(ctx context.Context, ccaID, email string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM cca_leaders WHERE cca_id = ? AND email = ?)", ccaID, email).Scan(&ok)
	return ok, err
}

// Upsert inserts c or refreshes its category when the name already exists.
func (r *CCARepo) Upsert(ctx context.Context, c model.CCA) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO ccas (id, name, category) VALUES (?,?,?)
		 ON DUPLICATE KEY UPDATE category = VALUES(category)`, c.ID, c.Name, c.Category)
	return err
}

// AddLeader grants email leadership of ccaID.  Granting twice is a no-op.
func (r *CCARepo) AddLeader(ctx context.Context, l model.CCALeader) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT IGNORE INTO cca_leaders (cca_id, email) VALUES (?,?)", l.CCAID, l.Email)
	if err != nil {
		return fmt.Errorf("add leader %s to %s: %w", l.Email, l.CCAID, err)
	}
	return nil
}

// IDByName resolves a CCA name to its ID.
func (r *CCARepo) IDByName(ctx context.Context, name string) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx, "SELECT id FROM ccas WHERE name = ? LIMIT 1", name).Scan(&id)
	return id, notFound(err)
}

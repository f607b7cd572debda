package repository

import (
	"context"

	"github.com/iliyamo/hall-venue-booking/internal/model"
)

// CCASessionRepo reads and writes cca_sessions and cca_attendance.
type CCASessionRepo struct{ db DBTX }

func NewCCASessionRepo(db DBTX) *CCASessionRepo { return &CCASessionRepo{db: db} }

const sessionCols = "id, cca_id, date, time_start, time_end, optional, remarks, created_at, updated_at"

func scanSession(s rowScanner) (model.CCASession, error) {
	var cs model.CCASession
	err := s.Scan(&cs.ID, &cs.CCAID, &cs.Date, &cs.Start, &cs.End, &cs.Optional, &cs.Remarks, &cs.CreatedAt, &cs.UpdatedAt)
	return cs, err
}

func (r *CCASessionRepo) Get(ctx context.Context, id string) (model.CCASession, error) {
	cs, err := scanSession(r.db.QueryRowContext(ctx, "SELECT "+sessionCols+" FROM cca_sessions WHERE id = ? LIMIT 1", id))
	return cs, notFound(err)
}

func (r *CCASessionRepo) Create(ctx context.Context, cs model.CCASession) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO cca_sessions (id, cca_id, date, time_start, time_end, optional, remarks) VALUES (?,?,?,?,?,?,?)",
		cs.ID, cs.CCAID, cs.Date, cs.Start, cs.End, cs.Optional, cs.Remarks)
	return err
}

// Update rewrites the schedule fields of a session.
func (r *CCASessionRepo) Update(ctx context.Context, cs model.CCASession) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE cca_sessions SET date = ?, time_start = ?, time_end = ?, optional = ?, remarks = ? WHERE id = ?",
		cs.Date, cs.Start, cs.End, cs.Optional, cs.Remarks, cs.ID)
	return err
}

// ListByCCA returns the sessions of one CCA, earliest first.
func (r *CCASessionRepo) ListByCCA(ctx context.Context, ccaID string) ([]model.CCASession, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+sessionCols+" FROM cca_sessions WHERE cca_id = ? ORDER BY date, time_start", ccaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.CCASession
	for rows.Next() {
		cs, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cs)
	}
	return out, rows.Err()
}

// UpsertAttendance records or overwrites each member's attendance.
func (r *CCASessionRepo) UpsertAttendance(ctx context.Context, records []model.CCAAttendance) error {
	for _, a := range records {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO cca_attendance (session_id, email, status, remarks) VALUES (?,?,?,?)
			 ON DUPLICATE KEY UPDATE status = VALUES(status), remarks = VALUES(remarks)`,
			a.SessionID, a.Email, a.Status, a.Remarks)
		if err != nil {
			return err
		}
	}
	return nil
}

// Attendance lists the records of one session by email.
func (r *CCASessionRepo) Attendance(ctx context.Context, sessionID string) ([]model.CCAAttendance, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT session_id, email, status, remarks FROM cca_attendance WHERE session_id = ? ORDER BY email", sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.CCAAttendance
	for rows.Next() {
		var a model.CCAAttendance
		if err := rows.Scan(&a.SessionID, &a.Email, &a.Status, &a.Remarks); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

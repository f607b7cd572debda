// Package repository holds the MySQL data access for the booking service.
// Repositories return the sentinel errors below so services can tell
// expected failures apart from infrastructure ones.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a lookup by key matches no row.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own or lead.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a write cannot proceed because of existing
// state, such as creating a venue whose name is taken.
var ErrConflict = errors.New("conflict")

// ErrSlotTaken is returned when a venue booking row collides with the
// (venue_id, date, timing_slot) unique key.
var ErrSlotTaken = errors.New("slot already booked")

// ErrEmailExists is returned when registering an email twice.
var ErrEmailExists = errors.New("email already exists")

// DBTX is satisfied by both *sql.DB and *sql.Tx, so a repository can run
// inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// isDuplicate reports whether err is a MySQL duplicate-key violation (1062).
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	return strings.Contains(err.Error(), "Error 1062")
}

// notFound maps sql.ErrNoRows onto ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// placeholders returns "?,?,...,?" with n markers.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}

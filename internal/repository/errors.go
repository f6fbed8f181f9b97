package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrSlotTaken is returned when the database itself rejects an overlapping booking.
	ErrSlotTaken = errors.New("repository: booking slot already taken")
	ErrDuplicate = errors.New("repository: duplicate key")
)

const (
	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"

	overlapConstraint = "bookings_no_overlap"
)

func isOverlapViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgExclusionViolation ||
			(pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == overlapConstraint)
	}
	return false
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	// modernc sqlite reports constraint failures only through the message text.
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrDuplicate is returned when a unique constraint is violated.
	ErrDuplicate = errors.New("duplicate record")
	// ErrMissingReference is returned when a foreign key points nowhere.
	ErrMissingReference = errors.New("referenced record does not exist")
	// ErrMissingAuthor is the ErrMissingReference raised by an added_by key.
	ErrMissingAuthor = fmt.Errorf("author: %w", ErrMissingReference)
)

// authorForeignKeys are the default constraint names of the added_by columns.
var authorForeignKeys = map[string]struct{}{
	"restaurants_added_by_fkey": {},
	"reviews_added_by_fkey":     {},
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func translate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrDuplicate
		case pgForeignKeyViolation:
			if _, ok := authorForeignKeys[pgErr.ConstraintName]; ok {
				return ErrMissingAuthor
			}
			return ErrMissingReference
		}
	}
	return err
}

package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
)

const pgUniqueViolation = "23505"

func isPgDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// Store bundles the repositories of one backend.
type Store struct {
	Users      UserRepository
	Categories CategoryRepository
	Products   ProductRepository
	Orders     OrderRepository
}

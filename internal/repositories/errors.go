package repositories

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested record does not exist.
// Postgres implementations translate gorm.ErrRecordNotFound to it so
// callers never depend on gorm directly.
var ErrNotFound = errors.New("record not found")

// IsNotFoundError reports whether err means a missing record,
// regardless of which layer produced it.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

// TranslateError maps driver-level errors to repository sentinels.
func TranslateError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

package database

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	"github.com/mrlokans/bookhive/internal/errs"
)

// IsUniqueViolation reports whether err came from a unique index or primary key.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	if code, ok := sqliteExtendedCode(err); ok {
		return code == sqlite3.ErrConstraintUnique || code == sqlite3.ErrConstraintPrimaryKey
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}
	return false
}

// IsForeignKeyViolation reports whether err came from a foreign key constraint.
func IsForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	if code, ok := sqliteExtendedCode(err); ok {
		return code == sqlite3.ErrConstraintForeignKey
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.ForeignKeyViolation
	}
	return false
}

// IsCheckViolation reports whether err came from a CHECK constraint.
func IsCheckViolation(err error) bool {
	if code, ok := sqliteExtendedCode(err); ok {
		return code == sqlite3.ErrConstraintCheck
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.CheckViolation
	}
	return false
}

func sqliteExtendedCode(err error) (sqlite3.ErrNoExtended, bool) {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode, true
	}
	var sqliteErrPtr *sqlite3.Error
	if errors.As(err, &sqliteErrPtr) && sqliteErrPtr != nil {
		return sqliteErrPtr.ExtendedCode, true
	}
	return 0, false
}

// TranslateWriteError maps constraint failures on insert/update to domain errors.
// conflictMsg is used for unique violations.
func TranslateWriteError(err error, conflictMsg string) error {
	switch {
	case err == nil:
		return nil
	case IsUniqueViolation(err):
		return errs.Wrap(errs.Conflict, err, conflictMsg)
	case IsForeignKeyViolation(err):
		return errs.Wrap(errs.NotFound, err, "referenced user or book not found")
	case IsCheckViolation(err):
		return errs.Wrap(errs.Validation, err, "value out of allowed range")
	}
	return err
}

// NotFound converts gorm.ErrRecordNotFound into a domain NotFound error.
func NotFound(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.New(errs.NotFound, msg)
	}
	return err
}

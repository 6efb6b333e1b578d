package database

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/uptrace/bun/driver/pgdriver"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// ErrUniqueViolation reports a duplicate value on a unique column.
var ErrUniqueViolation = errors.New("unique constraint violation")

// ErrForeignKeyViolation reports a reference to a missing row, or a delete
// blocked by dependent rows.
var ErrForeignKeyViolation = errors.New("foreign key constraint violation")

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"

	mysqlDuplicateEntry     = 1062
	mysqlRowIsReferenced    = 1451
	mysqlNoReferencedRow    = 1452
	mysqlNoReferencedRowOld = 1216
)

// NormalizeConstraintError translates driver-specific constraint failures
// into the package sentinels so callers can branch without knowing which
// engine is behind the pool. The driver error stays in the chain so logs
// keep the engine's constraint detail. Unrecognized errors pass through
// unchanged.
func NormalizeConstraintError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		switch pgErr.Field('C') {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %v", ErrUniqueViolation, err)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %v", ErrForeignKeyViolation, err)
		}
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case mysqlDuplicateEntry:
			return fmt.Errorf("%w: %v", ErrUniqueViolation, err)
		case mysqlRowIsReferenced, mysqlNoReferencedRow, mysqlNoReferencedRowOld:
			return fmt.Errorf("%w: %v", ErrForeignKeyViolation, err)
		}
	}

	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return fmt.Errorf("%w: %v", ErrUniqueViolation, err)
		case sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY, sqlite3lib.SQLITE_CONSTRAINT_TRIGGER:
			return fmt.Errorf("%w: %v", ErrForeignKeyViolation, err)
		}
	}

	return err
}

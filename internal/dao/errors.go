package dao

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/go-sql-driver/mysql"
)

// Storage failure classes services translate into their error taxonomy
var (
	ErrDuplicateKey         = errors.New("duplicate key")
	ErrForeignKeyConstraint = errors.New("foreign key constraint violated")
	ErrConcurrencyConflict  = errors.New("row was modified by another writer")
	ErrConnection           = errors.New("database connection failure")
	ErrStorage              = errors.New("storage failure")
)

// MySQL server error numbers
const (
	mysqlErrDuplicateEntry     = 1062
	mysqlErrRowIsReferenced    = 1451
	mysqlErrNoReferencedRow    = 1452
	mysqlErrServerGone         = 2006
	mysqlErrServerLost         = 2013
	mysqlErrTooManyConnections = 1040
)

// classifyError wraps a driver error with the storage class it belongs to
func classifyError(operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to %s: %w: %w", operation, classOf(err), err)
}

func classOf(err error) error {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case mysqlErrDuplicateEntry:
			return ErrDuplicateKey
		case mysqlErrRowIsReferenced, mysqlErrNoReferencedRow:
			return ErrForeignKeyConstraint
		case mysqlErrServerGone, mysqlErrServerLost, mysqlErrTooManyConnections:
			return ErrConnection
		}
		return ErrStorage
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) {
		return ErrConnection
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return ErrConnection
	}

	return ErrStorage
}

// expectOneRow turns a zero-row UPDATE guarded by UPDATED_DATE into ErrConcurrencyConflict
func expectOneRow(operation string, rowsAffected int64) error {
	if rowsAffected == 0 {
		return fmt.Errorf("failed to %s: %w", operation, ErrConcurrencyConflict)
	}
	return nil
}

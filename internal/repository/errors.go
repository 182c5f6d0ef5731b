package repository

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/lib/pq"
)

var (
	ErrToolNotFound      = errors.New("tool not found")
	ErrDuplicateToolName = errors.New("tool name already exists")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrStoreUnavailable  = errors.New("store unavailable")
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"

	constraintToolName     = "tools_name_key"
	constraintToolCategory = "tools_category_id_fkey"
)

// mapError converts driver failures into the package sentinels, keeping the original error in the chain.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code == codeUniqueViolation && pqErr.Constraint == constraintToolName:
			return fmt.Errorf("%w: %w", ErrDuplicateToolName, err)
		case pqErr.Code == codeForeignKeyViolation && pqErr.Constraint == constraintToolCategory:
			return fmt.Errorf("%w: %w", ErrCategoryNotFound, err)
		}

		switch pqErr.Code.Class() {
		// connection exception, insufficient resources, operator intervention
		case "08", "53", "57":
			return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
		}
		return err
	}

	if isConnectionError(err) {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return err
}

func isConnectionError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func isUniqueConstraintError(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == codeUniqueViolation
}

package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/lib/pq"

	"github.com/A-Malek-CH/Code4Pal-final-submission/repositories"
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations
const uniqueViolation = "23505"

// translateError converts driver-level errors into repository sentinel errors
// so services never see raw postgres error text.
func translateError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", repositories.ErrNotFound, what)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", repositories.ErrDuplicateKey, what)
	}
	return fmt.Errorf("failed to access %s: %w", what, err)
}

// buildPatch renders a column patch into "SET col = $n" SQL. Column names are
// checked against the caller's whitelist; the patch map comes from request
// bodies and must never reach the query text unchecked. Iteration order is
// made deterministic for testability.
func buildPatch(patch map[string]interface{}, allowed map[string]bool, firstArg int) (string, []interface{}, error) {
	if len(patch) == 0 {
		return "", nil, fmt.Errorf("empty patch")
	}

	cols := make([]string, 0, len(patch))
	for col := range patch {
		if !allowed[col] {
			return "", nil, fmt.Errorf("column %q is not updatable", col)
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)

	clause := ""
	args := make([]interface{}, 0, len(cols))
	for i, col := range cols {
		if i > 0 {
			clause += ", "
		}
		clause += fmt.Sprintf("%s = $%d", col, firstArg+i)
		args = append(args, patch[col])
	}
	return clause, args, nil
}

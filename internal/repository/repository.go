package repository

import (
	"errors"

	"github.com/lib/pq"

	appErrors "github.com/edudesk/school-api/pkg/errors"
)

// PostgreSQL constraint error codes.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// isUniqueViolation reports whether err is a unique constraint failure.
// Concurrent duplicate writes slip past application-level pre-checks and
// must still surface as conflicts.
func isUniqueViolation(err error) bool {
	return pqCode(err) == uniqueViolation
}

// conflictOr maps unique violations to a typed conflict, foreign key
// violations to a validation error, and wraps anything else with the
// given message.
func conflictOr(err error, conflictMsg, wrapMsg string) error {
	switch pqCode(err) {
	case uniqueViolation:
		return appErrors.Clone(appErrors.ErrConflict, conflictMsg)
	case foreignKeyViolation:
		return appErrors.Validation(map[string]string{"reference": "related record does not exist"})
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, wrapMsg)
}

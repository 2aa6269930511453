package repository

import (
	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yourdesigncoza/wecoza-core-sub001/internals/logger"
)

var (
	ErrNotFound          = errors.New("progression record not found")
	ErrNoValidColumns    = errors.New("no valid columns in payload")
	ErrInvalidStatus     = errors.New("invalid progression status")
	ErrInvalidSource     = errors.New("invalid hours source")
	ErrInvalidPeriod     = errors.New("invalid reporting period")
	ErrAlreadyInProgress = errors.New("learner already has an in-progress progression")

	// ErrQuery marks driver and SQL failures.
	ErrQuery = errors.New("progression query failed")
)

// ErrorKind lets callers tell "empty" apart from "failed" without string matching.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindNotFound
	KindValidation
	KindConflict
	KindQuery
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	default:
		return "query"
	}
}

func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.IsAny(err, ErrNoValidColumns, ErrInvalidStatus, ErrInvalidSource, ErrInvalidPeriod):
		return KindValidation
	case errors.Is(err, ErrAlreadyInProgress):
		return KindConflict
	default:
		return KindQuery
	}
}

const (
	pgUniqueViolation = "23505"
	inProgressIndex   = "uq_lpt_learner_in_progress"
)

// queryFailed logs a failure tagged with the originating method and returns
// it marked as ErrQuery. Bound parameters are never logged.
func queryFailed(method string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == inProgressIndex {
		logger.Logger.Warnw("in-progress uniqueness rejected write", "component", "progressions", "method", method)
		return errors.Wrapf(ErrAlreadyInProgress, "progressions.%s", method)
	}
	logger.Logger.Errorw("query failed", "component", "progressions", "method", method, "error", err)
	return errors.Mark(errors.Wrapf(err, "progressions.%s", method), ErrQuery)
}

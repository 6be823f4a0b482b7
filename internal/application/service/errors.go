package service

import (
	"errors"
	"fmt"

	"github.com/sangkips/library-api/internal/domain/repository"
	"github.com/sangkips/library-api/pkg/apperror"
	"gorm.io/gorm"
)

// storeError converts the sentinel errors a repository write can return
// into client-facing errors. Anything else is wrapped with op.
func storeError(op string, err error, conflict string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrCopyStateChanged):
		return apperror.NewConflictError("One or more copies changed state; reload and try again")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperror.NewConflictError(conflict)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperror.NewConflictError("Record is still referenced by other records")
	case apperror.IsAppError(err):
		return err
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// fieldErrors collects per-field validation failures.
type fieldErrors []apperror.FieldError

func (f *fieldErrors) add(field, format string, args ...interface{}) {
	*f = append(*f, apperror.FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return apperror.NewValidationError(f)
}

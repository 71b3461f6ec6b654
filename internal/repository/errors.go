package repository

import (
	"errors"

	"gorm.io/gorm"

	"bouncecure/internal/apperror"
)

// storeErr maps a GORM error onto the API taxonomy. A missing row becomes
// NotFound, a unique violation ValidationFailed; every other store error is a
// retryable store failure.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.Wrap(err, apperror.KindNotFound, op+": not found")
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.Wrap(err, apperror.KindValidationFailed, op+": already exists")
	}
	return apperror.Store(op, err)
}

package repository

import (
	"errors"

	"homeschool_hub_backend/internal/util"

	"gorm.io/gorm"
)

// translate maps gorm's not-found error onto the service-level sentinel.
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrNotFound
	}
	return err
}

package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateSKU      = errors.New("sku already exists")
	ErrDuplicateUsername = errors.New("username or email already exists")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// translate maps gorm errors onto the repository sentinels.
func translate(err, notFound, duplicate error) error {
	switch {
	case err == nil:
		return nil
	case notFound != nil && errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case duplicate != nil && errors.Is(err, gorm.ErrDuplicatedKey):
		return duplicate
	default:
		return err
	}
}

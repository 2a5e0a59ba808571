package service

import (
	"errors"
	"fmt"

	"github.com/Pavel2232/ShopBot/internal/model"
)

var (
	ErrInvalidEmail   = fmt.Errorf("%w: invalid email address", model.ErrValidation)
	ErrNoActiveCart   = errors.New("no active cart")
	ErrInvalidProduct = fmt.Errorf("%w: invalid product id", model.ErrValidation)
)

package model

import "errors"

// Error taxonomy shared by the repository client, the cart engine and the conversation handlers.
var (
	ErrNotFound              = errors.New("not found")
	ErrRepositoryUnavailable = errors.New("repository unavailable")
	ErrValidation            = errors.New("validation failed")
	ErrRenderNoOp            = errors.New("render produced no change")
)

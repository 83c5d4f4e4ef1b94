package entity

import "errors"

var (
	ErrLeadNotFound       = errors.New("lead not found")
	ErrLeadNotAssignable  = errors.New("lead is not in status new or is already assigned")
	ErrInvalidTransition  = errors.New("status transition not allowed")
	ErrEmptyPatch         = errors.New("nothing to update")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrUserNotFound       = errors.New("client not found")
	ErrClientInactive     = errors.New("client is not active")
	ErrEmailAlreadyExists = errors.New("email already registered")
)

package repositories

import "errors"

var (
	ErrNotFound      = errors.New("document not found")
	ErrDuplicateKey  = errors.New("duplicate key")
	ErrAlreadyExists = errors.New("record already exists")
)

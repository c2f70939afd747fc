package repository

import "github.com/pkg/errors"

var (
	ErrSubjectNotFound    = errors.New("subject not found")
	ErrUnknownSubjectKind = errors.New("unknown subject kind")
	ErrNotFound           = errors.New("record not found")
	ErrSlugTaken          = errors.New("slug already in use")
)

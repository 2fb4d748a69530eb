package domain

import "errors"

var (
	ErrUnknownWeek     = errors.New("unknown week")
	ErrUnknownDay      = errors.New("unknown day")
	ErrUnknownSlot     = errors.New("unknown time slot")
	ErrArchiveNotFound = errors.New("archive not found")
)

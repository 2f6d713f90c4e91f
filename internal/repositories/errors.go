package repositories

import "errors"

var (
	ErrInvalidID       = errors.New("invalid id format")
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
)

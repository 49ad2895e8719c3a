package chat

import "errors"

var (
	ErrChannelNotFound  = errors.New("channel not found")
	ErrDuplicateChannel = errors.New("channel name already taken")
	ErrEmptyMessage     = errors.New("message content is empty")
	ErrAmbiguousTarget  = errors.New("message cannot target both a channel and a recipient")
	ErrNotFound         = errors.New("notification not found")
)

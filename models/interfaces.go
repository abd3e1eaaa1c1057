package models

import "context"

// Dispatcher delivers a formatted notification to the messaging channel.
type Dispatcher interface {
	Send(ctx context.Context, text string) error
}

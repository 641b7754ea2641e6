package broadcast

import "context"

// Transport is the messaging surface the delivery loop sends through.
// pkg/telegram.Client satisfies it.
type Transport interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendPhoto(ctx context.Context, chatID int64, photoRef, caption string) error
	SendLocation(ctx context.Context, chatID int64, latitude, longitude float64) error
}

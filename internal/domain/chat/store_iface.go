package chat

import "context"

type StoreAPI interface {
	CreateChannel(ctx context.Context, c Channel) (Channel, error)
	GetChannel(ctx context.Context, id string) (Channel, error)
	ListChannels(ctx context.Context) ([]Channel, error)

	CreateMessage(ctx context.Context, m Message) (Message, error)
	ChannelMessages(ctx context.Context, channelID string, limit int) ([]Message, error)
	DirectMessages(ctx context.Context, userA, userB string, limit int) ([]Message, error)
	GeneralMessages(ctx context.Context, limit int) ([]Message, error)

	CreateNotification(ctx context.Context, n Notification) (Notification, error)
	Notifications(ctx context.Context, recipientID string, unreadOnly bool) ([]Notification, error)
	MarkRead(ctx context.Context, id, recipientID string) error
	MarkAllRead(ctx context.Context, recipientID string) error
}

var _ StoreAPI = (*Store)(nil)

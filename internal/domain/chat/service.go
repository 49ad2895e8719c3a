package chat

import (
	"context"
	"strings"
)

const defaultMessageLimit = 50

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) CreateChannel(ctx context.Context, creatorID, name, description string) (Channel, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Channel{}, ErrEmptyMessage
	}
	return s.store.CreateChannel(ctx, Channel{
		Name:        name,
		Description: description,
		CreatedBy:   creatorID,
	})
}

func (s *Service) ListChannels(ctx context.Context) ([]Channel, error) {
	return s.store.ListChannels(ctx)
}

// Send posts a message to a channel, a direct recipient, or the general room.
// A direct message also leaves an unread notification for the recipient.
func (s *Service) Send(ctx context.Context, senderID string, m Message) (Message, error) {
	if strings.TrimSpace(m.Content) == "" {
		return Message{}, ErrEmptyMessage
	}
	if m.ChannelID != "" && m.RecipientID != "" {
		return Message{}, ErrAmbiguousTarget
	}
	if m.ChannelID != "" {
		if _, err := s.store.GetChannel(ctx, m.ChannelID); err != nil {
			return Message{}, err
		}
	}
	m.SenderID = senderID

	sent, err := s.store.CreateMessage(ctx, m)
	if err != nil {
		return Message{}, err
	}
	if sent.RecipientID != "" {
		_, err = s.store.CreateNotification(ctx, Notification{
			RecipientID: sent.RecipientID,
			SenderID:    senderID,
			Kind:        KindMessage,
			ReferenceID: sent.ID,
		})
		if err != nil {
			return Message{}, err
		}
	}
	return sent, nil
}

func (s *Service) ChannelMessages(ctx context.Context, channelID string, limit int) ([]Message, error) {
	if _, err := s.store.GetChannel(ctx, channelID); err != nil {
		return nil, err
	}
	return s.store.ChannelMessages(ctx, channelID, clampLimit(limit))
}

func (s *Service) DirectMessages(ctx context.Context, userA, userB string, limit int) ([]Message, error) {
	return s.store.DirectMessages(ctx, userA, userB, clampLimit(limit))
}

func (s *Service) GeneralMessages(ctx context.Context, limit int) ([]Message, error) {
	return s.store.GeneralMessages(ctx, clampLimit(limit))
}

func (s *Service) Notifications(ctx context.Context, recipientID string, unreadOnly bool) ([]Notification, error) {
	return s.store.Notifications(ctx, recipientID, unreadOnly)
}

func (s *Service) MarkRead(ctx context.Context, id, recipientID string) error {
	return s.store.MarkRead(ctx, id, recipientID)
}

func (s *Service) MarkAllRead(ctx context.Context, recipientID string) error {
	return s.store.MarkAllRead(ctx, recipientID)
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 200 {
		return defaultMessageLimit
	}
	return limit
}

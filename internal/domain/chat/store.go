package chat

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) CreateChannel(ctx context.Context, c Channel) (Channel, error) {
	query := `INSERT INTO channels (name, description, created_by)
		VALUES ($1, $2, $3)
		RETURNING id, name, description, created_by, created_at`

	created, err := scanChannel(s.db.QueryRow(ctx, query, c.Name, c.Description, c.CreatedBy))
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return Channel{}, ErrDuplicateChannel
	}
	return created, err
}

func (s *Store) GetChannel(ctx context.Context, id string) (Channel, error) {
	query := `SELECT id, name, description, created_by, created_at FROM channels WHERE id = $1`

	c, err := scanChannel(s.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Channel{}, ErrChannelNotFound
	}
	return c, err
}

func (s *Store) ListChannels(ctx context.Context) ([]Channel, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, description, created_by, created_at FROM channels ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Channel
	for rows.Next() {
		c, err := scanChannel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

const messageColumns = `id, sender_id, coalesce(recipient_id::text, ''), coalesce(channel_id::text, ''), content, created_at`

func (s *Store) CreateMessage(ctx context.Context, m Message) (Message, error) {
	query := `INSERT INTO messages (sender_id, recipient_id, channel_id, content)
		VALUES ($1, nullif($2, '')::uuid, nullif($3, '')::uuid, $4)
		RETURNING ` + messageColumns

	return scanMessage(s.db.QueryRow(ctx, query, m.SenderID, m.RecipientID, m.ChannelID, m.Content))
}

func (s *Store) ChannelMessages(ctx context.Context, channelID string, limit int) ([]Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages
		WHERE channel_id::text = $1 ORDER BY created_at DESC LIMIT $2`
	return s.queryMessages(ctx, query, channelID, limit)
}

// DirectMessages returns the conversation between two employees in either
// direction.
func (s *Store) DirectMessages(ctx context.Context, userA, userB string, limit int) ([]Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages
		WHERE (sender_id::text = $1 AND recipient_id::text = $2)
		   OR (sender_id::text = $2 AND recipient_id::text = $1)
		ORDER BY created_at DESC LIMIT $3`
	return s.queryMessages(ctx, query, userA, userB, limit)
}

func (s *Store) GeneralMessages(ctx context.Context, limit int) ([]Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages
		WHERE channel_id IS NULL AND recipient_id IS NULL
		ORDER BY created_at DESC LIMIT $1`
	return s.queryMessages(ctx, query, limit)
}

func (s *Store) queryMessages(ctx context.Context, query string, args ...any) ([]Message, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

const notificationColumns = `id, recipient_id, sender_id, kind, coalesce(reference_id::text, ''), is_read, created_at`

func (s *Store) CreateNotification(ctx context.Context, n Notification) (Notification, error) {
	query := `INSERT INTO notifications (recipient_id, sender_id, kind, reference_id)
		VALUES ($1, $2, $3, nullif($4, '')::uuid)
		RETURNING ` + notificationColumns

	return scanNotification(s.db.QueryRow(ctx, query, n.RecipientID, n.SenderID, n.Kind, n.ReferenceID))
}

func (s *Store) Notifications(ctx context.Context, recipientID string, unreadOnly bool) ([]Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications
		WHERE recipient_id::text = $1 AND ($2 = false OR is_read = false)
		ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query, recipientID, unreadOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkRead flips a single notification owned by the recipient.
func (s *Store) MarkRead(ctx context.Context, id, recipientID string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE notifications SET is_read = true WHERE id = $1 AND recipient_id::text = $2`, id, recipientID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) MarkAllRead(ctx context.Context, recipientID string) error {
	_, err := s.db.Exec(ctx,
		`UPDATE notifications SET is_read = true WHERE recipient_id::text = $1 AND is_read = false`, recipientID)
	return err
}

type row interface {
	Scan(dest ...any) error
}

func scanChannel(r row) (Channel, error) {
	var c Channel
	err := r.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedBy, &c.CreatedAt)
	return c, err
}

func scanMessage(r row) (Message, error) {
	var m Message
	err := r.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.ChannelID, &m.Content, &m.CreatedAt)
	return m, err
}

func scanNotification(r row) (Notification, error) {
	var n Notification
	err := r.Scan(&n.ID, &n.RecipientID, &n.SenderID, &n.Kind, &n.ReferenceID, &n.IsRead, &n.CreatedAt)
	return n, err
}

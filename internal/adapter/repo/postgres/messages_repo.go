package postgres

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
)

// MessageRepo persists conversation turns.
type MessageRepo struct{ Pool PgxPool }

// NewMessageRepo constructs a MessageRepo with the given pool.
func NewMessageRepo(p PgxPool) *MessageRepo { return &MessageRepo{Pool: p} }

// Create appends a message to a conversation and returns its id.
func (r *MessageRepo) Create(ctx domain.Context, m domain.Message) (string, error) {
	tracer := otel.Tracer("repo.messages")
	ctx, span := tracer.Start(ctx, "messages.Create")
	defer span.End()
	id := m.ID
	if id == "" {
		id = uuid.New().String()
	}
	created := m.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	q := `INSERT INTO messages (id, office_id, conversation_id, sender_type, sender_id, content, metadata, created_at)
	      VALUES ($1, $2, $3, $4, $5, $6, '{}', $7)`
	_, err := r.Pool.Exec(ctx, q, id, m.OfficeID, m.ConversationID, m.SenderType, m.SenderID, m.Content, created)
	if err != nil {
		return "", fmt.Errorf("op=message.create: %w", err)
	}
	return id, nil
}

// History returns the most recent messages of a conversation in
// chronological order. The query walks backwards from the newest message
// and the result is reversed so prompts read oldest first.
func (r *MessageRepo) History(ctx domain.Context, conversationID string, limit int) ([]domain.Message, error) {
	tracer := otel.Tracer("repo.messages")
	ctx, span := tracer.Start(ctx, "messages.History")
	defer span.End()
	if limit <= 0 {
		limit = 10
	}
	q := `SELECT id::text, sender_type, sender_id::text, content, created_at
	      FROM messages
	      WHERE conversation_id = $1
	      ORDER BY created_at DESC
	      LIMIT $2`
	rows, err := r.Pool.Query(ctx, q, conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("op=message.history: %w", err)
	}
	defer rows.Close()
	var msgs []domain.Message
	for rows.Next() {
		m := domain.Message{ConversationID: conversationID}
		if err := rows.Scan(&m.ID, &m.SenderType, &m.SenderID, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("op=message.history: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=message.history: %w", err)
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

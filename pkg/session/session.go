// Package session stores conversations with the design assistant.
//
// A [Session] pairs the current diagram with the chat transcript that
// produced it. Sessions live in a [Store]; four backends are provided:
//
//   - [FileStore]: one JSON file per session, for the CLI
//   - [MemoryStore]: bounded in-process LRU, for tests and single-instance servers
//   - [RedisStore]: shared storage for multi-instance servers
//   - [MongoStore]: durable document storage
//
// Typical use:
//
//	store, err := session.NewFileStore("")
//	sess, err := store.Get(ctx, "default")
//	if errors.Is(err, session.ErrNotFound) {
//	    sess, err = session.New("default", session.DefaultTTL)
//	}
//	sess.Diagram = updated
//	err = store.Set(ctx, sess)
package session

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/archsketch/pkg/diagram"
	"github.com/matzehuels/archsketch/pkg/errors"
)

// ErrNotFound is returned by [Store.Get] when a session does not exist or
// has expired.
var ErrNotFound = errors.New(errors.ErrCodeSessionNotFound, "session not found")

// DefaultTTL is how long an idle session is kept. Zero disables expiry.
const DefaultTTL = 30 * 24 * time.Hour

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of the chat transcript.
type Message struct {
	ID        string    `json:"id" bson:"id"`
	Role      Role      `json:"role" bson:"role"`
	Content   string    `json:"content" bson:"content"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Session is a diagram plus the conversation that shaped it.
type Session struct {
	ID        string          `json:"id" bson:"_id"`
	Diagram   diagram.Diagram `json:"diagram" bson:"diagram"`
	Messages  []Message       `json:"messages" bson:"messages"`
	CreatedAt time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" bson:"updated_at"`
	ExpiresAt time.Time       `json:"expires_at,omitzero" bson:"expires_at"`
}

// Store is implemented by session backends.
type Store interface {
	// Get returns the session or [ErrNotFound]. Expired sessions are not
	// returned.
	Get(ctx context.Context, id string) (*Session, error)

	// Set creates or replaces a session.
	Set(ctx context.Context, s *Session) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error

	// List returns live sessions, most recently updated first.
	List(ctx context.Context) ([]*Session, error)

	// Cleanup removes expired sessions and reports how many were removed.
	Cleanup(ctx context.Context) (int, error)

	Close() error
}

// GenerateID returns a new random session id.
func GenerateID() string {
	return uuid.NewString()
}

// New creates an empty session. An empty id is replaced by [GenerateID].
func New(id string, ttl time.Duration) (*Session, error) {
	if id == "" {
		id = GenerateID()
	}
	if err := errors.ValidateSessionID(id); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	s := &Session{ID: id, CreatedAt: now, UpdatedAt: now}
	if ttl > 0 {
		s.ExpiresAt = now.Add(ttl)
	}
	return s, nil
}

// IsExpired reports whether the session has passed its expiry time.
func (s *Session) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// Touch marks the session as updated now and extends its expiry by ttl.
func (s *Session) Touch(ttl time.Duration) {
	s.UpdatedAt = time.Now().UTC()
	if ttl > 0 {
		s.ExpiresAt = s.UpdatedAt.Add(ttl)
	}
}

// AddMessage appends a message to the transcript and returns it.
func (s *Session) AddMessage(role Role, content string) Message {
	m := Message{ID: uuid.NewString(), Role: role, Content: content, CreatedAt: time.Now().UTC()}
	s.Messages = append(s.Messages, m)
	return m
}

// Clone returns a deep copy.
func (s *Session) Clone() *Session {
	c := *s
	c.Diagram = s.Diagram.Clone()
	c.Messages = slices.Clone(s.Messages)
	return &c
}

func sortByUpdated(sessions []*Session) {
	slices.SortFunc(sessions, func(a, b *Session) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
}

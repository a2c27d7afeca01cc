// Package session persists chart instances between requests.
//
// A chart instance owns its previous and current snapshots; to animate
// across stateless HTTP calls those snapshots have to live somewhere. A
// [Session] wraps an exported [chart.State] with an id and an expiry, and a
// [Store] keeps it. Backends:
//
//   - [MemoryStore]: a single process, for tests and the CLI server default
//   - [FileStore]: JSON files in a directory
//   - [RedisStore]: shared storage with native expiry
//   - [MongoStore]: document storage with a TTL index
//
// # Usage
//
//	sess, err := session.New(c.State(), session.DefaultTTL)
//	if err != nil {
//	    return err
//	}
//	store.Set(ctx, sess)
//
//	sess, err = store.Get(ctx, id)
//	if sess == nil {
//	    // not found or expired
//	}
//	c, err := chart.Restore(sess.State)
//
// [chart.State]: github.com/matzehuels/chartcore/pkg/chart.State
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/chartcore/pkg/chart"
	"github.com/matzehuels/chartcore/pkg/dataset"
	"github.com/matzehuels/chartcore/pkg/errors"
	"github.com/matzehuels/chartcore/pkg/layout"
)

// DefaultTTL is how long an idle chart instance is kept.
const DefaultTTL = 24 * time.Hour

// Session is one stored chart instance. Data holds the full dataset of a
// scrolled chart, since re-windowing needs every record.
type Session struct {
	ID        string             `json:"id" bson:"_id"`
	State     chart.State        `json:"state" bson:"state"`
	Scroll    *chart.ScrollState `json:"scroll,omitempty" bson:"scroll,omitempty"`
	Viewport  layout.Size        `json:"viewport" bson:"viewport"`
	Data      dataset.Dataset    `json:"data,omitempty" bson:"data,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
	ExpiresAt time.Time          `json:"expires_at" bson:"expires_at"`
}

// New wraps st in a session with a fresh random id.
func New(st chart.State, ttl time.Duration) (*Session, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "generate session id")
	}
	now := time.Now().UTC()
	return &Session{
		ID:        id.String(),
		State:     st,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}, nil
}

// IsExpired reports whether the session is past its expiry.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Touch replaces the state and extends the expiry by ttl from now.
func (s *Session) Touch(st chart.State, ttl time.Duration) {
	now := time.Now().UTC()
	s.State = st
	s.UpdatedAt = now
	s.ExpiresAt = now.Add(ttl)
}

// TTL returns the remaining lifetime, never negative.
func (s *Session) TTL() time.Duration {
	return max(time.Until(s.ExpiresAt), 0)
}

// ValidateID checks that id is a canonical UUID. Stores call it before
// touching the backend so ids never reach file paths or queries unchecked.
func ValidateID(id string) error {
	u, err := uuid.Parse(id)
	if err != nil || u.String() != id {
		return errors.New(errors.ErrCodeSessionNotFound, "invalid chart id %q", id)
	}
	return nil
}

// Store is the interface for session storage backends.
type Store interface {
	// Get returns the session, or nil, nil when it does not exist or has
	// expired.
	Get(ctx context.Context, id string) (*Session, error)
	Set(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
	// Cleanup removes expired sessions. Backends with native expiry treat
	// it as a no-op.
	Cleanup(ctx context.Context) error
	Close() error
}

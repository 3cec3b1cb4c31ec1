// Package activity records user interactions: a Tracker publishes events
// for a Session to NATS and a Recorder aggregates them.
package activity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Session identifies who is acting. It is created once per client and
// passed explicitly to the Tracker.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId,omitempty"`
	// StartedAt is zero for resumed sessions, whose start was not observed.
	StartedAt time.Time `json:"startedAt,omitzero"`
}

// NewSession starts an anonymous session, or an authenticated one when
// userID is set.
func NewSession(userID string) Session {
	return Session{ID: uuid.NewString(), UserID: userID, StartedAt: time.Now().UTC()}
}

// ResumeSession restores a session from a previously issued id. The
// returned session has no StartedAt.
func ResumeSession(id, userID string) (Session, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return Session{}, fmt.Errorf("activity: invalid session id: %w", err)
	}
	return Session{ID: u.String(), UserID: userID}, nil
}

// Anonymous reports whether no user is signed in.
func (s Session) Anonymous() bool { return s.UserID == "" }

// Identity is the user id, or the session id for anonymous sessions.
func (s Session) Identity() string {
	if s.Anonymous() {
		return "anon:" + s.ID
	}
	return s.UserID
}

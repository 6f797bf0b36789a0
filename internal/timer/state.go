package timer

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Key identifies one timer: a member at a gym within one browsing session.
// Separate sessions (tabs, reloads) share the same underlying record because
// the store key is stable for the session ID the client persists.
type Key struct {
	MemberID  int
	GymID     int
	SessionID string
}

func NewKey(memberID, gymID int) Key {
	return Key{MemberID: memberID, GymID: gymID, SessionID: uuid.NewString()}
}

func (k Key) String() string {
	return fmt.Sprintf("timer:%d:%d:%s", k.MemberID, k.GymID, k.SessionID)
}

// State is the durable timer record. ElapsedMs is always derived as
// now − StartedAt when written; it is persisted only so a reader without a
// clock reference can render progress.
type State struct {
	MemberID   int       `json:"member_id"`
	GymID      int       `json:"gym_id"`
	SessionID  string    `json:"session_id"`
	Active     bool      `json:"active"`
	StartedAt  time.Time `json:"started_at"`
	ElapsedMs  int64     `json:"elapsed_ms"`
	LastUpdate time.Time `json:"last_update"`
	Version    int64     `json:"version"`
}

// DayKey is the single calendar-day key used for the once-per-day start
// limit. All code paths derive it here, always in UTC.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

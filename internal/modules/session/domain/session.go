package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "vigil/internal/platform/errors"
)

const SchemaVersion = 1

type State string

const (
	StateRunning   State = "running"
	StateExpired   State = "expired"
	StateVerifying State = "verifying"
	StateCompleted State = "completed"
	StateCancelled State = "cancelled"
)

// Active reports whether the state occupies the single active slot.
func (s State) Active() bool {
	switch s {
	case StateRunning, StateExpired, StateVerifying:
		return true
	default:
		return false
	}
}

func (s State) Terminal() bool {
	return s == StateCompleted || s == StateCancelled
}

// VerificationMethod is the proof-of-presence challenge picked once
// when verification begins. It is persisted and never re-rolled on
// resume.
type VerificationMethod string

const (
	MethodDrawing VerificationMethod = "drawing"
	MethodSinging VerificationMethod = "singing"
	MethodReading VerificationMethod = "reading"
)

func Methods() []VerificationMethod {
	return []VerificationMethod{MethodDrawing, MethodSinging, MethodReading}
}

func (m VerificationMethod) Prompt() string {
	switch m {
	case MethodDrawing:
		return "Draw the shape shown before the bell stops."
	case MethodSinging:
		return "Hum the tune out loud to prove you are here."
	case MethodReading:
		return "Read the passage aloud, start to finish."
	default:
		return ""
	}
}

// Adjustment records a mid-session change to the planned duration.
type Adjustment struct {
	DeltaMinutes int       `json:"delta_minutes"`
	At           time.Time `json:"at"`
}

// Session is one focus attempt. RemainingSeconds is authoritative only
// while the process is live; across suspension it is recomputed from
// LastTick.
type Session struct {
	ID               string             `json:"id"`
	Category         string             `json:"category"`
	PlannedSeconds   int                `json:"planned_seconds"`
	OriginalSeconds  int                `json:"original_seconds"`
	RemainingSeconds int                `json:"remaining_seconds"`
	StartedAt        time.Time          `json:"started_at"`
	LastTick         time.Time          `json:"last_tick"`
	State            State              `json:"state"`
	Method           VerificationMethod `json:"method,omitempty"`
	Adjustments      []Adjustment       `json:"adjustments,omitempty"`
	EndedAt          time.Time          `json:"ended_at"`
	Credited         bool               `json:"credited"`
	CreditedMinutes  int                `json:"credited_minutes"`
}

func New(id, category string, durationSeconds int, now time.Time) (Session, error) {
	if strings.TrimSpace(id) == "" {
		return Session{}, fmt.Errorf("session id is required")
	}
	if strings.TrimSpace(category) == "" {
		return Session{}, fmt.Errorf("%w: category is required", apperrors.ErrInvalidInput)
	}
	if durationSeconds <= 0 {
		return Session{}, apperrors.ErrInvalidDuration
	}
	return Session{
		ID:               id,
		Category:         category,
		PlannedSeconds:   durationSeconds,
		OriginalSeconds:  durationSeconds,
		RemainingSeconds: durationSeconds,
		StartedAt:        now,
		LastTick:         now,
		State:            StateRunning,
	}, nil
}

// Advance folds wall-clock time since the last authoritative tick into
// the countdown. Safe across suspension: the delta comes from
// timestamps, not from counted ticks.
func (s *Session) Advance(now time.Time) {
	if s.State != StateRunning {
		return
	}
	elapsed := int(now.Sub(s.LastTick).Seconds())
	if elapsed < 0 {
		elapsed = 0
	}
	s.RemainingSeconds -= elapsed
	if s.RemainingSeconds < 0 {
		s.RemainingSeconds = 0
	}
	s.LastTick = now
}

// Adjust shifts both the remaining countdown and the planned duration,
// clamping at zero. Valid only while Running.
func (s *Session) Adjust(deltaMinutes int, now time.Time) error {
	if s.State != StateRunning {
		return apperrors.ErrNoActiveSession
	}
	s.RemainingSeconds += deltaMinutes * 60
	if s.RemainingSeconds < 0 {
		s.RemainingSeconds = 0
	}
	s.PlannedSeconds += deltaMinutes * 60
	if s.PlannedSeconds < 0 {
		s.PlannedSeconds = 0
	}
	s.Adjustments = append(s.Adjustments, Adjustment{DeltaMinutes: deltaMinutes, At: now})
	return nil
}

// ElapsedSeconds is the focused time so far under the current plan.
func (s Session) ElapsedSeconds() int {
	elapsed := s.PlannedSeconds - s.RemainingSeconds
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// CompletedMinutes is the credit for a passed verification: the full
// planned span, adjustments included, rounded up.
func (s Session) CompletedMinutes() int {
	return ceilMinutes(s.PlannedSeconds)
}

// PartialMinutes is the credit for a cancellation while Running. Zero
// means no credit.
func (s Session) PartialMinutes() int {
	return ceilMinutes(s.ElapsedSeconds())
}

func ceilMinutes(seconds int) int {
	if seconds <= 0 {
		return 0
	}
	return (seconds + 59) / 60
}

// ExpiredEvent is published when the countdown hits zero and
// verification begins.
type ExpiredEvent struct {
	SessionID string
	Category  string
	Method    VerificationMethod
	Prompt    string
	At        time.Time
}

// Snapshot is the persisted controller state. Seq is monotonic so a
// stale snapshot can never overtake a newer one.
type Snapshot struct {
	SchemaVersion int      `json:"schema_version"`
	Seq           uint64   `json:"seq"`
	Active        *Session `json:"active,omitempty"`
}

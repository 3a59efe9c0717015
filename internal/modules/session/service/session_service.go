package service

import (
	"math/rand"
	"time"

	"vigil/internal/modules/session/domain"
	"vigil/internal/platform/clock"
	"vigil/internal/platform/id"
)

// SessionService creates sessions and owns the expiry transition
// mechanics; everything stateful lives in the usecase.
type SessionService struct {
	clock clock.Clock
	idGen id.Generator
	rng   *rand.Rand
}

func NewSessionService(clk clock.Clock, idGen id.Generator) *SessionService {
	return &SessionService{
		clock: clk,
		idGen: idGen,
		rng:   rand.New(rand.NewSource(clk.Now().UnixNano())),
	}
}

func (s *SessionService) Create(category string, durationSeconds int) (domain.Session, error) {
	return domain.New(s.idGen.New(), category, durationSeconds, s.clock.Now())
}

// BeginVerification runs the Running -> Expired -> Verifying step.
// Expired is never observable from outside; it only marks the instant
// between the timer firing and the alert being armed. The method is
// rolled here, once, and survives restarts via the snapshot.
func (s *SessionService) BeginVerification(session *domain.Session, now time.Time) domain.ExpiredEvent {
	session.State = domain.StateExpired
	if session.Method == "" {
		methods := domain.Methods()
		session.Method = methods[s.rng.Intn(len(methods))]
	}
	session.State = domain.StateVerifying
	return domain.ExpiredEvent{
		SessionID: session.ID,
		Category:  session.Category,
		Method:    session.Method,
		Prompt:    session.Method.Prompt(),
		At:        now,
	}
}

// Resolve moves a session to its terminal state and stamps the credit
// decision on the record before anything is forwarded to the ledger.
func (s *SessionService) Resolve(session *domain.Session, state domain.State, creditedMinutes int, now time.Time) {
	session.State = state
	session.EndedAt = now
	session.Credited = creditedMinutes > 0
	session.CreditedMinutes = creditedMinutes
}

package dto

import (
	"time"

	achievementdto "vigil/internal/modules/achievement/dto"
)

type StartInput struct {
	Category        string
	DurationSeconds int
}

type StartOutput struct {
	SessionID string
	Category  string
	StartedAt time.Time
	EndsAt    time.Time
}

// StatusOutput describes the active slot after time has been folded
// in. State is "idle" when no session occupies the slot.
type StatusOutput struct {
	SessionID        string
	Category         string
	State            string
	PlannedSeconds   int
	RemainingSeconds int
	Method           string
	Prompt           string
	StartedAt        time.Time
}

// ResolveOutput is the result of Submit or Cancel.
type ResolveOutput struct {
	SessionID       string
	Category        string
	State           string
	Credited        bool
	CreditedMinutes int
	Unlocks         []achievementdto.Unlock
}

type HistoryEntry struct {
	SessionID       string
	Category        string
	State           string
	StartedAt       time.Time
	EndedAt         time.Time
	PlannedSeconds  int
	Credited        bool
	CreditedMinutes int
	Method          string
}

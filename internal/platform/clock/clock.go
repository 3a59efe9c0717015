package clock

import "time"

// Clock abstracts time to keep usecases deterministic in tests.
// Values are local: streak adjacency and weekly resets follow the
// user's calendar, not UTC.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

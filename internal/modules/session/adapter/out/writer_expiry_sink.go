package out

import (
	"fmt"
	"io"
	"sync"

	"vigil/internal/modules/session/domain"
	sessionout "vigil/internal/modules/session/port/out"
)

// WriterExpirySink prints expiry notifications; fire-and-forget, never
// blocks the controller on anything but the write itself.
type WriterExpirySink struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterExpirySink(w io.Writer) sessionout.ExpirySink {
	return &WriterExpirySink{w: w}
}

func (s *WriterExpirySink) SessionExpired(event domain.ExpiredEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = fmt.Fprintf(s.w, "time is up (%s): %s\n", event.Category, event.Prompt)
}

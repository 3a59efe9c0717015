package out

import (
	"fmt"
	"io"

	"vigil/internal/modules/achievement/domain"
	achievementout "vigil/internal/modules/achievement/port/out"
)

type WriterUnlockSink struct {
	w io.Writer
}

func NewWriterUnlockSink(w io.Writer) achievementout.UnlockSink {
	return &WriterUnlockSink{w: w}
}

func (s *WriterUnlockSink) UnlockAchieved(event domain.UnlockEvent) {
	fmt.Fprintf(s.w, "achievement unlocked: %s level %d\n", event.Category, event.Level)
}

package out

import (
	"context"
	"fmt"
	"io"
)

// BellPulser rings the terminal bell.
type BellPulser struct {
	w io.Writer
}

func NewBellPulser(w io.Writer) *BellPulser {
	return &BellPulser{w: w}
}

func (b *BellPulser) Pulse(_ context.Context) error {
	if _, err := fmt.Fprint(b.w, "\a"); err != nil {
		return fmt.Errorf("ring bell: %w", err)
	}
	return nil
}

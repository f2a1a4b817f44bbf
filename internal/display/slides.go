// internal/display/slides.go
package display

import (
	"errors"
	"fmt"
	"time"
)

// Slide is one labelled value page of the slideshow.
type Slide struct {
	ID    uint8
	Label string
}

// SetupSlides registers every slide, sets the summary title and starts the
// slideshow. It stops at the first failure.
func (d *Display) SetupSlides(slides []Slide, title string, interval time.Duration) error {
	seen := make(map[uint8]struct{}, len(slides))
	for _, s := range slides {
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("display: duplicate slide id %d", s.ID)
		}
		seen[s.ID] = struct{}{}

		if err := d.SlideAdd(s.ID, s.Label); err != nil {
			return fmt.Errorf("display: add slide %d (%s): %w", s.ID, s.Label, err)
		}
	}

	if title != "" {
		if err := d.SummaryTitle(title); err != nil {
			return fmt.Errorf("display: summary title: %w", err)
		}
	}

	if interval > 0 {
		if err := d.Slideshow(interval); err != nil {
			return fmt.Errorf("display: start slideshow: %w", err)
		}
	}
	return nil
}

// SetSlides pushes new values in order. A failing slide is reported and the
// next one is still tried, but the first ErrBusy stops the cycle: the
// remaining slides keep their old values until the next call.
func (d *Display) SetSlides(values map[uint8]string, order []uint8) error {
	var errs []error
	for _, id := range order {
		v, ok := values[id]
		if !ok {
			continue
		}
		if err := d.SlideSet(id, v); err != nil {
			if errors.Is(err, ErrBusy) {
				errs = append(errs, err)
				break
			}
			errs = append(errs, fmt.Errorf("slide %d: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// Package panels holds the state behind the mural detail and edit panels.
package panels

import (
	"time"

	"github.com/joeblew999/plat-murals/internal/service"
)

const (
	// SwipeThreshold is the horizontal travel in pixels that counts as a swipe.
	SwipeThreshold = 50
	// AutoAdvance is the gallery rotation interval.
	AutoAdvance = 5 * time.Second
)

// KeyAction is the result of a key press on the detail panel.
type KeyAction int

const (
	KeyIgnored KeyAction = iota
	KeyMoved
	KeyClose
)

// Carousel is the image gallery of the detail panel.
type Carousel struct {
	images   []service.Image
	index    int
	deadline time.Time
}

// NewCarousel starts a gallery at the first image.
func NewCarousel(images []service.Image, now time.Time) *Carousel {
	return &Carousel{images: images, deadline: now.Add(AutoAdvance)}
}

// Index returns the current image position.
func (c *Carousel) Index() int { return c.index }

// Len returns the gallery size.
func (c *Carousel) Len() int { return len(c.images) }

// Current returns the image being shown.
func (c *Carousel) Current() service.Image {
	if len(c.images) == 0 {
		return service.Image{}
	}
	return c.images[c.index]
}

// Seek jumps to image i, clamped to the gallery.
func (c *Carousel) Seek(i int) {
	c.index = max(0, min(i, len(c.images)-1))
}

// Next moves forward, wrapping to the first image.
func (c *Carousel) Next(now time.Time) {
	c.step(1)
	c.deadline = now.Add(AutoAdvance)
}

// Prev moves back, wrapping to the last image.
func (c *Carousel) Prev(now time.Time) {
	c.step(-1)
	c.deadline = now.Add(AutoAdvance)
}

func (c *Carousel) step(delta int) {
	n := len(c.images)
	if n < 2 {
		return
	}
	c.index = (c.index + delta + n) % n
}

// Key handles ArrowLeft, ArrowRight and Escape.
func (c *Carousel) Key(key string, now time.Time) KeyAction {
	switch key {
	case "Escape":
		return KeyClose
	case "ArrowLeft":
		if len(c.images) > 1 {
			c.Prev(now)
			return KeyMoved
		}
	case "ArrowRight":
		if len(c.images) > 1 {
			c.Next(now)
			return KeyMoved
		}
	}
	return KeyIgnored
}

// Swipe handles a touch gesture. deltaX is start minus end, so a leftward
// swipe is positive and advances.
func (c *Carousel) Swipe(deltaX float64, now time.Time) bool {
	switch {
	case deltaX > SwipeThreshold:
		c.Next(now)
	case deltaX < -SwipeThreshold:
		c.Prev(now)
	default:
		return false
	}
	return true
}

// Tick advances the gallery when the auto-advance deadline has passed.
func (c *Carousel) Tick(now time.Time) bool {
	if len(c.images) < 2 || now.Before(c.deadline) {
		return false
	}
	c.Next(now)
	return true
}

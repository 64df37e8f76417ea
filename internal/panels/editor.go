package panels

import (
	"errors"
	"strings"

	"github.com/joeblew999/plat-murals/internal/service"
)

// ErrTooManyImages is returned when adding past service.MaxImages.
var ErrTooManyImages = errors.New("maximum 5 images allowed")

// ErrImageIndex is returned for an index outside the image list.
var ErrImageIndex = errors.New("image index out of range")

// Editor is the admin edit form for one mural.
type Editor struct {
	mural  service.Mural
	Bio    string
	Images []service.Image
}

// NewEditor seeds the form from the stored record. A mural with only the
// legacy image field starts with an empty image list.
func NewEditor(m service.Mural) *Editor {
	return &Editor{
		mural:  m.Clone(),
		Bio:    m.Artist.Bio,
		Images: append([]service.Image{}, m.Images...),
	}
}

// CanAdd reports whether another image slot is allowed.
func (e *Editor) CanAdd() bool {
	return len(e.Images) < service.MaxImages
}

// AddImage appends an empty slot.
func (e *Editor) AddImage() error {
	if !e.CanAdd() {
		return ErrTooManyImages
	}
	e.Images = append(e.Images, service.Image{})
	return nil
}

// RemoveImage drops the slot at i.
func (e *Editor) RemoveImage(i int) error {
	if i < 0 || i >= len(e.Images) {
		return ErrImageIndex
	}
	e.Images = append(e.Images[:i:i], e.Images[i+1:]...)
	return nil
}

// SetImage edits the slot at i.
func (e *Editor) SetImage(i int, url, description string) error {
	if i < 0 || i >= len(e.Images) {
		return ErrImageIndex
	}
	e.Images[i].URL = url
	e.Images[i].Description = description
	return nil
}

// SetPrimary marks slot i as the only primary image.
func (e *Editor) SetPrimary(i int) error {
	if i < 0 || i >= len(e.Images) {
		return ErrImageIndex
	}
	for j := range e.Images {
		e.Images[j].IsPrimary = j == i
	}
	return nil
}

// Save returns the edited mural. Slots whose URL is blank are dropped.
func (e *Editor) Save() service.Mural {
	m := e.mural.Clone()
	m.Artist.Bio = e.Bio
	images := make([]service.Image, 0, len(e.Images))
	for _, img := range e.Images {
		if strings.TrimSpace(img.URL) == "" {
			continue
		}
		images = append(images, img)
	}
	m.Images = images
	return m
}

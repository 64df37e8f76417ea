package panels

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeblew999/plat-murals/internal/service"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func images(n int) []service.Image {
	out := make([]service.Image, n)
	for i := range out {
		out[i] = service.Image{URL: string(rune('a' + i))}
	}
	return out
}

func TestCarouselWraps(t *testing.T) {
	c := NewCarousel(images(3), t0)
	c.Prev(t0)
	assert.Equal(t, 2, c.Index())
	c.Next(t0)
	assert.Equal(t, 0, c.Index())
	assert.Equal(t, "a", c.Current().URL)
}

func TestCarouselKeys(t *testing.T) {
	c := NewCarousel(images(2), t0)
	assert.Equal(t, KeyMoved, c.Key("ArrowRight", t0))
	assert.Equal(t, 1, c.Index())
	assert.Equal(t, KeyMoved, c.Key("ArrowLeft", t0))
	assert.Equal(t, 0, c.Index())
	assert.Equal(t, KeyClose, c.Key("Escape", t0))
	assert.Equal(t, KeyIgnored, c.Key("Enter", t0))

	single := NewCarousel(images(1), t0)
	assert.Equal(t, KeyIgnored, single.Key("ArrowRight", t0))
	assert.Equal(t, KeyClose, single.Key("Escape", t0))
}

func TestCarouselSwipe(t *testing.T) {
	c := NewCarousel(images(3), t0)
	assert.False(t, c.Swipe(50, t0), "threshold is exclusive")
	assert.True(t, c.Swipe(51, t0))
	assert.Equal(t, 1, c.Index())
	assert.True(t, c.Swipe(-80, t0))
	assert.Equal(t, 0, c.Index())
}

func TestCarouselAutoAdvance(t *testing.T) {
	c := NewCarousel(images(2), t0)
	assert.False(t, c.Tick(t0.Add(4*time.Second)))
	assert.True(t, c.Tick(t0.Add(5*time.Second)))
	assert.Equal(t, 1, c.Index())

	// manual navigation pushes the deadline out
	c.Next(t0.Add(7 * time.Second))
	assert.False(t, c.Tick(t0.Add(10*time.Second)))
	assert.True(t, c.Tick(t0.Add(12*time.Second)))

	single := NewCarousel(images(1), t0)
	assert.False(t, single.Tick(t0.Add(time.Hour)))
}

func TestBio(t *testing.T) {
	short := "Painter from Mesa."
	text, more := Bio(short, false)
	assert.Equal(t, short, text)
	assert.False(t, more)

	long := strings.Repeat("é", 301)
	text, more = Bio(long, false)
	assert.True(t, more)
	assert.Equal(t, strings.Repeat("é", 300)+"...", text)

	text, more = Bio(long, true)
	assert.True(t, more)
	assert.Equal(t, long, text)
}

func TestEditorImageLimit(t *testing.T) {
	e := NewEditor(service.Mural{ID: "m", Images: images(4)})
	require.NoError(t, e.AddImage())
	assert.False(t, e.CanAdd())
	assert.ErrorIs(t, e.AddImage(), ErrTooManyImages)
	assert.Len(t, e.Images, 5)
}

func TestEditorSetPrimaryExclusive(t *testing.T) {
	imgs := images(3)
	imgs[0].IsPrimary = true
	e := NewEditor(service.Mural{ID: "m", Images: imgs})
	require.NoError(t, e.SetPrimary(2))
	assert.False(t, e.Images[0].IsPrimary)
	assert.False(t, e.Images[1].IsPrimary)
	assert.True(t, e.Images[2].IsPrimary)
	assert.True(t, imgs[0].IsPrimary, "source record untouched")
	assert.ErrorIs(t, e.SetPrimary(3), ErrImageIndex)
}

func TestEditorSaveDropsBlankURLs(t *testing.T) {
	m := service.Mural{ID: "m", Name: "Tiger", Artist: service.Artist{Name: "A", Bio: "old"}, Images: images(2)}
	e := NewEditor(m)
	e.Bio = "new"
	require.NoError(t, e.AddImage())
	require.NoError(t, e.SetImage(2, "   ", "blank"))
	require.NoError(t, e.RemoveImage(0))

	saved := e.Save()
	assert.Equal(t, "new", saved.Artist.Bio)
	assert.Equal(t, "Tiger", saved.Name)
	require.Len(t, saved.Images, 1)
	assert.Equal(t, "b", saved.Images[0].URL)
	assert.Equal(t, "old", m.Artist.Bio)
	assert.Len(t, m.Images, 2)
}

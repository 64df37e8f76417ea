package humastar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignals(t *testing.T) {
	s, err := ParseSignals([]byte(`{"bio":"hi","index":2,"lat":33.5,"admin":true,"images":[{"url":"a"}]}`))
	require.NoError(t, err)
	assert.Equal(t, "hi", s.String("bio"))
	assert.Equal(t, 2, s.Int("index"))
	assert.Equal(t, 33.5, s.Float("lat"))
	assert.True(t, s.Bool("admin"))
	assert.False(t, s.Has("missing"))
	assert.Empty(t, s.String("index"))

	var images []struct{ URL string }
	require.NoError(t, s.Decode("images", &images))
	assert.Equal(t, "a", images[0].URL)
}

func TestMustParse(t *testing.T) {
	in := &SignalsInput{RawBody: []byte("{")}
	_, err := in.MustParse()
	assert.Error(t, err)

	in = &SignalsInput{}
	s, err := in.MustParse()
	require.NoError(t, err)
	assert.Empty(t, s)
}

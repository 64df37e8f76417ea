package geolocation

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"
	"time"
)

// StaticSource reports one fixed position.
type StaticSource struct {
	Lat, Lng, Accuracy float64
}

// Watch emits the position once and closes when ctx is done.
func (s StaticSource) Watch(ctx context.Context) (<-chan Update, error) {
	ch := make(chan Update, 1)
	ch <- Update{Sample: &Sample{Lat: s.Lat, Lng: s.Lng, Accuracy: s.Accuracy, Timestamp: time.Now()}}
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}

// ChanSource forwards updates pushed by the caller.
type ChanSource struct {
	C chan Update
}

// NewChanSource creates a source with a small buffer.
func NewChanSource() *ChanSource {
	return &ChanSource{C: make(chan Update, 8)}
}

// Watch returns the underlying channel.
func (s *ChanSource) Watch(ctx context.Context) (<-chan Update, error) {
	return s.C, nil
}

// Push sends a sample.
func (s *ChanSource) Push(lat, lng, accuracy float64) {
	s.C <- Update{Sample: &Sample{Lat: lat, Lng: lng, Accuracy: accuracy, Timestamp: time.Now()}}
}

// Fail sends an error.
func (s *ChanSource) Fail(code ErrorCode) {
	s.C <- Update{Err: &PositionError{Code: code}}
}

// ReaderSource reads one fix per line as "lat,lng[,accuracy]". Fields may
// also be separated by spaces. A malformed line is reported as
// PositionUnavailable. The channel closes at end of input.
type ReaderSource struct {
	R io.Reader
}

// Watch starts reading in the background.
func (s ReaderSource) Watch(ctx context.Context) (<-chan Update, error) {
	ch := make(chan Update)
	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(s.R)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			select {
			case ch <- parseLine(line):
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

func parseLine(line string) Update {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) < 2 || len(fields) > 3 {
		return Update{Err: &PositionError{Code: PositionUnavailable}}
	}
	var vals [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Update{Err: &PositionError{Code: PositionUnavailable}}
		}
		vals[i] = v
	}
	if vals[0] < -90 || vals[0] > 90 || vals[1] < -180 || vals[1] > 180 {
		return Update{Err: &PositionError{Code: PositionUnavailable}}
	}
	return Update{Sample: &Sample{Lat: vals[0], Lng: vals[1], Accuracy: vals[2], Timestamp: time.Now()}}
}

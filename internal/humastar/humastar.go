// Package humastar bridges Huma streaming responses with the Datastar SSE
// protocol: handlers return a *huma.StreamResponse and write element and
// signal patches through [SSE].
package humastar

import (
	"encoding/json"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/joeblew999/plat-murals/internal/templates"
)

// Handler is an embeddable base for handlers that answer with Datastar SSE.
type Handler struct {
	Renderer *templates.Renderer
}

// Stream returns a StreamResponse that calls fn with a ready SSE helper.
func (h *Handler) Stream(fn func(sse SSE)) *huma.StreamResponse {
	return &huma.StreamResponse{
		Body: func(humaCtx huma.Context) {
			fn(NewSSE(humaCtx))
		},
	}
}

// SSE wraps a Datastar generator with the patches the UI uses.
type SSE struct {
	*datastar.ServerSentEventGenerator
}

// NewSSE creates an SSE helper from a Huma streaming context.
func NewSSE(ctx huma.Context) SSE {
	r, w := humago.Unwrap(ctx)
	return SSE{datastar.NewSSE(w, r)}
}

// Patch replaces the inner HTML at selector.
func (s SSE) Patch(html, selector string) {
	s.PatchElements(html,
		datastar.WithSelector(selector),
		datastar.WithModeInner(),
	)
}

// Replace replaces the outer HTML at selector.
func (s SSE) Replace(html, selector string) {
	s.PatchElements(html,
		datastar.WithSelector(selector),
		datastar.WithModeOuter(),
	)
}

// Error sets the error signal.
func (s SSE) Error(msg string) {
	s.MarshalAndPatchSignals(map[string]any{"error": msg})
}

// Success sets the success signal.
func (s SSE) Success(msg string) {
	s.MarshalAndPatchSignals(map[string]any{"success": msg})
}

// Signals patches arbitrary signals.
func (s SSE) Signals(signals map[string]any) {
	s.MarshalAndPatchSignals(signals)
}

// Signals is the flat JSON object Datastar posts.
type Signals map[string]any

// ParseSignals parses a raw request body.
func ParseSignals(body []byte) (Signals, error) {
	signals := Signals{}
	if len(body) == 0 {
		return signals, nil
	}
	if err := json.Unmarshal(body, &signals); err != nil {
		return nil, err
	}
	return signals, nil
}

// String returns a string signal, or "".
func (s Signals) String(key string) string {
	v, _ := s[key].(string)
	return v
}

// Int returns a numeric signal truncated to int, or 0.
func (s Signals) Int(key string) int {
	switch n := s[key].(type) {
	case float64:
		return int(n)
	case int:
		return n
	}
	return 0
}

// Float returns a numeric signal, or 0.
func (s Signals) Float(key string) float64 {
	v, _ := s[key].(float64)
	return v
}

// Bool returns a bool signal, or false.
func (s Signals) Bool(key string) bool {
	v, _ := s[key].(bool)
	return v
}

// Has reports whether key was sent.
func (s Signals) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Decode re-marshals the signal under key into v.
func (s Signals) Decode(key string, v any) error {
	raw, err := json.Marshal(s[key])
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

// EmptyInput is the input for handlers without parameters.
type EmptyInput struct{}

// SignalsInput captures the raw body so signals can be parsed before
// streaming starts.
type SignalsInput struct {
	RawBody []byte
}

// MustParse parses signals or returns a Huma 400 error.
func (i *SignalsInput) MustParse() (Signals, error) {
	signals, err := ParseSignals(i.RawBody)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid request data: " + err.Error())
	}
	return signals, nil
}

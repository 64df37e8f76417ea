// Package directions fetches walking routes from the Mapbox Directions API.
package directions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/joeblew999/plat-murals/internal/geo"
)

// DefaultBaseURL is the public Mapbox API host.
const DefaultBaseURL = "https://api.mapbox.com"

// ErrNoRoute is returned when the provider answers with zero routes.
var ErrNoRoute = errors.New("no route found")

// Maneuver describes a turn.
type Maneuver struct {
	Type     string `json:"type" doc:"Maneuver type, e.g. turn"`
	Modifier string `json:"modifier,omitempty" doc:"Maneuver modifier, e.g. left"`
}

// Step is one turn-by-turn instruction.
type Step struct {
	Instruction string    `json:"instruction" doc:"Human-readable instruction"`
	Distance    float64   `json:"distance" doc:"Step distance in meters"`
	Duration    float64   `json:"duration" doc:"Step duration in seconds"`
	Maneuver    *Maneuver `json:"maneuver,omitempty" doc:"Maneuver descriptor"`
}

// Route is the first route returned by the provider.
type Route struct {
	Distance float64        `json:"distance" doc:"Total distance in meters"`
	Duration float64        `json:"duration" doc:"Total duration in seconds"`
	Geometry orb.LineString `json:"-"`
	Steps    []Step         `json:"steps" doc:"Ordered instructions"`
}

// Client calls the walking profile of the Directions API.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// New creates a client. An empty baseURL selects DefaultBaseURL.
func New(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), Token: token, HTTPClient: http.DefaultClient}
}

// wire format of the provider response
type response struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance float64          `json:"distance"`
		Duration float64          `json:"duration"`
		Geometry *geojson.Geometry `json:"geometry"`
		Legs     []struct {
			Steps []struct {
				Distance float64 `json:"distance"`
				Duration float64 `json:"duration"`
				Maneuver struct {
					Instruction string `json:"instruction"`
					Type        string `json:"type"`
					Modifier    string `json:"modifier"`
				} `json:"maneuver"`
			} `json:"steps"`
		} `json:"legs"`
	} `json:"routes"`
}

// Walking requests a walking route from one coordinate to another. Only the
// first route is returned. There is no retry; cancellation and timeouts come
// from ctx.
func (c *Client) Walking(ctx context.Context, from, to geo.Coordinate) (Route, error) {
	coords := fmt.Sprintf("%s,%s;%s,%s",
		formatFloat(from.Lng), formatFloat(from.Lat),
		formatFloat(to.Lng), formatFloat(to.Lat))

	q := url.Values{}
	q.Set("steps", "true")
	q.Set("geometries", "geojson")
	q.Set("access_token", c.Token)
	endpoint := c.BaseURL + "/directions/v5/mapbox/walking/" + coords + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Route{}, fmt.Errorf("building directions request: %w", err)
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return Route{}, fmt.Errorf("directions request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Route{}, fmt.Errorf("directions API error: %s", http.StatusText(resp.StatusCode))
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Route{}, fmt.Errorf("decoding directions: %w", err)
	}
	if len(body.Routes) == 0 {
		return Route{}, ErrNoRoute
	}

	first := body.Routes[0]
	route := Route{Distance: first.Distance, Duration: first.Duration, Steps: []Step{}}
	if first.Geometry != nil {
		if ls, ok := first.Geometry.Geometry().(orb.LineString); ok {
			route.Geometry = ls
		}
	}
	for _, leg := range first.Legs {
		for _, st := range leg.Steps {
			step := Step{
				Instruction: st.Maneuver.Instruction,
				Distance:    st.Distance,
				Duration:    st.Duration,
			}
			if st.Maneuver.Type != "" {
				step.Maneuver = &Maneuver{Type: st.Maneuver.Type, Modifier: st.Maneuver.Modifier}
			}
			route.Steps = append(route.Steps, step)
		}
	}
	return route, nil
}

// Coordinates returns the route line as [lng, lat] pairs.
func (r Route) Coordinates() [][2]float64 {
	out := make([][2]float64, len(r.Geometry))
	for i, p := range r.Geometry {
		out[i] = [2]float64{p.Lon(), p.Lat()}
	}
	return out
}

// StepLine is a display-ready step.
type StepLine struct {
	Icon        string `json:"icon" doc:"Maneuver icon name"`
	Instruction string `json:"instruction" doc:"Instruction text"`
	Distance    string `json:"distance,omitempty" doc:"Formatted step distance, empty on the final step"`
}

// Summary is a display-ready route.
type Summary struct {
	Distance string     `json:"distance" doc:"Formatted total distance"`
	Duration string     `json:"duration" doc:"Formatted total duration"`
	Steps    []StepLine `json:"steps" doc:"Formatted steps"`
}

// Summary formats the route for the directions panel. The final step is the
// arrival and carries no distance.
func (r Route) Summary() Summary {
	s := Summary{
		Distance: geo.FormatDistance(r.Distance),
		Duration: geo.FormatDuration(r.Duration),
		Steps:    make([]StepLine, len(r.Steps)),
	}
	for i, st := range r.Steps {
		line := StepLine{Instruction: st.Instruction}
		if st.Maneuver != nil {
			line.Icon = geo.ManeuverIcon(st.Maneuver.Type, st.Maneuver.Modifier)
		} else {
			line.Icon = geo.ManeuverIcon("", "")
		}
		if i < len(r.Steps)-1 {
			line.Distance = geo.FormatDistance(st.Distance)
		}
		s.Steps[i] = line
	}
	return s
}

func formatFloat(f float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.7f", f), "0"), ".")
}

package mapview

import (
	"encoding/json"
	"slices"
)

// StyleDocument is a MapHandle that records calls and renders them as a
// style document for a browser map to load. The base style URL is carried
// in metadata because a style document cannot import another style.
type StyleDocument struct {
	BaseURL     string
	camera      Camera
	sources     map[string]Source
	layers      []Layer
	interactive map[string]bool
}

// NewStyleDocument creates an empty document.
func NewStyleDocument() *StyleDocument {
	return &StyleDocument{
		sources:     map[string]Source{},
		interactive: map[string]bool{},
	}
}

func (d *StyleDocument) SetStyle(url string) {
	d.BaseURL = url
}

func (d *StyleDocument) AddSource(id string, src Source) {
	d.sources[id] = src
}

func (d *StyleDocument) AddLayer(layer Layer) {
	if i := d.layerIndex(layer.ID); i >= 0 {
		d.layers[i] = layer
		return
	}
	d.layers = append(d.layers, layer)
}

func (d *StyleDocument) SetCamera(cam Camera) { d.camera = cam }

func (d *StyleDocument) Camera() Camera { return d.camera }

func (d *StyleDocument) SetInteractive(layerID string, interactive bool) {
	d.interactive[layerID] = interactive
}

// Interactive reports whether a layer receives clicks. Layers default to
// interactive.
func (d *StyleDocument) Interactive(layerID string) bool {
	v, ok := d.interactive[layerID]
	return !ok || v
}

// LayerIDs returns layer ids in drawing order.
func (d *StyleDocument) LayerIDs() []string {
	ids := make([]string, len(d.layers))
	for i, l := range d.layers {
		ids[i] = l.ID
	}
	return ids
}

// Layer returns the layer with the given id.
func (d *StyleDocument) Layer(id string) (Layer, bool) {
	if i := d.layerIndex(id); i >= 0 {
		return d.layers[i], true
	}
	return Layer{}, false
}

// Source returns the source with the given id.
func (d *StyleDocument) Source(id string) (Source, bool) {
	s, ok := d.sources[id]
	return s, ok
}

func (d *StyleDocument) layerIndex(id string) int {
	return slices.IndexFunc(d.layers, func(l Layer) bool { return l.ID == id })
}

// Style is the rendered document.
type Style struct {
	Version  int               `json:"version"`
	Name     string            `json:"name"`
	Metadata map[string]any    `json:"metadata"`
	Center   [2]float64        `json:"center"`
	Zoom     float64           `json:"zoom"`
	Pitch    float64           `json:"pitch"`
	Bearing  float64           `json:"bearing"`
	Sources  map[string]Source `json:"sources"`
	Layers   []Layer           `json:"layers"`
}

// Render builds the style document. Non-interactive layers carry
// "murals:interactive": false in their metadata.
func (d *StyleDocument) Render() Style {
	layers := make([]Layer, len(d.layers))
	for i, l := range d.layers {
		if !d.Interactive(l.ID) {
			meta := map[string]any{}
			for k, v := range l.Metadata {
				meta[k] = v
			}
			meta["murals:interactive"] = false
			l.Metadata = meta
		}
		layers[i] = l
	}
	sources := make(map[string]Source, len(d.sources))
	for id, s := range d.sources {
		sources[id] = s
	}
	return Style{
		Version:  8,
		Name:     "Verde Station Murals",
		Metadata: map[string]any{"murals:base-style": d.BaseURL},
		Center:   [2]float64{d.camera.Center.Lng, d.camera.Center.Lat},
		Zoom:     d.camera.Zoom,
		Pitch:    d.camera.Pitch,
		Bearing:  d.camera.Bearing,
		Sources:  sources,
		Layers:   layers,
	}
}

// MarshalJSON renders the document.
func (d *StyleDocument) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Render())
}

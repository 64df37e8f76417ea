package mapview

import (
	"github.com/joeblew999/plat-murals/internal/capture"
	"github.com/joeblew999/plat-murals/internal/directions"
	"github.com/joeblew999/plat-murals/internal/geo"
	"github.com/joeblew999/plat-murals/internal/service"
)

// Panel is the detail panel variant opened for a marker.
type Panel int

const (
	PanelNone Panel = iota
	PanelView
	PanelEdit
)

func (p Panel) String() string {
	switch p {
	case PanelView:
		return "view"
	case PanelEdit:
		return "edit"
	default:
		return "none"
	}
}

// Options configures a Controller.
type Options struct {
	StyleURLs   map[StyleKind]string
	AccentColor string
	Camera      Camera
}

// DefaultOptions returns the site defaults.
func DefaultOptions() Options {
	return Options{
		StyleURLs:   DefaultStyleURLs,
		AccentColor: DefaultAccentColor,
		Camera:      VerdeStation,
	}
}

// Controller holds the view state of one map. It is not safe for
// concurrent use.
type Controller struct {
	m    MapHandle
	opts Options

	admin    bool
	style    StyleKind
	spread   bool
	session  capture.Session
	selected string
	panel    Panel

	murals   []service.Mural
	route    *directions.Route
	user     *geo.Coordinate
	onMove   func(id string, lat, lng float64)
	composed bool
}

// NewController applies the initial style and camera to m.
func NewController(m MapHandle, opts Options) *Controller {
	if opts.StyleURLs == nil {
		opts.StyleURLs = DefaultStyleURLs
	}
	if opts.AccentColor == "" {
		opts.AccentColor = DefaultAccentColor
	}
	if opts.Camera == (Camera{}) {
		opts.Camera = VerdeStation
	}
	c := &Controller{m: m, opts: opts, style: StyleDark}
	m.SetStyle(opts.StyleURLs[c.style])
	m.SetCamera(opts.Camera)
	return c
}

// OnMarkerMoved registers the callback fired when an admin drops a marker.
func (c *Controller) OnMarkerMoved(fn func(id string, lat, lng float64)) {
	c.onMove = fn
}

// SetAdmin switches admin mode. Leaving admin mode ends any capture.
func (c *Controller) SetAdmin(admin bool) {
	c.admin = admin
	if !admin && c.session.Active {
		c.session = c.session.Toggle()
		c.refreshCapture()
	}
}

func (c *Controller) Admin() bool { return c.admin }

// MarkerDraggable reports whether markers accept drags.
func (c *Controller) MarkerDraggable() bool { return c.admin }

// CaptureControlsVisible reports whether the building tools are shown.
func (c *Controller) CaptureControlsVisible() bool { return c.admin }

// Style returns the current style kind.
func (c *Controller) Style() StyleKind { return c.style }

// Session returns the building capture session.
func (c *Controller) Session() capture.Session { return c.session }

// LoadBuildings seeds the capture session with saved buildings.
func (c *Controller) LoadBuildings(buildings []service.Building) {
	c.session = capture.Loaded(buildings)
	c.refresh(SourceCustom, geoJSONSource(BuildingsCollection(c.session.Committed)))
}

// SetMurals replaces the marker data.
func (c *Controller) SetMurals(murals []service.Mural) {
	c.murals = murals
	c.refreshMarkers()
}

// SetSpread toggles marker de-overlap.
func (c *Controller) SetSpread(on bool) {
	c.spread = on
	c.refreshMarkers()
}

// SetRoute shows a walking route, or clears it when r is nil.
func (c *Controller) SetRoute(r *directions.Route) {
	c.route = r
	c.refresh(SourceRoute, geoJSONSource(routeCollection(r)))
}

// SetUserPosition moves the location puck, or hides it when p is nil.
func (c *Controller) SetUserPosition(p *geo.Coordinate) {
	c.user = p
	c.refresh(SourceUser, geoJSONSource(pointCollection(p)))
}

// OpenPanel selects a mural and returns the panel to show.
func (c *Controller) OpenPanel(m service.Mural) Panel {
	c.selected = m.ID
	if c.admin {
		c.panel = PanelEdit
	} else {
		c.panel = PanelView
	}
	c.refreshMarkers()
	return c.panel
}

// ClosePanel clears the selection.
func (c *Controller) ClosePanel() {
	c.selected = ""
	c.panel = PanelNone
	c.refreshMarkers()
}

// Selected returns the selected mural id and open panel.
func (c *Controller) Selected() (string, Panel) { return c.selected, c.panel }

// ToggleCapture starts or stops building capture. Only admins can capture.
func (c *Controller) ToggleCapture() bool {
	if !c.admin {
		return false
	}
	c.session = c.session.Toggle()
	c.refreshCapture()
	return true
}

// HandleClick routes a map click. While capturing, the point is added to
// the session and true is returned; otherwise the click is ignored.
func (c *Controller) HandleClick(p geo.Coordinate) bool {
	if !c.session.Active {
		return false
	}
	c.session = c.session.AddPoint(p.Lng, p.Lat)
	c.refresh(SourceCapture, geoJSONSource(previewCollection(c.session.Preview())))
	return true
}

// UndoCapture removes the last captured point.
func (c *Controller) UndoCapture() {
	c.session = c.session.Undo()
	c.refresh(SourceCapture, geoJSONSource(previewCollection(c.session.Preview())))
}

// CancelCapture drops the pending points.
func (c *Controller) CancelCapture() {
	c.session = c.session.Cancel()
	c.refresh(SourceCapture, geoJSONSource(previewCollection(c.session.Preview())))
}

// CommitCapture turns the pending points into a building.
func (c *Controller) CommitCapture(height float64) (service.Building, error) {
	next, b, err := c.session.Commit(height)
	if err != nil {
		return service.Building{}, err
	}
	c.session = next
	c.refreshCapture()
	c.refresh(SourceCustom, geoJSONSource(BuildingsCollection(c.session.Committed)))
	return b, nil
}

// HandleMarkerDragEnd reports a dropped marker. Outside admin mode the drop
// is ignored and false is returned.
func (c *Controller) HandleMarkerDragEnd(id string, lat, lng float64) bool {
	if !c.admin {
		return false
	}
	if c.onMove != nil {
		c.onMove(id, lat, lng)
	}
	return true
}

// SetStyle switches the base style while keeping the camera and every
// custom source and layer.
func (c *Controller) SetStyle(kind StyleKind) {
	cam := c.m.Camera()
	c.style = kind
	c.m.SetStyle(c.opts.StyleURLs[kind])
	c.m.SetCamera(cam)
	c.Compose()
}

// SetPitch tilts the camera and returns the applied pitch.
func (c *Controller) SetPitch(p float64) float64 {
	p = ClampPitch(p)
	cam := c.m.Camera()
	cam.Pitch = p
	c.m.SetCamera(cam)
	return p
}

// MarkerPositions returns display positions for the current murals.
func (c *Controller) MarkerPositions() []geo.Coordinate {
	return MarkerPositions(c.murals, c.spread)
}

// Compose adds every source and layer in drawing order: base buildings,
// custom buildings, capture preview, route, user puck, markers.
func (c *Controller) Compose() {
	c.m.AddSource(SourceBase, Source{Type: "vector", URL: "mapbox://mapbox.mapbox-streets-v8"})
	c.m.AddLayer(baseBuildingsLayer())

	c.m.AddSource(SourceCustom, geoJSONSource(BuildingsCollection(c.session.Committed)))
	c.m.AddLayer(customBuildingsLayer(c.opts.AccentColor))

	c.m.AddSource(SourceCapture, geoJSONSource(previewCollection(c.session.Preview())))
	for _, l := range captureLayers(c.opts.AccentColor) {
		c.m.AddLayer(l)
	}

	c.m.AddSource(SourceRoute, geoJSONSource(routeCollection(c.route)))
	c.m.AddLayer(routeLayer())

	c.m.AddSource(SourceUser, geoJSONSource(pointCollection(c.user)))
	c.m.AddLayer(userPuckLayer())

	c.m.AddSource(SourceMarkers, geoJSONSource(MarkersCollection(c.murals, c.MarkerPositions(), c.selected)))
	for _, l := range markerLayers() {
		c.m.AddLayer(l)
	}

	c.applyInteractivity()
	c.composed = true
}

// feature and marker layers ignore clicks while capturing so that clicks
// land on the map instead
func (c *Controller) applyInteractivity() {
	interactive := !c.session.Active
	for _, id := range []string{LayerBaseBuildings, LayerCustomBuildings, LayerMarkers, LayerMarkerLabels} {
		c.m.SetInteractive(id, interactive)
	}
}

func (c *Controller) refreshCapture() {
	c.refresh(SourceCapture, geoJSONSource(previewCollection(c.session.Preview())))
	if c.composed {
		c.applyInteractivity()
	}
}

func (c *Controller) refreshMarkers() {
	c.refresh(SourceMarkers, geoJSONSource(MarkersCollection(c.murals, c.MarkerPositions(), c.selected)))
}

// refresh updates a source once the layers exist.
func (c *Controller) refresh(id string, src Source) {
	if c.composed {
		c.m.AddSource(id, src)
	}
}

// NearestMural returns the mural closest to position.
func NearestMural(position geo.Coordinate, murals []service.Mural) (service.Mural, float64, bool) {
	coords := make([]geo.Coordinate, len(murals))
	for i, m := range murals {
		coords[i] = m.Coordinate()
	}
	idx, meters, ok := geo.Nearest(position, coords)
	if !ok {
		return service.Mural{}, 0, false
	}
	return murals[idx], meters, true
}

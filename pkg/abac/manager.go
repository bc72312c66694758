package abac

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mohae/deepcopy"

	"github.com/ha1tch/abac-toolkit/pkg/interp"
)

// Warnings attached to fit results.
const (
	WarnInsufficientPoints = "Insufficient points for interpolation (minimum 2 required)"
	WarnAkimaFallback      = "Akima requires at least 5 points, falling back to PCHIP"
	WarnSplineFallback     = "Natural spline degenerate, fell back to PCHIP"
	WarnOutOfAxes          = "Some fitted points are outside the defined axes bounds"
	warnHighRMSE           = "High RMSE value (%.2f), consider adjusting parameters"
	warnFitFailed          = "Interpolation failed: %v"

	// HighRMSE is the RMSE above which a fit is reported as poor.
	HighRMSE = 10.0
)

// DefaultPalette is cycled through when a curve is added without a color.
var DefaultPalette = []string{
	"#e6194b", "#3cb44b", "#4363d8", "#f58231", "#911eb4",
	"#42d4f4", "#f032e6", "#9a6324", "#800000", "#000075",
}

// FitOptions controls FitCurve. Zero values take the defaults: natural
// spline, 200 points, no post-processing.
type FitOptions struct {
	Method    Method
	Monotonic bool
	Smoothing float64
	NumPoints int
}

// DefaultFitOptions returns the options FitCurve uses for zero values.
func DefaultFitOptions() FitOptions {
	return FitOptions{Method: MethodNaturalSpline, NumPoints: 200}
}

func (o FitOptions) withDefaults() FitOptions {
	def := DefaultFitOptions()
	if o.Method == "" {
		o.Method = def.Method
	}
	if o.NumPoints <= 0 {
		o.NumPoints = def.NumPoints
	}
	return o
}

// FitResult reports one fit.
type FitResult struct {
	CurveID        string
	OriginalPoints []Point
	FittedPoints   []Point
	RMSE           float64
	Warnings       []string
	Method         Method
}

// Manager owns the curves and axes of one chart session. It is not safe for
// concurrent use.
type Manager struct {
	curves     map[string]*Curve
	order      []string
	axes       *AxesConfig
	colorIndex int
	now        func() time.Time
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{
		curves: make(map[string]*Curve),
		order:  make([]string, 0),
		now:    time.Now,
	}
}

// SetAxesConfig replaces the current axes.
func (m *Manager) SetAxesConfig(cfg AxesConfig) {
	m.axes = &cfg
}

// AxesConfig returns the current axes, or nil when unset.
func (m *Manager) AxesConfig() *AxesConfig {
	if m.axes == nil {
		return nil
	}
	cfg := *m.axes
	return &cfg
}

// AddCurve adds an empty curve and returns its id. An empty name becomes
// "Courbe N"; an empty or invalid color takes the next palette entry.
func (m *Manager) AddCurve(name, color string) string {
	return m.AddCurveFrom(Curve{Name: name, Color: color})
}

// AddCurveFrom adds a curve built from c under a fresh id. Name and color
// default as in AddCurve; raw points get ids and are sorted by x. An unset
// parameter or wind direction is read from the given name, as MigrateCurve
// does.
func (m *Manager) AddCurveFrom(c Curve) string {
	id := uuid.NewString()
	curve := &Curve{
		ID:            id,
		Name:          c.Name,
		Color:         m.resolveColor(c.Color),
		Points:        make([]Point, 0, len(c.Points)),
		WindDirection: c.WindDirection,
		Fitted:        c.Fitted,
	}
	if c.Parameter != nil {
		curve.Parameter = Float(*c.Parameter)
	}
	for _, p := range c.Points {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		curve.Points = append(curve.Points, p)
	}
	sortPoints(curve.Points)

	if curve.Name == "" {
		curve.Name = fmt.Sprintf("Courbe %d", len(m.order)+1)
	} else if !curve.IsIntermediate() {
		MigrateCurve(curve)
	}

	m.curves[id] = curve
	m.order = append(m.order, id)
	return id
}

// resolveColor normalizes a hex color, or picks the next palette color.
func (m *Manager) resolveColor(color string) string {
	if color != "" {
		if c, err := colorful.Hex(color); err == nil {
			return c.Hex()
		}
	}
	color = DefaultPalette[m.colorIndex%len(DefaultPalette)]
	m.colorIndex++
	return color
}

// RemoveCurve deletes a curve.
func (m *Manager) RemoveCurve(id string) error {
	if _, ok := m.curves[id]; !ok {
		return curveNotFound(id)
	}
	delete(m.curves, id)
	for i, o := range m.order {
		if o == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// Curve returns a copy of the curve with the given id.
func (m *Manager) Curve(id string) (Curve, bool) {
	c, ok := m.curves[id]
	if !ok {
		return Curve{}, false
	}
	return deepcopy.Copy(*c).(Curve), true
}

// Curves returns copies of all curves in insertion order.
func (m *Manager) Curves() []Curve {
	out := make([]Curve, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, deepcopy.Copy(*m.curves[id]).(Curve))
	}
	return out
}

// Len returns the number of curves.
func (m *Manager) Len() int {
	return len(m.order)
}

// AddPoint inserts p into the curve, keeping points sorted by x. A missing
// point id is generated. The new id is returned.
func (m *Manager) AddPoint(curveID string, p Point) (string, error) {
	c, ok := m.curves[curveID]
	if !ok {
		return "", curveNotFound(curveID)
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	c.Points = append(c.Points, p)
	sortPoints(c.Points)
	return p.ID, nil
}

// RemovePoint deletes a point from a curve.
func (m *Manager) RemovePoint(curveID, pointID string) error {
	c, ok := m.curves[curveID]
	if !ok {
		return curveNotFound(curveID)
	}
	for i, p := range c.Points {
		if p.ID == pointID {
			c.Points = append(c.Points[:i], c.Points[i+1:]...)
			return nil
		}
	}
	return pointNotFound(pointID)
}

// UpdatePoint moves a point, keeping its id, and re-sorts the curve.
func (m *Manager) UpdatePoint(curveID, pointID string, p Point) error {
	c, ok := m.curves[curveID]
	if !ok {
		return curveNotFound(curveID)
	}
	for i := range c.Points {
		if c.Points[i].ID == pointID {
			p.ID = pointID
			c.Points[i] = p
			sortPoints(c.Points)
			return nil
		}
	}
	return pointNotFound(pointID)
}

// SetParameter sets the family parameter of a curve.
func (m *Manager) SetParameter(curveID string, v float64) error {
	c, ok := m.curves[curveID]
	if !ok {
		return curveNotFound(curveID)
	}
	c.Parameter = Float(v)
	return nil
}

// FitCurve fits a curve's raw points and stores the result on the curve.
// Fewer than two points return the raw points with a warning. Kernel
// failures never propagate: they come back as a warning with the raw points
// as the fit, and the stored fit is left untouched.
func (m *Manager) FitCurve(curveID string, opts FitOptions) (*FitResult, error) {
	c, ok := m.curves[curveID]
	if !ok {
		return nil, curveNotFound(curveID)
	}
	opts = opts.withDefaults()

	res := &FitResult{
		CurveID:        curveID,
		OriginalPoints: clonePoints(c.Points),
		Method:         opts.Method,
	}
	if len(c.Points) < 2 {
		res.FittedPoints = clonePoints(c.Points)
		res.Warnings = []string{WarnInsufficientPoints}
		return res, nil
	}

	if opts.Method == MethodAkima && len(c.Points) < interp.AkimaMinPoints {
		res.Warnings = append(res.Warnings, WarnAkimaFallback)
	}

	fitted, used, err := runKernel(opts.Method, c.Points, opts.NumPoints)
	if err != nil {
		res.FittedPoints = clonePoints(c.Points)
		res.Warnings = append(res.Warnings, fmt.Sprintf(warnFitFailed, err))
		return res, nil
	}
	if opts.Method == MethodNaturalSpline && used == MethodPCHIP {
		res.Warnings = append(res.Warnings, WarnSplineFallback)
	}
	if len(fitted) == 0 {
		fitted = append([]Point(nil), c.Points...)
	}

	if opts.Monotonic {
		increasing := c.Points[len(c.Points)-1].Y > c.Points[0].Y
		fitted = fromKernel(interp.EnforceMonotonic(toKernel(fitted), increasing))
	}
	if opts.Smoothing > 0 {
		fitted = fromKernel(interp.Smooth(toKernel(fitted), opts.Smoothing))
	}

	rmse := interp.RMSE(toKernel(c.Points), toKernel(fitted))
	if rmse > HighRMSE {
		res.Warnings = append(res.Warnings, fmt.Sprintf(warnHighRMSE, rmse))
	}
	if m.axes != nil && PointsOutOfBounds(fitted, *m.axes, 0) {
		res.Warnings = append(res.Warnings, WarnOutOfAxes)
	}

	c.Fitted = &FittedResult{Points: fitted, RMSE: rmse, Method: used}
	res.FittedPoints = clonePoints(fitted)
	res.RMSE = rmse
	res.Method = used
	return res, nil
}

// runKernel calls the interpolation kernel and turns a panic into an error.
func runKernel(method Method, points []Point, n int) (out []Point, used Method, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	fitted, used, err := interp.Fit(method, toKernel(points), n)
	if err != nil {
		return nil, method, err
	}
	return fromKernel(fitted), used, nil
}

// FitAll fits every curve with the same options, in insertion order.
func (m *Manager) FitAll(opts FitOptions) map[string]*FitResult {
	results := make(map[string]*FitResult, len(m.order))
	for _, id := range m.order {
		res, err := m.FitCurve(id, opts)
		if err != nil {
			continue
		}
		results[id] = res
	}
	return results
}

// IDs returns curve ids in insertion order.
func (m *Manager) IDs() []string {
	return append([]string(nil), m.order...)
}

// SerializeModel snapshots the session. Axes must be set.
func (m *Manager) SerializeModel() (*Model, error) {
	if m.axes == nil {
		return nil, fmt.Errorf("serialize model: axes configuration not set: %w", ErrInvalidState)
	}
	ts := m.now().UTC().Format(time.RFC3339)
	return &Model{
		Version:  ModelVersion,
		Axes:     m.AxesConfig(),
		Curves:   m.Curves(),
		Metadata: Metadata{CreatedAt: ts, UpdatedAt: ts},
	}, nil
}

// LoadModel replaces the session with the model's axes and curves. Curves
// keep their ids.
func (m *Manager) LoadModel(model *Model) {
	m.Clear()
	if model == nil {
		return
	}
	if model.Axes != nil {
		m.SetAxesConfig(*model.Axes)
	}
	m.install(model.Curves)
}

// LoadGraph replaces the session with a graph's axes and curves.
func (m *Manager) LoadGraph(g *GraphConfig) {
	m.LoadModel(&Model{Axes: g.Axes, Curves: g.Curves})
}

func (m *Manager) install(curves []Curve) {
	for i := range curves {
		c := deepcopy.Copy(curves[i]).(Curve)
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		if !c.IsIntermediate() {
			MigrateCurve(&c)
		}
		if _, dup := m.curves[c.ID]; !dup {
			m.order = append(m.order, c.ID)
		}
		m.curves[c.ID] = &c
	}
}

// ExportGraph returns a GraphConfig holding independent copies of the
// session's curves and axes, with its reference edge set by MigrateGraph.
func (m *Manager) ExportGraph(id, name string) GraphConfig {
	g := GraphConfig{
		ID:     id,
		Name:   name,
		Axes:   m.AxesConfig(),
		Curves: m.Curves(),
	}
	MigrateGraph(&g)
	return g
}

// FitGraph fits every curve of g in place with the same options and returns
// the results by curve id.
func FitGraph(g *GraphConfig, opts FitOptions) map[string]*FitResult {
	m := NewManager()
	m.LoadGraph(g)
	results := m.FitAll(opts)
	g.Curves = m.Curves()
	return results
}

// Clear removes every curve and the axes.
func (m *Manager) Clear() {
	m.curves = make(map[string]*Curve)
	m.order = m.order[:0]
	m.axes = nil
}

func clonePoints(points []Point) []Point {
	return append([]Point(nil), points...)
}

func sortPoints(points []Point) {
	sort.SliceStable(points, func(i, j int) bool { return points[i].X < points[j].X })
}

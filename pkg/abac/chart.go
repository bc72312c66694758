package abac

// ChartRef is the handle an editing or rendering layer drives a chart
// session through.
type ChartRef interface {
	AddPoint(curveID string, p Point) (string, error)
	RemovePoint(curveID, pointID string) error
	UpdatePoint(curveID, pointID string, p Point) error
	FitCurve(curveID string, opts FitOptions) (*FitResult, error)
	FitAll() map[string]*FitResult
	Curves() []Curve
	AddCurve(c Curve) string
	RemoveCurve(curveID string) error
	Clear()
}

// NewChart starts a session on a fresh Manager with the given axes.
func NewChart(axes AxesConfig) ChartRef {
	m := NewManager()
	m.SetAxesConfig(axes)
	return m.ChartRef()
}

// ChartRef returns a handle bound to m.
func (m *Manager) ChartRef() ChartRef {
	return &chartRef{m: m}
}

type chartRef struct {
	m *Manager
}

func (r *chartRef) AddPoint(curveID string, p Point) (string, error) {
	return r.m.AddPoint(curveID, p)
}

func (r *chartRef) RemovePoint(curveID, pointID string) error {
	return r.m.RemovePoint(curveID, pointID)
}

func (r *chartRef) UpdatePoint(curveID, pointID string, p Point) error {
	return r.m.UpdatePoint(curveID, pointID, p)
}

func (r *chartRef) FitCurve(curveID string, opts FitOptions) (*FitResult, error) {
	return r.m.FitCurve(curveID, opts)
}

func (r *chartRef) FitAll() map[string]*FitResult {
	return r.m.FitAll(FitOptions{})
}

func (r *chartRef) Curves() []Curve {
	return r.m.Curves()
}

// AddCurve ignores c.ID and adds each raw point through AddPoint.
func (r *chartRef) AddCurve(c Curve) string {
	points := c.Points
	c.Points = nil
	id := r.m.AddCurveFrom(c)
	for _, p := range points {
		// The curve was just created.
		_, _ = r.m.AddPoint(id, p)
	}
	return id
}

func (r *chartRef) RemoveCurve(curveID string) error {
	return r.m.RemoveCurve(curveID)
}

func (r *chartRef) Clear() {
	r.m.Clear()
}

package aggregate

import (
	"fmt"
	"math"

	"github.com/gustycube/neoview/internal/neo"
)

// Metric is a numeric attribute of a record that can be ranked or summarized.
type Metric int

const (
	DiameterMin Metric = iota + 1
	DiameterMax
	DiameterAvg
	Velocity
	MissDistance
	AbsoluteMagnitude
)

var metricNames = map[Metric]string{
	DiameterMin:       "diameter_min",
	DiameterMax:       "diameter_max",
	DiameterAvg:       "diameter_avg",
	Velocity:          "velocity",
	MissDistance:      "miss_distance",
	AbsoluteMagnitude: "absolute_magnitude",
}

var metricAccessors = map[Metric]func(neo.Record) float64{
	DiameterMin:       func(r neo.Record) float64 { return r.DiameterMin },
	DiameterMax:       func(r neo.Record) float64 { return r.DiameterMax },
	DiameterAvg:       neo.Record.DiameterAvg,
	Velocity:          func(r neo.Record) float64 { return r.Velocity },
	MissDistance:      func(r neo.Record) float64 { return r.MissDistance },
	AbsoluteMagnitude: func(r neo.Record) float64 { return r.AbsoluteMagnitude },
}

// Metrics lists every supported metric in declaration order.
func Metrics() []Metric {
	return []Metric{DiameterMin, DiameterMax, DiameterAvg, Velocity, MissDistance, AbsoluteMagnitude}
}

// ParseMetric resolves a metric by its record field name.
func ParseMetric(name string) (Metric, error) {
	for m, n := range metricNames {
		if n == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMetric, name)
}

func (m Metric) String() string {
	if n, ok := metricNames[m]; ok {
		return n
	}
	return fmt.Sprintf("metric(%d)", int(m))
}

// Valid reports whether m is one of the supported metrics.
func (m Metric) Valid() bool {
	_, ok := metricAccessors[m]
	return ok
}

// Of returns the metric value for r.
func (m Metric) Of(r neo.Record) (float64, error) {
	fn, ok := metricAccessors[m]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrInvalidMetric, m)
	}
	return fn(r), nil
}

func (m Metric) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMetric, m)
	}
	return []byte(m.String()), nil
}

func (m *Metric) UnmarshalText(b []byte) error {
	v, err := ParseMetric(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// finiteValues collects the finite values of m across ds, in record order,
// and counts the records whose value is NaN or infinite.
func finiteValues(ds *neo.Dataset, m Metric) (vals []float64, missing int, err error) {
	fn, ok := metricAccessors[m]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %s", ErrInvalidMetric, m)
	}
	vals = make([]float64, 0, ds.Len())
	ds.Each(func(_ int, r neo.Record) {
		v := fn(r)
		if isFinite(v) {
			vals = append(vals, v)
		} else {
			missing++
		}
	})
	return vals, missing, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

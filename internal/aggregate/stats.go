package aggregate

import (
	"sort"

	"github.com/aclements/go-moremath/stats"

	"github.com/gustycube/neoview/internal/neo"
)

// Stats summarizes the distribution of one metric.
//
// Q1 and Q3 are positional: the values at floor(n*0.25) and floor(n*0.75) of
// the ascending sample. They are not interpolated and will differ from other
// quartile conventions on small samples.
type Stats struct {
	Metric  Metric  `json:"metric"`
	Count   int     `json:"count"`
	Missing int     `json:"missing"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Mean    float64 `json:"mean"`
	Median  float64 `json:"median"`
	Q1      float64 `json:"q1"`
	Q3      float64 `json:"q3"`
}

// Statistics computes min, max, mean, median and quartiles of m.
// Records whose value is not finite are counted in Missing and excluded.
func Statistics(ds *neo.Dataset, m Metric) (Stats, error) {
	vals, missing, err := finiteValues(ds, m)
	if err != nil {
		return Stats{}, err
	}
	s := Stats{Metric: m, Missing: missing}
	if len(vals) == 0 {
		return s, ErrEmptyDataset
	}
	sort.Float64s(vals)
	summarize(&s, vals)
	return s, nil
}

func summarize(s *Stats, sorted []float64) {
	n := len(sorted)
	s.Count = n
	s.Min, s.Max = stats.Bounds(sorted)
	s.Mean = stats.Mean(sorted)
	if n%2 == 0 {
		s.Median = (sorted[n/2-1] + sorted[n/2]) / 2
	} else {
		s.Median = sorted[n/2]
	}
	s.Q1 = sorted[n/4]
	s.Q3 = sorted[n*3/4]
}

// Box extends Stats with the Tukey fences used by box plots.
type Box struct {
	Stats
	IQR        float64   `json:"iqr"`
	LowerFence float64   `json:"lower_fence"`
	UpperFence float64   `json:"upper_fence"`
	Outliers   []float64 `json:"outliers"`
}

// BoxPlot computes Statistics plus the 1.5*IQR fences and the values outside them.
func BoxPlot(ds *neo.Dataset, m Metric) (Box, error) {
	vals, missing, err := finiteValues(ds, m)
	if err != nil {
		return Box{}, err
	}
	b := Box{Stats: Stats{Metric: m, Missing: missing}, Outliers: []float64{}}
	if len(vals) == 0 {
		return b, ErrEmptyDataset
	}
	sort.Float64s(vals)
	summarize(&b.Stats, vals)

	b.IQR = b.Q3 - b.Q1
	b.LowerFence = b.Q1 - 1.5*b.IQR
	b.UpperFence = b.Q3 + 1.5*b.IQR
	for _, v := range vals {
		if v < b.LowerFence || v > b.UpperFence {
			b.Outliers = append(b.Outliers, v)
		}
	}
	return b, nil
}

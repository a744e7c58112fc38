package aggregate

import (
	"math"

	"github.com/aclements/go-moremath/stats"

	"github.com/gustycube/neoview/internal/neo"
)

const (
	DefaultHistogramBins = 20
	DefaultHeatmapBins   = 10
)

// Bin is one equal-width histogram interval [Lower, Upper).
// The last bin also includes Upper.
type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Histogram is the binned distribution of a metric.
type Histogram struct {
	Metric  Metric `json:"metric"`
	Missing int    `json:"missing"`
	Bins    []Bin  `json:"bins"`
}

// NewHistogram bins the finite values of m into equal-width bins over
// [min, max]. A non-positive bins uses DefaultHistogramBins.
func NewHistogram(ds *neo.Dataset, m Metric, bins int) (Histogram, error) {
	vals, missing, err := finiteValues(ds, m)
	if err != nil {
		return Histogram{}, err
	}
	h := Histogram{Metric: m, Missing: missing, Bins: []Bin{}}
	if len(vals) == 0 {
		return h, nil
	}
	if bins <= 0 {
		bins = DefaultHistogramBins
	}

	lo, hi := stats.Bounds(vals)
	if lo == hi {
		h.Bins = append(h.Bins, Bin{Lower: lo, Upper: hi, Count: len(vals)})
		return h, nil
	}

	h.Bins = make([]Bin, bins)
	for i := range h.Bins {
		h.Bins[i].Lower = edge(lo, hi, bins, i)
		h.Bins[i].Upper = edge(lo, hi, bins, i+1)
	}
	for _, v := range vals {
		h.Bins[histBin(h.Bins, v)].Count++
	}
	return h, nil
}

// edge is the i-th boundary of bins equal-width intervals over [lo, hi].
// The last boundary is exactly hi.
func edge(lo, hi float64, bins, i int) float64 {
	if i == bins {
		return hi
	}
	return lo + float64(i)*(hi-lo)/float64(bins)
}

// histBin places v in the bin whose reported [Lower, Upper) contains it,
// starting from the arithmetic estimate and correcting for rounding.
func histBin(bs []Bin, v float64) int {
	last := len(bs) - 1
	i := int((v - bs[0].Lower) / (bs[last].Upper - bs[0].Lower) * float64(len(bs)))
	if i > last {
		i = last
	}
	if i < 0 {
		i = 0
	}
	for i > 0 && v < bs[i].Lower {
		i--
	}
	for i < last && v >= bs[i].Upper {
		i++
	}
	return i
}

// Total is the number of values placed in bins.
func (h Histogram) Total() int {
	n := 0
	for _, b := range h.Bins {
		n += b.Count
	}
	return n
}

// Heatmap counts records on a 2D grid of two metrics. Counts is indexed
// [yBin][xBin].
type Heatmap struct {
	X      Metric     `json:"x"`
	Y      Metric     `json:"y"`
	XRange [2]float64 `json:"x_range"`
	YRange [2]float64 `json:"y_range"`
	Counts [][]int    `json:"counts"`
	Max    int        `json:"max"`
}

// NewHeatmap bins records by x and y into an xBins by yBins grid. Records
// with a non-finite value for either metric are skipped.
func NewHeatmap(ds *neo.Dataset, x, y Metric, xBins, yBins int) (Heatmap, error) {
	if !x.Valid() {
		_, err := x.Of(neo.Record{})
		return Heatmap{}, err
	}
	if !y.Valid() {
		_, err := y.Of(neo.Record{})
		return Heatmap{}, err
	}
	if xBins <= 0 {
		xBins = DefaultHeatmapBins
	}
	if yBins <= 0 {
		yBins = DefaultHeatmapBins
	}

	fx, fy := metricAccessors[x], metricAccessors[y]
	var xs, ys []float64
	ds.Each(func(_ int, r neo.Record) {
		vx, vy := fx(r), fy(r)
		if isFinite(vx) && isFinite(vy) {
			xs = append(xs, vx)
			ys = append(ys, vy)
		}
	})

	hm := Heatmap{X: x, Y: y, Counts: make([][]int, yBins)}
	for i := range hm.Counts {
		hm.Counts[i] = make([]int, xBins)
	}
	if len(xs) == 0 {
		return hm, nil
	}

	xMin, xMax := stats.Bounds(xs)
	yMin, yMax := stats.Bounds(ys)
	hm.XRange = [2]float64{xMin, xMax}
	hm.YRange = [2]float64{yMin, yMax}
	for i := range xs {
		xi := binIndex(xs[i], xMin, xMax, xBins)
		yi := binIndex(ys[i], yMin, yMax, yBins)
		hm.Counts[yi][xi]++
		if hm.Counts[yi][xi] > hm.Max {
			hm.Max = hm.Counts[yi][xi]
		}
	}
	return hm, nil
}

func binIndex(v, lo, hi float64, bins int) int {
	if hi == lo {
		return 0
	}
	i := int(math.Floor((v - lo) / (hi - lo) * float64(bins)))
	if i >= bins {
		i = bins - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

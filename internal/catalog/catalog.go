// Package catalog maps dashboard chart identifiers to the aggregate views
// they render. Views are rebuilt from the dataset on every call.
package catalog

import (
	"errors"
	"fmt"

	"github.com/gustycube/neoview/internal/aggregate"
	"github.com/gustycube/neoview/internal/neo"
)

// ErrUnknownChart is returned when a chart ID is not in the catalog.
var ErrUnknownChart = errors.New("unknown chart")

// ChartID names one dashboard chart.
type ChartID string

const (
	Area          ChartID = "area"
	Line          ChartID = "line"
	StreamGraph   ChartID = "streamGraph"
	Timeline      ChartID = "timeline"
	Bar           ChartID = "bar"
	HorizontalBar ChartID = "horizontalBar"
	GroupedBar    ChartID = "groupedBar"
	StackedBar    ChartID = "stackedBar"
	Pie           ChartID = "pie"
	Donut         ChartID = "donut"
	Treemap       ChartID = "treemap"
	Sunburst      ChartID = "sunburst"
	Histogram     ChartID = "histogram"
	BoxPlot       ChartID = "boxPlot"
	ViolinPlot    ChartID = "violinPlot"
	Scatter       ChartID = "scatter"
	Bubble        ChartID = "bubble"
	Heatmap       ChartID = "heatmap"
	ForceDirected ChartID = "forceDirected"
	Sankey        ChartID = "sankey"
)

// Builder derives one chart's view from a dataset.
type Builder func(ds *neo.Dataset) (any, error)

// Entry binds a chart to its section, display text and builder.
type Entry struct {
	ID          ChartID `json:"id"`
	Section     string  `json:"section"`
	Title       string  `json:"title"`
	Subtitle    string  `json:"subtitle"`
	Description string  `json:"description"`
	Build       Builder `json:"-"`
}

// SankeyView is the sankey chart's payload.
type SankeyView struct {
	Daily []aggregate.DailyCount `json:"daily"`
	Flows []aggregate.Flow       `json:"flows"`
}

// ForceView is the force-directed chart's payload.
type ForceView struct {
	ByDate map[string][]neo.Record `json:"by_date"`
	Graph  aggregate.Graph         `json:"graph"`
}

// Catalog is an ordered, read-only set of chart entries.
type Catalog struct {
	entries []Entry
	index   map[ChartID]int
}

// New builds a catalog from entries. Duplicate IDs are rejected.
func New(entries []Entry) (*Catalog, error) {
	c := &Catalog{index: make(map[ChartID]int, len(entries))}
	for _, e := range entries {
		if e.Build == nil {
			return nil, fmt.Errorf("chart %s has no builder", e.ID)
		}
		if _, dup := c.index[e.ID]; dup {
			return nil, fmt.Errorf("duplicate chart %s", e.ID)
		}
		c.index[e.ID] = len(c.entries)
		c.entries = append(c.entries, e)
	}
	return c, nil
}

// Default returns the full dashboard catalog.
func Default() *Catalog {
	c, err := New(defaultEntries())
	if err != nil {
		panic(err)
	}
	return c
}

// IDs lists chart IDs in catalog order.
func (c *Catalog) IDs() []ChartID {
	out := make([]ChartID, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.ID
	}
	return out
}

// Entries returns the entries in catalog order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Lookup returns the entry for id.
func (c *Catalog) Lookup(id ChartID) (Entry, bool) {
	i, ok := c.index[id]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Build computes the view for a single chart.
func (c *Catalog) Build(ds *neo.Dataset, id ChartID) (any, error) {
	e, ok := c.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownChart, id)
	}
	v, err := e.Build(ds)
	if err != nil {
		return nil, fmt.Errorf("building %s: %w", id, err)
	}
	return v, nil
}

// Materialize computes every view from ds. Nothing is memoized; each call
// reflects the dataset it is given.
func (c *Catalog) Materialize(ds *neo.Dataset) (map[ChartID]any, error) {
	out := make(map[ChartID]any, len(c.entries))
	for _, e := range c.entries {
		v, err := e.Build(ds)
		if err != nil {
			return nil, fmt.Errorf("building %s: %w", e.ID, err)
		}
		out[e.ID] = v
	}
	return out, nil
}

func dailyCounts(ds *neo.Dataset) (any, error) {
	return aggregate.DailyCounts(ds), nil
}

func sizeBuckets(ds *neo.Dataset) (any, error) {
	return aggregate.GroupBySizeCategory(ds), nil
}

func records(ds *neo.Dataset) (any, error) {
	recs := ds.Records()
	if recs == nil {
		recs = []neo.Record{}
	}
	return recs, nil
}

func topN(m aggregate.Metric) Builder {
	return func(ds *neo.Dataset) (any, error) {
		return aggregate.TopN(ds, m, aggregate.DefaultTopN)
	}
}

func histogram(m aggregate.Metric) Builder {
	return func(ds *neo.Dataset) (any, error) {
		return aggregate.NewHistogram(ds, m, aggregate.DefaultHistogramBins)
	}
}

func boxPlot(ds *neo.Dataset) (any, error) {
	b, err := aggregate.BoxPlot(ds, aggregate.DiameterAvg)
	if errors.Is(err, aggregate.ErrEmptyDataset) {
		return b, nil
	}
	return b, err
}

func heatmap(ds *neo.Dataset) (any, error) {
	return aggregate.NewHeatmap(ds, aggregate.DiameterAvg, aggregate.Velocity,
		aggregate.DefaultHeatmapBins, aggregate.DefaultHeatmapBins)
}

func sankey(ds *neo.Dataset) (any, error) {
	return SankeyView{
		Daily: aggregate.DailyCounts(ds),
		Flows: aggregate.SankeyFlows(ds),
	}, nil
}

func forceDirected(ds *neo.Dataset) (any, error) {
	g, err := aggregate.SimilarityGraph(ds, aggregate.Velocity,
		aggregate.DefaultGraphLimit, aggregate.DefaultGraphThreshold)
	if err != nil {
		return nil, err
	}
	return ForceView{ByDate: aggregate.GroupByDate(ds), Graph: g}, nil
}

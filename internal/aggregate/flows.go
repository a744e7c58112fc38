package aggregate

import (
	"math"

	"github.com/gustycube/neoview/internal/neo"
)

const (
	DefaultGraphLimit     = 50
	DefaultGraphThreshold = 10000.0
)

// Flow is a weighted edge from a size category to a hazard status.
type Flow struct {
	Source SizeCategory `json:"source"`
	Target string       `json:"target"`
	Value  int          `json:"value"`
}

// SankeyFlows counts records from each size category into "hazardous" and
// "safe". Flows with no records are omitted.
func SankeyFlows(ds *neo.Dataset) []Flow {
	buckets := GroupBySizeCategory(ds)
	flows := []Flow{}
	for _, c := range SizeCategories {
		var haz, safe int
		for _, r := range buckets.Get(c) {
			if r.Hazardous {
				haz++
			} else {
				safe++
			}
		}
		if haz > 0 {
			flows = append(flows, Flow{Source: c, Target: "hazardous", Value: haz})
		}
		if safe > 0 {
			flows = append(flows, Flow{Source: c, Target: "safe", Value: safe})
		}
	}
	return flows
}

// Node is a record projected for a force layout.
type Node struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Hazardous bool     `json:"hazardous"`
	Diameter  *float64 `json:"diameter"`
	Value     *float64 `json:"value"`
}

// Link joins two nodes by ID.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph is a node/link view of records with similar metric values.
type Graph struct {
	Metric    Metric  `json:"metric"`
	Threshold float64 `json:"threshold"`
	Nodes     []Node  `json:"nodes"`
	Links     []Link  `json:"links"`
}

// SimilarityGraph takes the first limit records as nodes and links every pair
// whose values of m differ by less than threshold. Non-positive limit and
// threshold fall back to DefaultGraphLimit and DefaultGraphThreshold.
func SimilarityGraph(ds *neo.Dataset, m Metric, limit int, threshold float64) (Graph, error) {
	if !m.Valid() {
		_, err := m.Of(neo.Record{})
		return Graph{}, err
	}
	if limit <= 0 {
		limit = DefaultGraphLimit
	}
	if threshold <= 0 {
		threshold = DefaultGraphThreshold
	}

	fn := metricAccessors[m]
	g := Graph{Metric: m, Threshold: threshold, Nodes: []Node{}, Links: []Link{}}
	var vals []float64
	ds.Each(func(i int, r neo.Record) {
		if i >= limit {
			return
		}
		v := fn(r)
		vals = append(vals, v)
		g.Nodes = append(g.Nodes, Node{
			ID:        r.ID,
			Name:      r.Name,
			Hazardous: r.Hazardous,
			Diameter:  neo.Finite(r.DiameterAvg()),
			Value:     neo.Finite(v),
		})
	})

	for i := range g.Nodes {
		for j := i + 1; j < len(g.Nodes); j++ {
			if math.Abs(vals[i]-vals[j]) < threshold {
				g.Links = append(g.Links, Link{Source: g.Nodes[i].ID, Target: g.Nodes[j].ID})
			}
		}
	}
	return g, nil
}

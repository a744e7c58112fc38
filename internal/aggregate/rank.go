package aggregate

import (
	"sort"

	"github.com/gustycube/neoview/internal/neo"
)

// DefaultTopN is used when a non-positive n is requested.
const DefaultTopN = 10

// TopN returns up to n records ordered by m, largest first. Ties keep
// ingestion order. Records with a NaN value for m sort after all others.
func TopN(ds *neo.Dataset, m Metric, n int) ([]neo.Record, error) {
	if !m.Valid() {
		_, err := m.Of(neo.Record{})
		return nil, err
	}
	if n <= 0 {
		n = DefaultTopN
	}

	recs := ds.Records()
	fn := metricAccessors[m]
	sort.SliceStable(recs, func(i, j int) bool {
		a, b := fn(recs[i]), fn(recs[j])
		if !isFinite(b) {
			return isFinite(a)
		}
		if !isFinite(a) {
			return false
		}
		return a > b
	})

	if len(recs) > n {
		recs = recs[:n]
	}
	if recs == nil {
		recs = []neo.Record{}
	}
	return recs, nil
}

package aggregate

import "github.com/gustycube/neoview/internal/neo"

// SizeCategory buckets a record by its average diameter.
type SizeCategory string

const (
	Small     SizeCategory = "small"
	Medium    SizeCategory = "medium"
	Large     SizeCategory = "large"
	VeryLarge SizeCategory = "very_large"
)

// SizeCategories in ascending size order.
var SizeCategories = []SizeCategory{Small, Medium, Large, VeryLarge}

// Categorize maps an average diameter in km onto its size category.
// Boundaries are half-open: [0.1, 0.5) is medium, [0.5, 1) is large.
// A NaN diameter fails every comparison and lands in very_large.
func Categorize(diameterKm float64) SizeCategory {
	switch {
	case diameterKm < 0.1:
		return Small
	case diameterKm < 0.5:
		return Medium
	case diameterKm < 1:
		return Large
	default:
		return VeryLarge
	}
}

// SizeBuckets partitions records by size category.
type SizeBuckets struct {
	Small     []neo.Record `json:"small"`
	Medium    []neo.Record `json:"medium"`
	Large     []neo.Record `json:"large"`
	VeryLarge []neo.Record `json:"very_large"`
}

// Get returns the bucket for c.
func (b SizeBuckets) Get(c SizeCategory) []neo.Record {
	switch c {
	case Small:
		return b.Small
	case Medium:
		return b.Medium
	case Large:
		return b.Large
	case VeryLarge:
		return b.VeryLarge
	}
	return nil
}

// Len is the total number of records across all buckets.
func (b SizeBuckets) Len() int {
	return len(b.Small) + len(b.Medium) + len(b.Large) + len(b.VeryLarge)
}

// GroupByDate maps each approach date to its records in ingestion order.
func GroupByDate(ds *neo.Dataset) map[string][]neo.Record {
	out := make(map[string][]neo.Record)
	ds.Each(func(_ int, r neo.Record) {
		out[r.Date] = append(out[r.Date], r)
	})
	return out
}

// GroupBySizeCategory places every record in exactly one size bucket.
func GroupBySizeCategory(ds *neo.Dataset) SizeBuckets {
	b := SizeBuckets{
		Small:     []neo.Record{},
		Medium:    []neo.Record{},
		Large:     []neo.Record{},
		VeryLarge: []neo.Record{},
	}
	ds.Each(func(_ int, r neo.Record) {
		switch Categorize(r.DiameterAvg()) {
		case Small:
			b.Small = append(b.Small, r)
		case Medium:
			b.Medium = append(b.Medium, r)
		case Large:
			b.Large = append(b.Large, r)
		default:
			b.VeryLarge = append(b.VeryLarge, r)
		}
	})
	return b
}

package neo

import (
	"encoding/json"
	"math"
	"time"
)

// Record represents a single near-Earth object close approach
type Record struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Date              string  `json:"date"`
	DiameterMin       float64 `json:"diameter_min"`
	DiameterMax       float64 `json:"diameter_max"`
	Velocity          float64 `json:"velocity"`
	MissDistance      float64 `json:"miss_distance"`
	Hazardous         bool    `json:"is_hazardous"`
	AbsoluteMagnitude float64 `json:"absolute_magnitude"`
}

// DiameterAvg is always derived from the min/max estimates.
func (r Record) DiameterAvg() float64 {
	return (r.DiameterMin + r.DiameterMax) / 2
}

// MarshalJSON adds the derived diameter_avg field. NaN values, which come
// from unparseable feed numbers, encode as null.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID                string   `json:"id"`
		Name              string   `json:"name"`
		Date              string   `json:"date"`
		DiameterMin       *float64 `json:"diameter_min"`
		DiameterMax       *float64 `json:"diameter_max"`
		DiameterAvg       *float64 `json:"diameter_avg"`
		Velocity          *float64 `json:"velocity"`
		MissDistance      *float64 `json:"miss_distance"`
		Hazardous         bool     `json:"is_hazardous"`
		AbsoluteMagnitude *float64 `json:"absolute_magnitude"`
	}{
		ID:                r.ID,
		Name:              r.Name,
		Date:              r.Date,
		DiameterMin:       Finite(r.DiameterMin),
		DiameterMax:       Finite(r.DiameterMax),
		DiameterAvg:       Finite(r.DiameterAvg()),
		Velocity:          Finite(r.Velocity),
		MissDistance:      Finite(r.MissDistance),
		Hazardous:         r.Hazardous,
		AbsoluteMagnitude: Finite(r.AbsoluteMagnitude),
	})
}

// Finite returns nil for NaN and infinities so the value can be JSON encoded.
func Finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// Counts summarizes hazard status across a dataset
type Counts struct {
	Total        int `json:"total_count"`
	Hazardous    int `json:"hazardous_count"`
	NonHazardous int `json:"non_hazardous_count"`
}

// Dataset is an immutable snapshot of one ingested feed. It is shared
// across goroutines, so every field is reachable only through accessors.
type Dataset struct {
	id        string
	source    string
	fetchedAt time.Time
	counts    Counts
	records   []Record
	dates     []string
}

// ID identifies the load that produced the dataset.
func (d *Dataset) ID() string {
	if d == nil {
		return ""
	}
	return d.id
}

// Source names where the payload came from.
func (d *Dataset) Source() string {
	if d == nil {
		return ""
	}
	return d.source
}

func (d *Dataset) FetchedAt() time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.fetchedAt
}

// Counts returns the hazard tallies. Zero on a nil Dataset.
func (d *Dataset) Counts() Counts {
	if d == nil {
		return Counts{}
	}
	return d.counts
}

func (d *Dataset) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID        string    `json:"id"`
		Source    string    `json:"source"`
		FetchedAt time.Time `json:"fetched_at"`
		Counts    Counts    `json:"counts"`
		Dates     []string  `json:"dates"`
		Records   []Record  `json:"records"`
	}{d.id, d.source, d.fetchedAt, d.counts, d.dates, d.records})
}

// Len returns the number of records. Safe on a nil Dataset.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// Records returns a copy of the records in ingestion order.
func (d *Dataset) Records() []Record {
	if d == nil {
		return nil
	}
	out := make([]Record, len(d.records))
	copy(out, d.records)
	return out
}

// Each calls fn for every record in ingestion order without copying.
func (d *Dataset) Each(fn func(i int, r Record)) {
	if d == nil {
		return
	}
	for i, r := range d.records {
		fn(i, r)
	}
}

// Dates returns the distinct approach dates, ascending.
func (d *Dataset) Dates() []string {
	if d == nil {
		return nil
	}
	out := make([]string, len(d.dates))
	copy(out, d.dates)
	return out
}

// Empty returns a dataset with no records.
func Empty() *Dataset {
	return &Dataset{source: "empty"}
}

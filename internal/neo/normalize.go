package neo

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Normalize flattens a feed payload into a Dataset. Dates are ISO 8601, so
// lexicographic order is chronological. Within a date the feed's order is kept.
func Normalize(p *Payload, source string, fetchedAt time.Time) (*Dataset, error) {
	if p == nil || p.NearEarthObjects == nil {
		return nil, &IngestionError{Op: "normalize", Err: errors.New("payload has no near_earth_objects")}
	}

	dates := make([]string, 0, len(p.NearEarthObjects))
	for date := range p.NearEarthObjects {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	ds := &Dataset{
		id:        uuid.NewString(),
		source:    source,
		fetchedAt: fetchedAt,
		dates:     dates,
	}
	for _, date := range dates {
		for _, raw := range p.NearEarthObjects[date] {
			ds.records = append(ds.records, flatten(date, raw))
		}
	}

	for _, r := range ds.records {
		if r.Hazardous {
			ds.counts.Hazardous++
		} else {
			ds.counts.NonHazardous++
		}
	}
	ds.counts.Total = ds.counts.Hazardous + ds.counts.NonHazardous

	return ds, nil
}

// FromRecords builds a Dataset directly from records, deriving dates and counts.
// Records are reordered by date; relative order within a date is kept.
func FromRecords(source string, records []Record) *Dataset {
	seen := make(map[string]bool)
	ds := &Dataset{id: uuid.NewString(), source: source, fetchedAt: time.Now().UTC()}

	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	for _, r := range sorted {
		if !seen[r.Date] {
			seen[r.Date] = true
			ds.dates = append(ds.dates, r.Date)
		}
		if r.Hazardous {
			ds.counts.Hazardous++
		} else {
			ds.counts.NonHazardous++
		}
	}
	ds.records = sorted
	ds.counts.Total = ds.counts.Hazardous + ds.counts.NonHazardous
	return ds
}

func flatten(date string, raw RawObject) Record {
	r := Record{
		ID:                raw.ID,
		Name:              raw.Name,
		Date:              date,
		DiameterMin:       raw.EstimatedDiameter.Kilometers.Min.Float(),
		DiameterMax:       raw.EstimatedDiameter.Kilometers.Max.Float(),
		Hazardous:         raw.Hazardous,
		AbsoluteMagnitude: raw.AbsoluteMagnitude.Float(),
		Velocity:          math.NaN(),
		MissDistance:      math.NaN(),
	}
	if len(raw.CloseApproach) > 0 {
		ca := raw.CloseApproach[0]
		r.Velocity = ca.RelativeVelocity.KilometersPerHour.Float()
		r.MissDistance = ca.MissDistance.Kilometers.Float()
	}
	return r
}

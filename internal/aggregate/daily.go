package aggregate

import "github.com/gustycube/neoview/internal/neo"

// DailyCount is the hazard breakdown for one approach date.
type DailyCount struct {
	Date         string `json:"date"`
	Hazardous    int    `json:"hazardous"`
	NonHazardous int    `json:"non_hazardous"`
	Total        int    `json:"total"`
}

// DailyCounts returns one entry per dataset date, ascending.
func DailyCounts(ds *neo.Dataset) []DailyCount {
	dates := ds.Dates()
	index := make(map[string]int, len(dates))
	out := make([]DailyCount, len(dates))
	for i, d := range dates {
		out[i].Date = d
		index[d] = i
	}

	ds.Each(func(_ int, r neo.Record) {
		i, ok := index[r.Date]
		if !ok {
			return
		}
		if r.Hazardous {
			out[i].Hazardous++
		} else {
			out[i].NonHazardous++
		}
	})
	for i := range out {
		out[i].Total = out[i].Hazardous + out[i].NonHazardous
	}
	return out
}

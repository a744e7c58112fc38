package neo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
)

// Payload is the NeoWs feed document: objects keyed by approach date.
type Payload struct {
	ElementCount     int                    `json:"element_count"`
	NearEarthObjects map[string][]RawObject `json:"near_earth_objects"`
}

// RawObject is one near-Earth object as the feed reports it.
type RawObject struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	AbsoluteMagnitude Number `json:"absolute_magnitude_h"`
	EstimatedDiameter struct {
		Kilometers struct {
			Min Number `json:"estimated_diameter_min"`
			Max Number `json:"estimated_diameter_max"`
		} `json:"kilometers"`
	} `json:"estimated_diameter"`
	Hazardous     bool            `json:"is_potentially_hazardous_asteroid"`
	CloseApproach []CloseApproach `json:"close_approach_data"`
}

// CloseApproach carries the per-approach kinematics. The feed encodes these
// as numeric strings.
type CloseApproach struct {
	Date             string `json:"close_approach_date"`
	RelativeVelocity struct {
		KilometersPerHour Number `json:"kilometers_per_hour"`
	} `json:"relative_velocity"`
	MissDistance struct {
		Kilometers Number `json:"kilometers"`
	} `json:"miss_distance"`
}

// Number decodes from either a JSON number or a numeric string.
// Unparseable input becomes NaN rather than an error.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*n = Number(math.NaN())
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		b = []byte(s)
	}
	f, err := strconv.ParseFloat(string(bytes.TrimSpace(b)), 64)
	if err != nil {
		f = math.NaN()
	}
	*n = Number(f)
	return nil
}

// Float returns the value as float64.
func (n Number) Float() float64 { return float64(n) }

// Decode reads a feed document from r.
func Decode(r io.Reader) (*Payload, error) {
	var p Payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, &IngestionError{Op: "decode", Err: err}
	}
	if p.NearEarthObjects == nil {
		return nil, &IngestionError{Op: "decode", Err: fmt.Errorf("missing near_earth_objects")}
	}
	return &p, nil
}

package neo

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"strings"
	"testing"
	"time"
)

func loadFixture(t *testing.T) *Dataset {
	t.Helper()
	f, err := os.Open("testdata/feed.json")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	p, err := Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	ds, err := Normalize(p, "fixture", time.Unix(0, 0).UTC())
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	return ds
}

func TestNormalize_OrderAndFields(t *testing.T) {
	ds := loadFixture(t)

	if ds.Len() != 3 {
		t.Fatalf("expected 3 records, got %d", ds.Len())
	}
	dates := ds.Dates()
	if len(dates) != 2 || dates[0] != "2024-01-01" || dates[1] != "2024-01-02" {
		t.Errorf("unexpected dates: %v", dates)
	}

	recs := ds.Records()
	wantIDs := []string{"2000433", "54051131", "3542519"}
	for i, id := range wantIDs {
		if recs[i].ID != id {
			t.Errorf("record %d: expected id %s, got %s", i, id, recs[i].ID)
		}
	}

	eros := recs[0]
	if eros.Date != "2024-01-01" {
		t.Errorf("expected date 2024-01-01, got %s", eros.Date)
	}
	if eros.Velocity != 20000 {
		t.Errorf("expected numeric velocity 20000, got %v", eros.Velocity)
	}
	if eros.MissDistance != 31000000.25 {
		t.Errorf("expected miss distance parsed from string, got %v", eros.MissDistance)
	}
	if eros.DiameterAvg() != 36 {
		t.Errorf("expected diameter avg 36, got %v", eros.DiameterAvg())
	}
	if eros.AbsoluteMagnitude != 10.31 {
		t.Errorf("expected absolute magnitude 10.31, got %v", eros.AbsoluteMagnitude)
	}
}

func TestNormalize_UnparseableNumberIsNaN(t *testing.T) {
	ds := loadFixture(t)
	if v := ds.Records()[1].Velocity; !math.IsNaN(v) {
		t.Errorf("expected NaN velocity for unparseable string, got %v", v)
	}
}

func TestNormalize_Counts(t *testing.T) {
	ds := loadFixture(t)
	c := ds.Counts()
	if c.Total != 3 || c.Hazardous != 1 || c.NonHazardous != 2 {
		t.Errorf("unexpected counts: %+v", c)
	}
	if c.Total != c.Hazardous+c.NonHazardous {
		t.Error("total must equal hazardous + non-hazardous")
	}
	if ds.ID() == "" {
		t.Error("expected dataset id to be assigned")
	}
}

func TestNormalize_MissingCloseApproach(t *testing.T) {
	p := &Payload{NearEarthObjects: map[string][]RawObject{
		"2024-01-01": {{ID: "1", Name: "lonely"}},
	}}
	ds, err := Normalize(p, "test", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	r := ds.Records()[0]
	if !math.IsNaN(r.Velocity) || !math.IsNaN(r.MissDistance) {
		t.Errorf("expected NaN kinematics without close approach data, got %v %v", r.Velocity, r.MissDistance)
	}
}

func TestNormalize_NilPayload(t *testing.T) {
	_, err := Normalize(nil, "test", time.Now())
	var ie *IngestionError
	if !errors.As(err, &ie) {
		t.Fatalf("expected IngestionError, got %v", err)
	}
}

func TestDecode_WrongShape(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "<html>"},
		{"missing objects", `{"element_count": 0}`},
		{"wrong type", `{"near_earth_objects": [1,2,3]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.body))
			var ie *IngestionError
			if !errors.As(err, &ie) {
				t.Fatalf("expected IngestionError, got %v", err)
			}
		})
	}
}

func TestRecordsReturnsCopy(t *testing.T) {
	ds := loadFixture(t)
	recs := ds.Records()
	recs[0].Name = "mutated"
	if ds.Records()[0].Name == "mutated" {
		t.Error("Records must not expose internal storage")
	}
}

func TestNilDatasetAccessors(t *testing.T) {
	var ds *Dataset
	if ds.Len() != 0 || ds.Records() != nil || ds.Dates() != nil {
		t.Error("nil dataset accessors must return zero values")
	}
}

func TestRecordJSONIncludesDiameterAvg(t *testing.T) {
	r := Record{ID: "x", DiameterMin: 1, DiameterMax: 3}
	b, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"diameter_avg":2`) {
		t.Errorf("expected diameter_avg in %s", b)
	}
}

func TestFromRecords(t *testing.T) {
	ds := FromRecords("test", []Record{
		{ID: "b", Date: "2024-01-02", Hazardous: true},
		{ID: "a", Date: "2024-01-01"},
		{ID: "c", Date: "2024-01-02"},
	})
	if got := ds.Dates(); len(got) != 2 || got[0] != "2024-01-01" {
		t.Errorf("unexpected dates: %v", got)
	}
	recs := ds.Records()
	if recs[0].ID != "a" || recs[1].ID != "b" || recs[2].ID != "c" {
		t.Errorf("unexpected order: %v %v %v", recs[0].ID, recs[1].ID, recs[2].ID)
	}
	if ds.Counts().Hazardous != 1 || ds.Counts().NonHazardous != 2 {
		t.Errorf("unexpected counts: %+v", ds.Counts())
	}
}

func TestRecordJSONNaNIsNull(t *testing.T) {
	r := Record{ID: "x", Velocity: math.NaN()}
	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal with NaN: %v", err)
	}
	if !strings.Contains(string(b), `"velocity":null`) {
		t.Errorf("expected null velocity in %s", b)
	}
}

func TestDatasetMetadataAccessors(t *testing.T) {
	var nilDS *Dataset
	if nilDS.ID() != "" || nilDS.Source() != "" || !nilDS.FetchedAt().IsZero() || nilDS.Counts() != (Counts{}) {
		t.Error("expected zero metadata on nil dataset")
	}

	at := time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)
	f, err := os.Open("testdata/feed.json")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	p, err := Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	ds, err := Normalize(p, "neows", at)
	if err != nil {
		t.Fatal(err)
	}
	if ds.Source() != "neows" || !ds.FetchedAt().Equal(at) {
		t.Errorf("unexpected metadata %q %v", ds.Source(), ds.FetchedAt())
	}

	c := ds.Counts()
	c.Total = 99
	if ds.Counts().Total != 3 {
		t.Error("Counts exposed internal state")
	}

	b, err := json.Marshal(ds)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"id":"` + ds.ID() + `"`, `"total_count":3`, `"source":"neows"`} {
		if !strings.Contains(string(b), want) {
			t.Errorf("expected %s in %s", want, b)
		}
	}
}

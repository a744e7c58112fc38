package catalog

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/gustycube/neoview/internal/aggregate"
	"github.com/gustycube/neoview/internal/neo"
)

func testDataset() *neo.Dataset {
	return neo.FromRecords("test", []neo.Record{
		{ID: "1", Name: "one", Date: "2024-01-01", DiameterMin: 0.04, DiameterMax: 0.06, Velocity: 12000, MissDistance: 5e6, Hazardous: true},
		{ID: "2", Name: "two", Date: "2024-01-01", DiameterMin: 0.5, DiameterMax: 0.9, Velocity: 65000, MissDistance: 2e7},
		{ID: "3", Name: "three", Date: "2024-01-02", DiameterMin: 1, DiameterMax: 2, Velocity: 30000, MissDistance: 4e7, Hazardous: true},
	})
}

func TestDefault_CoversEveryChart(t *testing.T) {
	c := Default()
	want := []ChartID{
		Area, Line, StreamGraph, Timeline,
		Bar, HorizontalBar, GroupedBar, StackedBar,
		Pie, Donut, Treemap, Sunburst,
		Histogram, BoxPlot, ViolinPlot,
		Scatter, Bubble, Heatmap,
		ForceDirected, Sankey,
	}
	if !reflect.DeepEqual(c.IDs(), want) {
		t.Errorf("IDs() = %v", c.IDs())
	}
}

func TestMaterialize(t *testing.T) {
	ds := testDataset()
	views, err := Default().Materialize(ds)
	if err != nil {
		t.Fatal(err)
	}
	if len(views) != len(Default().IDs()) {
		t.Fatalf("expected a view per chart, got %d", len(views))
	}

	daily, ok := views[Line].([]aggregate.DailyCount)
	if !ok || len(daily) != 2 {
		t.Fatalf("line view: unexpected %T %v", views[Line], views[Line])
	}

	bar, ok := views[Bar].([]neo.Record)
	if !ok || bar[0].ID != "3" {
		t.Errorf("bar should rank by diameter, got %v", views[Bar])
	}
	hbar, ok := views[HorizontalBar].([]neo.Record)
	if !ok || hbar[0].ID != "2" {
		t.Errorf("horizontal bar should rank by velocity, got %v", views[HorizontalBar])
	}

	pie, ok := views[Pie].(aggregate.SizeBuckets)
	if !ok || pie.Len() != ds.Len() {
		t.Errorf("pie view: unexpected %v", views[Pie])
	}

	sk, ok := views[Sankey].(SankeyView)
	if !ok || len(sk.Daily) != 2 || len(sk.Flows) == 0 {
		t.Errorf("sankey view: unexpected %+v", views[Sankey])
	}

	if _, err := json.Marshal(views); err != nil {
		t.Errorf("views must be JSON encodable: %v", err)
	}
}

func TestMaterialize_RecomputesFromDataset(t *testing.T) {
	c := Default()
	first, err := c.Materialize(testDataset())
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.Materialize(neo.Empty())
	if err != nil {
		t.Fatal(err)
	}
	if len(first[Area].([]aggregate.DailyCount)) == 0 {
		t.Fatal("expected daily counts for populated dataset")
	}
	if len(second[Area].([]aggregate.DailyCount)) != 0 {
		t.Error("views must reflect the dataset passed in, not a previous one")
	}
}

func TestMaterialize_NilDataset(t *testing.T) {
	views, err := Default().Materialize(nil)
	if err != nil {
		t.Fatalf("nil dataset must not fail: %v", err)
	}
	if recs := views[Timeline].([]neo.Record); len(recs) != 0 {
		t.Errorf("expected no records, got %d", len(recs))
	}
	if _, err := json.Marshal(views); err != nil {
		t.Errorf("empty views must be JSON encodable: %v", err)
	}
}

func TestBuild_UnknownChart(t *testing.T) {
	_, err := Default().Build(testDataset(), "radar")
	if !errors.Is(err, ErrUnknownChart) {
		t.Errorf("expected ErrUnknownChart, got %v", err)
	}
}

func TestNew_Validation(t *testing.T) {
	build := func(*neo.Dataset) (any, error) { return nil, nil }
	tests := []struct {
		name    string
		entries []Entry
		wantErr bool
	}{
		{"valid", []Entry{{ID: "a", Build: build}}, false},
		{"duplicate", []Entry{{ID: "a", Build: build}, {ID: "a", Build: build}}, true},
		{"missing builder", []Entry{{ID: "a"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.entries)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSections(t *testing.T) {
	sections := Default().Sections()
	if len(sections) != 6 {
		t.Fatalf("expected 6 sections, got %d", len(sections))
	}
	total := 0
	for _, s := range sections {
		if s.Title == "" {
			t.Errorf("section %s has no title", s.Key)
		}
		total += len(s.Charts)
	}
	if total != len(Default().IDs()) {
		t.Errorf("sections cover %d charts, want %d", total, len(Default().IDs()))
	}
	if sections[0].Key != SectionTime || sections[0].Charts[0] != Area {
		t.Errorf("unexpected first section: %+v", sections[0])
	}
}

func TestEntriesCarryDisplayText(t *testing.T) {
	c := Default()
	entries := c.Entries()
	if len(entries) != len(c.IDs()) {
		t.Fatalf("expected %d entries, got %d", len(c.IDs()), len(entries))
	}
	for _, e := range entries {
		if e.Title == "" || e.Subtitle == "" || e.Description == "" {
			t.Errorf("entry %s missing display text: %+v", e.ID, e)
		}
	}

	entries[0].Title = "changed"
	if got, _ := c.Lookup(entries[0].ID); got.Title == "changed" {
		t.Error("Entries should return a copy")
	}

	b, err := json.Marshal(entries[1])
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatal(err)
	}
	if m["title"] != "Line Chart" || m["section"] != SectionTime {
		t.Errorf("unexpected entry json: %s", b)
	}
	if _, ok := m["Build"]; ok {
		t.Error("builder should not be serialized")
	}
}

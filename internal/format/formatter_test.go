package format

import (
	"bufio"
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/gustycube/neoview/internal/catalog"
	"github.com/gustycube/neoview/internal/neo"
)

func testDataset() *neo.Dataset {
	return neo.FromRecords("test", []neo.Record{
		{ID: "1", Name: "Alpha, the first", Date: "2024-01-01", DiameterMin: 0.25, DiameterMax: 0.75, Velocity: 50000, MissDistance: 1e6, Hazardous: true, AbsoluteMagnitude: 21.5},
		{ID: "2", Name: "Beta", Date: "2024-01-02", DiameterMin: 0.5, DiameterMax: 1.5, Velocity: math.NaN(), MissDistance: 2e6, AbsoluteMagnitude: 19},
	})
}

func TestNewDocument(t *testing.T) {
	c := catalog.Default()
	doc, err := NewDocument(c, testDataset(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Views) != len(c.IDs()) {
		t.Errorf("expected %d views, got %d", len(c.IDs()), len(doc.Views))
	}
	if doc.Counts.Total != 2 || doc.Counts.Hazardous != 1 {
		t.Errorf("unexpected counts %+v", doc.Counts)
	}

	doc, err = NewDocument(c, testDataset(), []catalog.ChartID{catalog.Pie, catalog.Bar})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Views) != 2 || doc.Views[0].Chart != catalog.Pie || doc.Views[0].Section != catalog.SectionPartToWhole {
		t.Errorf("unexpected views %+v", doc.Views)
	}

	if _, err := NewDocument(c, testDataset(), []catalog.ChartID{"nope"}); err == nil {
		t.Error("expected error for unknown chart")
	}
}

func TestJSONFormatter(t *testing.T) {
	doc, _ := NewDocument(catalog.Default(), testDataset(), []catalog.ChartID{catalog.Area})
	for _, indent := range []bool{false, true} {
		data, err := NewJSONFormatter(indent).Format(doc)
		if err != nil {
			t.Fatalf("indent=%v: unexpected error: %v", indent, err)
		}
		var out struct {
			Counts neo.Counts `json:"counts"`
			Views  []struct {
				Chart string            `json:"chart"`
				Data  []json.RawMessage `json:"data"`
			} `json:"views"`
		}
		if err := json.Unmarshal(data, &out); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if out.Counts.Total != 2 || len(out.Views) != 1 || len(out.Views[0].Data) != 2 {
			t.Errorf("unexpected document %s", data)
		}
	}
}

func TestJSONLFormatter(t *testing.T) {
	doc, _ := NewDocument(catalog.Default(), testDataset(), nil)
	var buf bytes.Buffer
	if err := NewJSONLFormatter().FormatStream(doc, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := 0
	sc := bufio.NewScanner(&buf)
	sc.Buffer(make([]byte, 1<<20), 1<<20)
	for sc.Scan() {
		var line map[string]any
		if err := json.Unmarshal(sc.Bytes(), &line); err != nil {
			t.Fatalf("line %d invalid: %v", lines+1, err)
		}
		if line["type"] != "view" || line["chart"] == "" {
			t.Errorf("unexpected line %v", line)
		}
		lines++
	}
	if lines != len(doc.Views) {
		t.Errorf("expected %d lines, got %d", len(doc.Views), lines)
	}
}

func TestCSVFormatter(t *testing.T) {
	doc, _ := NewDocument(catalog.Default(), testDataset(), []catalog.ChartID{catalog.Line})

	data, err := NewCSVFormatter(false).Format(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := string(data)
	want := strings.Join([]string{
		"id,name,date,diameter_min,diameter_max,diameter_avg,velocity,miss_distance,hazardous,absolute_magnitude",
		`1,"Alpha, the first",2024-01-01,0.25,0.75,0.5,50000,1000000,true,21.5`,
		"2,Beta,2024-01-02,0.5,1.5,1,,2000000,false,19",
		"",
	}, "\n")
	if got != want {
		t.Errorf("unexpected CSV:\n%s\nwant:\n%s", got, want)
	}

	data, err = NewCSVFormatter(true).Format(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want = "date,hazardous,non_hazardous,total\n2024-01-01,1,0,1\n2024-01-02,0,1,1\n"
	if string(data) != want {
		t.Errorf("unexpected daily CSV:\n%s", data)
	}
}

func TestCSVFormatterEmpty(t *testing.T) {
	doc, err := NewDocument(catalog.Default(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := NewCSVFormatter(false).Format(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Count(string(data), "\n") != 1 {
		t.Errorf("expected header only, got %q", data)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"JSONL", FormatJSONL, false},
		{"ndjson", FormatJSONL, false},
		{"csv", FormatCSV, false},
		{"parquet", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestGetFormatter(t *testing.T) {
	f, err := GetFormatter(FormatCSV, map[string]interface{}{"daily": true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c, ok := f.(*CSVFormatter); !ok || !c.Daily {
		t.Errorf("expected daily CSV formatter, got %#v", f)
	}
	if _, err := GetFormatter("xml", nil); err == nil {
		t.Error("expected error for unsupported format")
	}
}

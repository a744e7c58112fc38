// Package format encodes materialized views for export.
package format

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gustycube/neoview/internal/aggregate"
	"github.com/gustycube/neoview/internal/catalog"
	"github.com/gustycube/neoview/internal/neo"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatJSONL OutputFormat = "jsonl"
	FormatCSV   OutputFormat = "csv"
)

// View is one chart's materialized data.
type View struct {
	Chart   catalog.ChartID `json:"chart"`
	Section string          `json:"section"`
	Data    any             `json:"data"`
}

// Document is an export of a dataset and the views derived from it.
type Document struct {
	DatasetID string     `json:"dataset_id"`
	Source    string     `json:"source"`
	FetchedAt time.Time  `json:"fetched_at"`
	Counts    neo.Counts `json:"counts"`
	Views     []View     `json:"views"`

	ds *neo.Dataset
}

// NewDocument materializes the named charts, or every chart when none are
// named, in the order given.
func NewDocument(c *catalog.Catalog, ds *neo.Dataset, charts []catalog.ChartID) (*Document, error) {
	if len(charts) == 0 {
		charts = c.IDs()
	}
	doc := &Document{Views: make([]View, 0, len(charts)), ds: ds}
	if ds != nil {
		doc.DatasetID = ds.ID()
		doc.Source = ds.Source()
		doc.FetchedAt = ds.FetchedAt()
		doc.Counts = ds.Counts()
	}
	for _, id := range charts {
		data, err := c.Build(ds, id)
		if err != nil {
			return nil, err
		}
		e, _ := c.Lookup(id)
		doc.Views = append(doc.Views, View{Chart: id, Section: e.Section, Data: data})
	}
	return doc, nil
}

// Formatter interface for different output formats
type Formatter interface {
	Format(doc *Document) ([]byte, error)
	FormatStream(doc *Document, w io.Writer) error
}

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	Indent bool
}

func NewJSONFormatter(indent bool) *JSONFormatter {
	return &JSONFormatter{Indent: indent}
}

func (f *JSONFormatter) Format(doc *Document) ([]byte, error) {
	if f.Indent {
		return json.MarshalIndent(doc, "", "  ")
	}
	return json.Marshal(doc)
}

func (f *JSONFormatter) FormatStream(doc *Document, w io.Writer) error {
	encoder := json.NewEncoder(w)
	if f.Indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(doc)
}

// JSONLFormatter writes one line per view.
type JSONLFormatter struct{}

func NewJSONLFormatter() *JSONLFormatter {
	return &JSONLFormatter{}
}

func (f *JSONLFormatter) Format(doc *Document) ([]byte, error) {
	var sb strings.Builder
	if err := f.FormatStream(doc, &sb); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

func (f *JSONLFormatter) FormatStream(doc *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	for _, v := range doc.Views {
		line := map[string]any{
			"type":       "view",
			"dataset_id": doc.DatasetID,
			"fetched_at": doc.FetchedAt,
			"chart":      v.Chart,
			"section":    v.Section,
			"data":       v.Data,
		}
		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("encoding %s: %w", v.Chart, err)
		}
	}
	return nil
}

// CSVFormatter writes the flat record table, or the per-date counts when
// Daily is set. Views are not tabular and are skipped.
type CSVFormatter struct {
	Daily bool
}

func NewCSVFormatter(daily bool) *CSVFormatter {
	return &CSVFormatter{Daily: daily}
}

var recordHeader = []string{
	"id", "name", "date", "diameter_min", "diameter_max", "diameter_avg",
	"velocity", "miss_distance", "hazardous", "absolute_magnitude",
}

var dailyHeader = []string{"date", "hazardous", "non_hazardous", "total"}

func (f *CSVFormatter) Format(doc *Document) ([]byte, error) {
	var sb strings.Builder
	if err := f.FormatStream(doc, &sb); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

func (f *CSVFormatter) FormatStream(doc *Document, w io.Writer) error {
	cw := csv.NewWriter(w)
	if f.Daily {
		cw.Write(dailyHeader)
		for _, d := range aggregate.DailyCounts(doc.ds) {
			cw.Write([]string{
				d.Date,
				strconv.Itoa(d.Hazardous),
				strconv.Itoa(d.NonHazardous),
				strconv.Itoa(d.Total),
			})
		}
	} else {
		cw.Write(recordHeader)
		doc.ds.Each(func(_ int, r neo.Record) {
			cw.Write([]string{
				r.ID,
				r.Name,
				r.Date,
				formatFloat(r.DiameterMin),
				formatFloat(r.DiameterMax),
				formatFloat(r.DiameterAvg()),
				formatFloat(r.Velocity),
				formatFloat(r.MissDistance),
				strconv.FormatBool(r.Hazardous),
				formatFloat(r.AbsoluteMagnitude),
			})
		})
	}
	cw.Flush()
	return cw.Error()
}

// formatFloat leaves non-finite values blank.
func formatFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// GetFormatter returns a formatter for the specified format
func GetFormatter(format OutputFormat, options map[string]interface{}) (Formatter, error) {
	switch format {
	case FormatJSON:
		indent := false
		if v, ok := options["indent"].(bool); ok {
			indent = v
		}
		return NewJSONFormatter(indent), nil

	case FormatJSONL:
		return NewJSONLFormatter(), nil

	case FormatCSV:
		daily := false
		if v, ok := options["daily"].(bool); ok {
			daily = v
		}
		return NewCSVFormatter(daily), nil

	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// ParseFormat parses a format string
func ParseFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "jsonl", "ndjson":
		return FormatJSONL, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unknown format: %s", s)
	}
}

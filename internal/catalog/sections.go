package catalog

// Dashboard section keys.
const (
	SectionTime         = "time"
	SectionBar          = "bar"
	SectionPartToWhole  = "part_to_whole"
	SectionDistribution = "distribution"
	SectionRelationship = "relationship"
	SectionNetwork      = "network"
)

var sectionTitles = []struct {
	key, title string
}{
	{SectionTime, "Time-based"},
	{SectionBar, "Bar Charts"},
	{SectionPartToWhole, "Part-to-Whole"},
	{SectionDistribution, "Distribution"},
	{SectionRelationship, "Relationship"},
	{SectionNetwork, "Network / Hierarchy"},
}

// Section groups charts for dashboard layout.
type Section struct {
	Key    string    `json:"key"`
	Title  string    `json:"title"`
	Charts []ChartID `json:"charts"`
}

// Sections groups the catalog's charts by section, in dashboard order.
// Sections without charts are omitted.
func (c *Catalog) Sections() []Section {
	bySection := make(map[string][]ChartID)
	for _, e := range c.entries {
		bySection[e.Section] = append(bySection[e.Section], e.ID)
	}

	var out []Section
	for _, s := range sectionTitles {
		if charts := bySection[s.key]; len(charts) > 0 {
			out = append(out, Section{Key: s.key, Title: s.title, Charts: charts})
		}
	}
	return out
}

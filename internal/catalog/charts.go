package catalog

import "github.com/gustycube/neoview/internal/aggregate"

func defaultEntries() []Entry {
	return []Entry{
		{
			ID: Area, Section: SectionTime, Build: dailyCounts,
			Title:       "Area Chart",
			Subtitle:    "Cumulative asteroids over the date range",
			Description: "Filled version of the line chart emphasizing volume. Good for cumulative totals or magnitude over time.",
		},
		{
			ID: Line, Section: SectionTime, Build: dailyCounts,
			Title:       "Line Chart",
			Subtitle:    "Daily asteroid count over time",
			Description: "Shows trends over time by connecting daily data points.",
		},
		{
			ID: StreamGraph, Section: SectionTime, Build: dailyCounts,
			Title:       "Stream Graph",
			Subtitle:    "Hazardous and non-hazardous flow over time",
			Description: "Stacked area chart around a centered baseline. Shows how categories change in proportion over time.",
		},
		{
			ID: Timeline, Section: SectionTime, Build: records,
			Title:       "Timeline",
			Subtitle:    "Individual asteroid closest approach dates",
			Description: "Each asteroid appears as a point on a linear time axis at its closest approach.",
		},

		{
			ID: Bar, Section: SectionBar, Build: topN(aggregate.DiameterAvg),
			Title:       "Bar Chart",
			Subtitle:    "Top 10 asteroids by estimated diameter",
			Description: "Rectangles compare values; height represents the asteroid's average estimated diameter.",
		},
		{
			ID: HorizontalBar, Section: SectionBar, Build: topN(aggregate.Velocity),
			Title:       "Horizontal Bar Chart",
			Subtitle:    "Asteroids sorted by relative velocity",
			Description: "The bar chart rotated 90 degrees. Better for long labels and many items.",
		},
		{
			ID: GroupedBar, Section: SectionBar, Build: dailyCounts,
			Title:       "Grouped Bar Chart",
			Subtitle:    "Hazardous vs non-hazardous per date",
			Description: "Compares hazardous and non-hazardous counts side by side within each group.",
		},
		{
			ID: StackedBar, Section: SectionBar, Build: dailyCounts,
			Title:       "Stacked Bar Chart",
			Subtitle:    "Daily count of hazardous and non-hazardous asteroids",
			Description: "Part-to-whole by stacking values. Each bar shows the daily total with color-coded segments.",
		},

		{
			ID: Pie, Section: SectionPartToWhole, Build: sizeBuckets,
			Title:       "Pie Chart",
			Subtitle:    "Share of asteroids by category",
			Description: "Slices of a circle show each category's share of the whole.",
		},
		{
			ID: Donut, Section: SectionPartToWhole, Build: sizeBuckets,
			Title:       "Donut Chart",
			Subtitle:    "Hazardous asteroid distribution with center label",
			Description: "A pie chart with a hollow center that can hold a summary statistic or label.",
		},
		{
			ID: Treemap, Section: SectionPartToWhole, Build: sizeBuckets,
			Title:       "Treemap",
			Subtitle:    "Hierarchical view by date and size",
			Description: "Nested rectangles sized by value show hierarchy and proportion at once.",
		},
		{
			ID: Sunburst, Section: SectionPartToWhole, Build: sizeBuckets,
			Title:       "Sunburst Chart",
			Subtitle:    "Radial hierarchical visualization",
			Description: "Circular treemap showing hierarchy as nested rings. Inner rings are parents, outer rings are children.",
		},

		{
			ID: Histogram, Section: SectionDistribution, Build: histogram(aggregate.Velocity),
			Title:       "Histogram",
			Subtitle:    "Distribution of relative velocities",
			Description: "Counts of asteroids in equal-width velocity ranges.",
		},
		{
			ID: BoxPlot, Section: SectionDistribution, Build: boxPlot,
			Title:       "Box Plot",
			Subtitle:    "Size distribution with quartiles",
			Description: "Median, quartiles and 1.5 IQR fences of the average diameter, with outliers marked.",
		},
		{
			ID: ViolinPlot, Section: SectionDistribution, Build: histogram(aggregate.Velocity),
			Title:       "Violin Plot",
			Subtitle:    "Velocity distribution density visualization",
			Description: "Combines a box plot with density. Width at each point shows how many values fall nearby.",
		},

		{
			ID: Scatter, Section: SectionRelationship, Build: records,
			Title:       "Scatter Plot",
			Subtitle:    "Asteroid size vs velocity relationship",
			Description: "Each point is one asteroid. Reveals correlation, clusters and outliers between two variables.",
		},
		{
			ID: Bubble, Section: SectionRelationship, Build: records,
			Title:       "Bubble Chart",
			Subtitle:    "Size, velocity and miss distance",
			Description: "A scatter plot with a third variable mapped to bubble radius.",
		},
		{
			ID: Heatmap, Section: SectionRelationship, Build: heatmap,
			Title:       "Heatmap",
			Subtitle:    "Asteroid density by size and velocity ranges",
			Description: "Color intensity shows how many asteroids fall in each size and velocity cell.",
		},

		{
			ID: ForceDirected, Section: SectionNetwork, Build: forceDirected,
			Title:       "Force-Directed Graph",
			Subtitle:    "Clusters of asteroids with similar velocity",
			Description: "Nodes are asteroids; links join pairs whose velocities are close.",
		},
		{
			ID: Sankey, Section: SectionNetwork, Build: sankey,
			Title:       "Sankey Diagram",
			Subtitle:    "Flow from size categories to hazard status",
			Description: "Link width represents quantity flowing between categories.",
		},
	}
}

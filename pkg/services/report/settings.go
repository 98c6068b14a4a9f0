package report

// Settings controls the generator outputs.
type Settings struct {
	// ComparisonPaths are the metrics compared with the previous period, in order
	ComparisonPaths []string
	// SummaryWindowDays is the trailing window of the realtime summary, today included
	SummaryWindowDays int
	// SummaryMetrics are the key metrics exposed by the realtime summary
	SummaryMetrics []string
	TopInsights    int
	// TopRecommendations bounds the recommendations in the rendered content
	TopRecommendations int
}

func DefaultSettings() Settings {
	return Settings{
		ComparisonPaths: []string{
			"sales.total_sales",
			"sales.total_revenue",
			"marketing.total_leads",
			"marketing.conversion_rate",
			"financial.roi",
		},
		SummaryWindowDays: 7,
		SummaryMetrics: []string{
			"sales.total_sales",
			"sales.total_revenue",
			"sales.average_check",
			"marketing.total_leads",
			"marketing.conversion_rate",
			"financial.roi",
		},
		TopInsights:        5,
		TopRecommendations: 3,
	}
}

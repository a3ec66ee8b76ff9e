package model

// InsightKind classifies a comparison insight.
type InsightKind string

const (
	InsightPrice    InsightKind = "price"
	InsightDuration InsightKind = "duration"
	InsightStops    InsightKind = "stops"
	InsightOverall  InsightKind = "overall"
)

// ComparisonInsight is one natural-language finding from a comparison.
type ComparisonInsight struct {
	Kind InsightKind `json:"kind"`
	Text string      `json:"text"`
}

// Comparison is the result of comparing 2-3 scored flights. RecommendedID is
// empty when fewer than two candidates were supplied.
type Comparison struct {
	Insights      []ComparisonInsight `json:"insights"`
	RecommendedID string              `json:"recommended_id,omitempty"`
}

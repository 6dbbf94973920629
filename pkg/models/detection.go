package models

import "time"

// ConfidenceLevel is the normalized verdict extracted from a generator's
// free-text answer about whether content is AI-generated.
type ConfidenceLevel string

const (
	ConfidenceHigh    ConfidenceLevel = "High"
	ConfidenceMedium  ConfidenceLevel = "Medium"
	ConfidenceLow     ConfidenceLevel = "Low"
	ConfidenceUnknown ConfidenceLevel = "Unknown"
)

// Valid reports whether c is one of the four enum values.
func (c ConfidenceLevel) Valid() bool {
	switch c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow, ConfidenceUnknown:
		return true
	}
	return false
}

// RiskIndicator is the user-facing label derived from a ConfidenceLevel.
type RiskIndicator struct {
	Tag   string `json:"tag"   bson:"tag"`
	Label string `json:"label" bson:"label"`
	Emoji string `json:"emoji" bson:"emoji"`
}

// String renders the indicator the way the history views display it.
func (r RiskIndicator) String() string {
	return r.Emoji + " " + r.Label
}

// TimestampPrecision is the coarsest resolution any store backend keeps
// (BSON datetimes hold milliseconds).
const TimestampPrecision = time.Millisecond

// Timestamp normalizes t to UTC at TimestampPrecision so a record's
// created_at reads back from the store unchanged.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(TimestampPrecision)
}

// Origin records which entry point produced a detection report.
type Origin string

const (
	OriginDraft Origin = "draft"
	OriginWeb   Origin = "web"
)

// DetectionReport is the immutable persisted record of one AI-detection request.
// Explanation always holds the complete model output Confidence was derived from.
type DetectionReport struct {
	ID          string          `db:"id"          json:"id"`
	UserID      string          `db:"user_id"     json:"user_id"`
	SourceText  string          `db:"source_text" json:"source_text"`
	Confidence  ConfidenceLevel `db:"confidence"  json:"confidence"`
	Explanation string          `db:"explanation" json:"explanation"`
	Indicator   RiskIndicator   `db:"-"           json:"indicator"`
	Origin      Origin          `db:"origin"      json:"origin"`
	CreatedAt   time.Time       `db:"created_at"  json:"created_at"`
}

package detection

import "github.com/kiranshivaraju/integrity/pkg/models"

var indicators = map[models.ConfidenceLevel]models.RiskIndicator{
	models.ConfidenceHigh:    {Tag: "high-risk", Label: "High Risk (AI-generated)", Emoji: "🔴"},
	models.ConfidenceMedium:  {Tag: "medium-risk", Label: "Medium Risk", Emoji: "🟡"},
	models.ConfidenceLow:     {Tag: "low-risk", Label: "Low Risk", Emoji: "🟢"},
	models.ConfidenceUnknown: {Tag: "unknown", Label: "Unknown", Emoji: "⚪"},
}

// Classify maps a confidence level to its display indicator. Values outside
// the enum are treated as Unknown.
func Classify(level models.ConfidenceLevel) models.RiskIndicator {
	if ind, ok := indicators[level]; ok {
		return ind
	}
	return indicators[models.ConfidenceUnknown]
}

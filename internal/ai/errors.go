package ai

import "github.com/kiranshivaraju/integrity/pkg/models"

// Re-exported so callers can match provider failures without importing models.
var (
	ErrQuotaExceeded = models.ErrQuotaExceeded
	ErrTransport     = models.ErrTransport
)

// QuotaExceededMessage is shown to users when the provider quota is exhausted.
const QuotaExceededMessage = "API Quota Exceeded: You've reached the free tier limit. Please try again later or upgrade your plan."

const inferenceTimeoutMessage = "ai inference timeout"

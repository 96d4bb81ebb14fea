package domain

// ReservedSeverityLevel is the level the ticket API refuses for new tickets.
const ReservedSeverityLevel = 1

// Severity classifies urgency with a numeric level and a label.
type Severity struct {
	ID          string `json:"id"`
	Level       int    `json:"level"`
	Description string `json:"description"`
}

// SeverityInput is the create/update shape of a severity.
type SeverityInput struct {
	Level       int    `json:"level" validate:"required"`
	Description string `json:"description" validate:"required"`
}

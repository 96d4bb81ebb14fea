package domain

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "aberto"
	TicketStatusInProgress TicketStatus = "em progresso"
	TicketStatusResolved   TicketStatus = "resolvido"
)

// TicketStatuses lists the statuses in the order the edit form offers them.
var TicketStatuses = []TicketStatus{TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved}

// Valid reports whether s is one of the enumerated statuses.
func (s TicketStatus) Valid() bool {
	for _, status := range TicketStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Label returns the display label of the status.
func (s TicketStatus) Label() string {
	switch s {
	case TicketStatusOpen:
		return "Aberto"
	case TicketStatusInProgress:
		return "Em progresso"
	case TicketStatusResolved:
		return "Resolvido"
	default:
		return string(s)
	}
}

// Ticket is a support request as served by the ticket API.
type Ticket struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Categories  []Category   `json:"categories"`
	Severity    Severity     `json:"severity"`
	Status      TicketStatus `json:"status"`
	Comment     string       `json:"comment"`
	CommentUser string       `json:"comment_user"`
	CreatedAt   Timestamp    `json:"created_at"`
	UpdatedAt   Timestamp    `json:"updated_at"`
}

// TicketCreate is the creation payload.
type TicketCreate struct {
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	CategoryIDs    []string     `json:"category_ids"`
	SubcategoryIDs []string     `json:"subcategory_ids"`
	SeverityID     string       `json:"severity_id"`
	Status         TicketStatus `json:"status"`
	Comment        string       `json:"comment"`
	CommentUser    string       `json:"comment_user"`
}

// TicketUpdate is the partial-update payload sent by the edit form.
type TicketUpdate struct {
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	CategoryIDs    []string     `json:"category_ids"`
	SubcategoryIDs []string     `json:"subcategory_ids"`
	SeverityID     string       `json:"severity_id"`
	Status         TicketStatus `json:"status"`
}

// GeneratedComment is returned by the comment generation action.
type GeneratedComment struct {
	Comment     string `json:"comment"`
	CommentUser string `json:"comment_user"`
}

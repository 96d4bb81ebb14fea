package controller

import (
	"slices"

	"github.com/spec-kit/ticket-console/internal/domain"
)

// Attachment is a category together with the subcategories picked for it.
type Attachment struct {
	Category      domain.Category      `json:"category"`
	Subcategories []domain.Subcategory `json:"subcategories"`
}

// Attachments is the ordered category list of a ticket form. The same
// category may appear more than once.
type Attachments []Attachment

// AttachmentsFromTicket rebuilds the attachments of an existing ticket.
func AttachmentsFromTicket(ticket domain.Ticket) Attachments {
	out := make(Attachments, 0, len(ticket.Categories))
	for _, category := range ticket.Categories {
		out = append(out, Attachment{
			Category:      category,
			Subcategories: slices.Clone(category.Subcategories),
		})
	}
	return out
}

// Add appends an attachment.
func (a Attachments) Add(attachment Attachment) Attachments {
	return append(slices.Clone(a), attachment)
}

// Remove drops every attachment of categoryID.
func (a Attachments) Remove(categoryID string) Attachments {
	return slices.DeleteFunc(slices.Clone(a), func(att Attachment) bool {
		return att.Category.ID == categoryID
	})
}

// CategoryIDs lists category ids in attachment order.
func (a Attachments) CategoryIDs() []string {
	ids := make([]string, 0, len(a))
	for _, att := range a {
		ids = append(ids, att.Category.ID)
	}
	return ids
}

// SubcategoryIDs flattens the subcategory ids of every attachment.
func (a Attachments) SubcategoryIDs() []string {
	ids := []string{}
	for _, att := range a {
		for _, sub := range att.Subcategories {
			ids = append(ids, sub.ID)
		}
	}
	return ids
}

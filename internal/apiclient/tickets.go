package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/spec-kit/ticket-console/internal/domain"
)

var (
	opListTickets     = operation{name: "list_tickets", message: "Erro ao buscar tickets"}
	opGetTicket       = operation{name: "get_ticket", message: "Erro ao buscar ticket por ID"}
	opCreateTicket    = operation{name: "create_ticket", message: "Erro ao criar ticket"}
	opUpdateTicket    = operation{name: "update_ticket", message: "Erro ao atualizar ticket"}
	opDeleteTicket    = operation{name: "delete_ticket", message: "Erro ao deletar ticket"}
	opGenerateComment = operation{name: "generate_comment", message: "Erro ao gerar comentário"}
)

// ListTickets GET /api/v1/tickets.
func (g *Gateway) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	var tickets []domain.Ticket
	if err := g.do(ctx, opListTickets, http.MethodGet, "/api/v1/tickets", nil, nil, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// GetTicket GET /api/v1/tickets/{id}.
func (g *Gateway) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := g.do(ctx, opGetTicket, http.MethodGet, "/api/v1/tickets/"+url.PathEscape(id), nil, nil, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// CreateTicket POST /api/v1/tickets.
func (g *Gateway) CreateTicket(ctx context.Context, input domain.TicketCreate) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := g.do(ctx, opCreateTicket, http.MethodPost, "/api/v1/tickets", nil, input, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// UpdateTicket PATCH /api/v1/tickets/{id}.
func (g *Gateway) UpdateTicket(ctx context.Context, id string, input domain.TicketUpdate) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := g.do(ctx, opUpdateTicket, http.MethodPatch, "/api/v1/tickets/"+url.PathEscape(id), nil, input, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// DeleteTicket DELETE /api/v1/tickets/?ticket_id={id}.
func (g *Gateway) DeleteTicket(ctx context.Context, id string) error {
	return g.do(ctx, opDeleteTicket, http.MethodDelete, "/api/v1/tickets/", url.Values{"ticket_id": {id}}, nil, nil)
}

// GenerateComment POST /api/v1/tickets/add/{id}.
func (g *Gateway) GenerateComment(ctx context.Context, id string) (*domain.GeneratedComment, error) {
	var comment domain.GeneratedComment
	if err := g.do(ctx, opGenerateComment, http.MethodPost, "/api/v1/tickets/add/"+url.PathEscape(id), nil, nil, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

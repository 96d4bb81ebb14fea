package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/spec-kit/ticket-console/internal/domain"
)

var (
	opListSeverities = operation{name: "list_severities", message: "Erro ao buscar Severities"}
	opCreateSeverity = operation{name: "create_severity", message: "Erro ao criar severidade"}
	opUpdateSeverity = operation{name: "update_severity", message: "Erro ao atualizar severidade"}
	opDeleteSeverity = operation{name: "delete_severity", message: "Erro ao deletar severidade"}
)

// ListSeverities GET /api/v1/severities.
func (g *Gateway) ListSeverities(ctx context.Context) ([]domain.Severity, error) {
	var severities []domain.Severity
	if err := g.do(ctx, opListSeverities, http.MethodGet, "/api/v1/severities", nil, nil, &severities); err != nil {
		return nil, err
	}
	return severities, nil
}

// CreateSeverity POST /api/v1/severities.
func (g *Gateway) CreateSeverity(ctx context.Context, input domain.SeverityInput) (*domain.Severity, error) {
	var severity domain.Severity
	if err := g.do(ctx, opCreateSeverity, http.MethodPost, "/api/v1/severities", nil, input, &severity); err != nil {
		return nil, err
	}
	return &severity, nil
}

// UpdateSeverity PATCH /api/v1/severities/{id}.
func (g *Gateway) UpdateSeverity(ctx context.Context, id string, input domain.SeverityInput) (*domain.Severity, error) {
	var severity domain.Severity
	if err := g.do(ctx, opUpdateSeverity, http.MethodPatch, "/api/v1/severities/"+url.PathEscape(id), nil, input, &severity); err != nil {
		return nil, err
	}
	return &severity, nil
}

// DeleteSeverity DELETE /api/v1/severities/?severity_id={id}.
func (g *Gateway) DeleteSeverity(ctx context.Context, id string) error {
	return g.do(ctx, opDeleteSeverity, http.MethodDelete, "/api/v1/severities/", url.Values{"severity_id": {id}}, nil, nil)
}

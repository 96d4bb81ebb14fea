package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/spec-kit/ticket-console/internal/domain"
)

var (
	opListUsers        = operation{name: "list_users", message: "Erro ao buscar usuários"}
	opCreateUser       = operation{name: "create_user", message: "Erro ao criar usuário"}
	opUpdateUser       = operation{name: "update_user", message: "Erro ao atualizar usuário"}
	opDeleteUser       = operation{name: "delete_user", message: "Erro ao deletar usuário"}
	opCreateRandomUser = operation{name: "create_random_user", message: "Erro ao criar usuário aleatório"}
)

// ListUsers GET /api/v1/users.
func (g *Gateway) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := g.do(ctx, opListUsers, http.MethodGet, "/api/v1/users", nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser POST /api/v1/users.
func (g *Gateway) CreateUser(ctx context.Context, input domain.UserInput) (*domain.User, error) {
	var user domain.User
	if err := g.do(ctx, opCreateUser, http.MethodPost, "/api/v1/users", nil, input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser PATCH /api/v1/users/{id}.
func (g *Gateway) UpdateUser(ctx context.Context, id string, input domain.UserInput) (*domain.User, error) {
	var user domain.User
	if err := g.do(ctx, opUpdateUser, http.MethodPatch, "/api/v1/users/"+url.PathEscape(id), nil, input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser DELETE /api/v1/users/?user_id={id}.
func (g *Gateway) DeleteUser(ctx context.Context, id string) error {
	return g.do(ctx, opDeleteUser, http.MethodDelete, "/api/v1/users/", url.Values{"user_id": {id}}, nil, nil)
}

// CreateRandomUser POST /api/v1/users/create_random_user.
func (g *Gateway) CreateRandomUser(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if err := g.do(ctx, opCreateRandomUser, http.MethodPost, "/api/v1/users/create_random_user", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

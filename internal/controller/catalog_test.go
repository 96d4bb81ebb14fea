package controller

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-console/internal/apiclient"
	"github.com/spec-kit/ticket-console/internal/domain"
	"github.com/spec-kit/ticket-console/internal/events"
	apperrors "github.com/spec-kit/ticket-console/pkg/util"
)

func TestSeverityCatalog_CreateUpdateDelete(t *testing.T) {
	ctx := context.Background()
	gw := newFakeGateway()
	gw.severities = []domain.Severity{{ID: "s1", Level: 2, Description: "Alta"}}
	alerts := &alertLog{}
	catalog := NewSeverityCatalog(gw, testDeps(adminSession, alerts))
	require.NoError(t, catalog.Load(ctx))

	catalog.OpenCreate()
	assert.False(t, catalog.Modal().EditMode)
	created, err := catalog.Submit(ctx, domain.SeverityInput{Level: 5, Description: "Baixa"})
	require.NoError(t, err)
	assert.Len(t, catalog.Items(), 2)
	assert.Equal(t, MsgSeverityCreated, alerts.Last())
	assert.False(t, catalog.Modal().Open)

	_, err = catalog.OpenEdit("s1")
	require.NoError(t, err)
	assert.True(t, catalog.Modal().EditMode)
	_, err = catalog.Submit(ctx, domain.SeverityInput{Level: 2, Description: "Muito alta"})
	require.NoError(t, err)
	item, ok := catalog.Find("s1")
	require.True(t, ok)
	assert.Equal(t, "Muito alta", item.Description)
	assert.Equal(t, "s1", catalog.Items()[0].ID)

	deleted, err := catalog.Delete(ctx, created.ID, Confirmed)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Len(t, catalog.Items(), 1)
	assert.Equal(t, MsgSeverityDeleted, alerts.Last())
}

func TestSeverityCatalog_ZeroLevelIsRejected(t *testing.T) {
	gw := newFakeGateway()
	alerts := &alertLog{}
	catalog := NewSeverityCatalog(gw, testDeps(adminSession, alerts))
	catalog.OpenCreate()

	_, err := catalog.Submit(context.Background(), domain.SeverityInput{Level: 0, Description: "x"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
	assert.Equal(t, MsgRequiredFields, alerts.Last())
	assert.Empty(t, gw.Calls())
}

func TestCatalog_DeclinedDeleteKeepsRows(t *testing.T) {
	gw := newFakeGateway()
	gw.severities = []domain.Severity{{ID: "s1", Level: 2, Description: "Alta"}}
	catalog := NewSeverityCatalog(gw, testDeps(adminSession, &alertLog{}))
	require.NoError(t, catalog.Load(context.Background()))

	deleted, err := catalog.Delete(context.Background(), "s1", Declined)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Len(t, catalog.Items(), 1)
	assert.NotContains(t, gw.Calls(), "DeleteSeverity:s1")
}

func TestCatalog_LoadFailureAlerts(t *testing.T) {
	gw := newFakeGateway()
	gw.listErr = errBoom
	alerts := &alertLog{}
	catalog := NewUserCatalog(gw, testDeps(adminSession, alerts))

	err := catalog.Load(context.Background())
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUpstream))
	assert.Equal(t, MsgLoadUsersFailed, alerts.Last())
	assert.Equal(t, StateIdle, catalog.State())
}

func TestCatalog_UnauthorizedLoadRestoresState(t *testing.T) {
	gw := newFakeGateway()
	gw.listErr = apiclient.ErrUnauthorized
	alerts := &alertLog{}
	catalog := NewSeverityCatalog(gw, testDeps(adminSession, alerts))

	err := catalog.Load(context.Background())
	assert.ErrorIs(t, err, apiclient.ErrUnauthorized)
	assert.Empty(t, alerts.All())
	assert.Equal(t, StateIdle, catalog.State())
}

func TestUserCatalog_PasswordRequiredOnCreateOnly(t *testing.T) {
	ctx := context.Background()
	gw := newFakeGateway()
	gw.users = []domain.User{{ID: "u1", Name: "Ana", Username: "ana", Email: "ana@example.com", Role: domain.UserRoleUser}}
	alerts := &alertLog{}
	catalog := NewUserCatalog(gw, testDeps(adminSession, alerts))
	require.NoError(t, catalog.Load(ctx))

	input := domain.UserInput{Name: "Bia", Username: "bia", Email: "bia@example.com", Role: domain.UserRoleAdmin}
	catalog.OpenCreate()
	_, err := catalog.Submit(ctx, input)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
	assert.Equal(t, MsgUserFieldsRequired, alerts.Last())

	input.Password = "segredo"
	_, err = catalog.Submit(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, MsgUserCreated, alerts.Last())

	_, err = catalog.OpenEdit("u1")
	require.NoError(t, err)
	_, err = catalog.Submit(ctx, domain.UserInput{Name: "Ana Maria", Username: "ana", Email: "ana@example.com", Role: domain.UserRoleUser})
	require.NoError(t, err)
	item, _ := catalog.Find("u1")
	assert.Equal(t, "Ana Maria", item.Name)
}

func TestUserCatalog_RoleMustBeKnown(t *testing.T) {
	catalog := NewUserCatalog(newFakeGateway(), testDeps(adminSession, &alertLog{}))
	catalog.OpenCreate()

	_, err := catalog.Submit(context.Background(), domain.UserInput{
		Name: "X", Username: "x", Email: "x@example.com", Password: "p", Role: "root",
	})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestUserCatalog_CreateRandomAppendsAndJournals(t *testing.T) {
	gw := newFakeGateway()
	alerts := &alertLog{}
	dispatcher := events.NewInMemoryDispatcher()
	var journaled []events.EventType
	dispatcher.Subscribe(events.EventUserCreated, func(_ context.Context, e events.Event) error {
		journaled = append(journaled, e.Type)
		return nil
	})
	deps := testDeps(adminSession, alerts)
	deps.Events = dispatcher
	catalog := NewUserCatalog(gw, deps)

	user, err := catalog.CreateRandom(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.User{*user}, catalog.Items())
	assert.Equal(t, MsgRandomUserCreated, alerts.Last())
	assert.Equal(t, []events.EventType{events.EventUserCreated}, journaled)
}

func TestCategoryCatalog_ExpandAndNestedSubcategories(t *testing.T) {
	ctx := context.Background()
	gw := formGateway()
	alerts := &alertLog{}
	catalog := NewCategoryCatalog(gw, testDeps(adminSession, alerts))
	require.NoError(t, catalog.Load(ctx))

	require.NoError(t, catalog.Expand(ctx, "cat-hw"))
	assert.True(t, catalog.IsExpanded("cat-hw"))
	assert.Equal(t, []domain.Subcategory{mouse, monitor}, catalog.SubcategoriesOf("cat-hw"))

	require.NoError(t, catalog.OpenCreateSubcategory("cat-hw"))
	created, err := catalog.SubmitSubcategory(ctx, "Teclado")
	require.NoError(t, err)
	assert.Equal(t, "cat-hw", created.CategoryID)
	assert.Len(t, catalog.SubcategoriesOf("cat-hw"), 3)
	assert.Equal(t, MsgSubcategoryCreated, alerts.Last())

	_, err = catalog.OpenEditSubcategory("cat-hw", "sub-mouse")
	require.NoError(t, err)
	_, err = catalog.SubmitSubcategory(ctx, "Mouse sem fio")
	require.NoError(t, err)
	assert.Equal(t, 2, countCalls(gw, "ListSubcategories:cat-hw"))
	assert.Equal(t, "Mouse sem fio", catalog.SubcategoriesOf("cat-hw")[0].Name)

	deleted, err := catalog.DeleteSubcategory(ctx, "cat-hw", "sub-monitor", Confirmed)
	require.NoError(t, err)
	assert.True(t, deleted)
	for _, sub := range catalog.SubcategoriesOf("cat-hw") {
		assert.NotEqual(t, "sub-monitor", sub.ID)
	}

	catalog.Collapse("cat-hw")
	assert.False(t, catalog.IsExpanded("cat-hw"))
}

func TestCategoryCatalog_EmptyNamesAreRejected(t *testing.T) {
	ctx := context.Background()
	gw := formGateway()
	alerts := &alertLog{}
	catalog := NewCategoryCatalog(gw, testDeps(adminSession, alerts))
	require.NoError(t, catalog.Load(ctx))

	catalog.OpenCreate()
	_, err := catalog.Submit(ctx, domain.CategoryInput{})
	assert.Error(t, err)
	assert.Equal(t, MsgCategoryNameRequired, alerts.Last())

	require.NoError(t, catalog.OpenCreateSubcategory("cat-net"))
	_, err = catalog.SubmitSubcategory(ctx, "   ")
	assert.Error(t, err)
	assert.Equal(t, MsgSubcategoryNameRequired, alerts.Last())
	assert.NotContains(t, gw.Calls(), "CreateSubcategory:cat-net")
}

func TestCategoryCatalog_DeleteForgetsExpandedRow(t *testing.T) {
	ctx := context.Background()
	catalog := NewCategoryCatalog(formGateway(), testDeps(adminSession, &alertLog{}))
	require.NoError(t, catalog.Load(ctx))
	require.NoError(t, catalog.Expand(ctx, "cat-net"))

	deleted, err := catalog.Delete(ctx, "cat-net", Confirmed)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.False(t, catalog.IsExpanded("cat-net"))
	assert.Empty(t, catalog.SubcategoriesOf("cat-net"))
	assert.Len(t, catalog.Items(), 1)
}

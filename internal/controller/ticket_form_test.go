package controller

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-console/internal/apiclient"
	"github.com/spec-kit/ticket-console/internal/domain"
	apperrors "github.com/spec-kit/ticket-console/pkg/util"
)

var (
	hardware = domain.Category{ID: "cat-hw", Name: "Hardware"}
	network  = domain.Category{ID: "cat-net", Name: "Rede"}
	mouse    = domain.Subcategory{ID: "sub-mouse", Name: "Mouse", CategoryID: "cat-hw"}
	monitor  = domain.Subcategory{ID: "sub-monitor", Name: "Monitor", CategoryID: "cat-hw"}
	wifi     = domain.Subcategory{ID: "sub-wifi", Name: "Wi-Fi", CategoryID: "cat-net"}
)

func formGateway() *fakeGateway {
	gw := newFakeGateway()
	gw.severities = []domain.Severity{{ID: "sev-1", Level: 1, Description: "Crítica"}, {ID: "sev-3", Level: 3, Description: "Média"}}
	gw.categories = []domain.Category{hardware, network}
	gw.subcategories["cat-hw"] = []domain.Subcategory{mouse, monitor}
	gw.subcategories["cat-net"] = []domain.Subcategory{wifi}
	return gw
}

func fillCreateForm(t *testing.T, form *TicketCreate, severityID string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, form.LoadSeverities(ctx))
	form.SetText("Mouse quebrado", "O mouse parou de funcionar")
	form.SetSeverity(severityID)

	selector := form.Selector()
	require.NoError(t, selector.Open(ctx))
	require.NoError(t, selector.SelectCategory(ctx, "cat-hw"))
	require.NoError(t, selector.Toggle("sub-mouse"))
	require.NoError(t, form.ConfirmSelection())
}

func TestTicketCreate_EmptyTitleMakesNoCall(t *testing.T) {
	gw := formGateway()
	alerts := &alertLog{}
	list := NewTicketList(gw, testDeps(adminSession, alerts))
	form := NewTicketCreate(gw, testDeps(adminSession, alerts), list.Refresh)

	form.SetText("", "sem título")
	form.SetSeverity("sev-3")
	form.AddAttachment(Attachment{Category: hardware, Subcategories: []domain.Subcategory{mouse}})

	created, err := form.Submit(context.Background())
	assert.Nil(t, created)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
	assert.Equal(t, MsgRequiredFields, alerts.Last())
	assert.Empty(t, gw.Calls())
	assert.Empty(t, list.Tickets())
}

func TestTicketCreate_RequiresAnAttachment(t *testing.T) {
	gw := formGateway()
	alerts := &alertLog{}
	form := NewTicketCreate(gw, testDeps(adminSession, alerts), nil)
	form.SetText("Título", "Descrição")
	form.SetSeverity("sev-3")

	_, err := form.Submit(context.Background())
	require.Error(t, err)
	assert.NotContains(t, gw.Calls(), "CreateTicket")
}

func TestTicketCreate_SuccessRefreshesList(t *testing.T) {
	gw := formGateway()
	alerts := &alertLog{}
	list := NewTicketList(gw, testDeps(adminSession, alerts))
	form := NewTicketCreate(gw, testDeps(adminSession, alerts), list.Refresh)
	fillCreateForm(t, form, "sev-3")

	created, err := form.Submit(context.Background())
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, domain.TicketCreate{
		Title:          "Mouse quebrado",
		Description:    "O mouse parou de funcionar",
		CategoryIDs:    []string{"cat-hw"},
		SubcategoryIDs: []string{"sub-mouse"},
		SeverityID:     "sev-3",
		Status:         domain.TicketStatusOpen,
	}, gw.lastCreate)
	assert.Contains(t, alerts.All(), MsgTicketCreated)
	assert.Equal(t, []string{created.ID}, ids(list.Tickets()))

	select {
	case <-form.Done():
	default:
		t.Fatal("form stays open after a successful submit")
	}
}

func TestTicketCreate_SeverityLevelOneShowsEmergencyMessage(t *testing.T) {
	gw := formGateway()
	gw.createTicketErr = &apiclient.Error{
		Operation:  "create_ticket",
		Message:    "Erro ao criar ticket",
		StatusCode: http.StatusBadRequest,
		Detail:     SeverityLevelOneDetail,
	}
	alerts := &alertLog{}
	list := NewTicketList(gw, testDeps(adminSession, alerts))
	require.NoError(t, list.Load(context.Background()))
	form := NewTicketCreate(gw, testDeps(adminSession, alerts), list.Refresh)
	fillCreateForm(t, form, "sev-1")

	created, err := form.Submit(context.Background())
	assert.Nil(t, created)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeBusinessRule))
	assert.Equal(t, MsgEmergencySupport, alerts.Last())
	assert.Empty(t, list.Tickets())
	assert.Equal(t, 1, countCalls(gw, "ListTickets"))
}

func TestTicketCreate_OtherFailuresShowTheSameMessage(t *testing.T) {
	gw := formGateway()
	gw.createTicketErr = errBoom
	alerts := &alertLog{}
	form := NewTicketCreate(gw, testDeps(adminSession, alerts), nil)
	fillCreateForm(t, form, "sev-3")

	_, err := form.Submit(context.Background())
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUpstream))
	assert.Equal(t, MsgEmergencySupport, alerts.Last())
}

func TestTicketForm_DuplicateAttachmentsAndRemove(t *testing.T) {
	form := NewTicketCreate(formGateway(), testDeps(adminSession, &alertLog{}), nil)
	form.AddAttachment(Attachment{Category: hardware, Subcategories: []domain.Subcategory{mouse}})
	form.AddAttachment(Attachment{Category: network, Subcategories: []domain.Subcategory{wifi}})
	form.AddAttachment(Attachment{Category: hardware, Subcategories: []domain.Subcategory{monitor}})

	fields := form.Fields()
	assert.Equal(t, []string{"cat-hw", "cat-net", "cat-hw"}, fields.Attachments.CategoryIDs())
	assert.Equal(t, []string{"sub-mouse", "sub-wifi", "sub-monitor"}, fields.Attachments.SubcategoryIDs())

	form.RemoveAttachment("cat-hw")
	assert.Equal(t, []string{"cat-net"}, form.Fields().Attachments.CategoryIDs())
}

func TestTicketEdit_PrefillsAndSendsPartialUpdate(t *testing.T) {
	gw := formGateway()
	alerts := &alertLog{}
	ticket := ticketWithLevel("t-1", 3, at(1))
	ticket.Categories = []domain.Category{{ID: "cat-hw", Name: "Hardware", Subcategories: []domain.Subcategory{mouse}}}

	gw.tickets = []domain.Ticket{ticket}
	list := NewTicketList(gw, testDeps(adminSession, alerts))
	require.NoError(t, list.Load(context.Background()))
	_, err := list.OpenEdit("t-1")
	require.NoError(t, err)

	form := NewTicketEdit(ticket, gw, testDeps(adminSession, alerts), list.ApplyUpdate)
	fields := form.Fields()
	assert.Equal(t, ticket.Title, fields.Title)
	assert.Equal(t, "sev-t-1", fields.SeverityID)
	require.Len(t, fields.Attachments, 1)
	assert.Equal(t, []string{"sub-mouse"}, fields.Attachments.SubcategoryIDs())

	assert.Error(t, form.SetStatus("fechado"))
	require.NoError(t, form.SetStatus(domain.TicketStatusResolved))
	form.SetText("Título editado", ticket.Description)

	updated, err := form.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.TicketUpdate{
		Title:          "Título editado",
		Description:    ticket.Description,
		CategoryIDs:    []string{"cat-hw"},
		SubcategoryIDs: []string{"sub-mouse"},
		SeverityID:     "sev-t-1",
		Status:         domain.TicketStatusResolved,
	}, gw.lastUpdate)
	assert.Equal(t, MsgTicketUpdated, alerts.Last())

	selected, ok := list.Selected()
	require.True(t, ok)
	assert.Equal(t, updated.Title, selected.Title)
	assert.Equal(t, StateSelected, list.State())
}

func TestTicketEdit_FailureAlerts(t *testing.T) {
	gw := formGateway()
	gw.updateTicketErr = errBoom
	alerts := &alertLog{}
	ticket := ticketWithLevel("t-1", 3, at(1))
	ticket.Categories = []domain.Category{hardware}

	form := NewTicketEdit(ticket, gw, testDeps(adminSession, alerts), nil)
	_, err := form.Submit(context.Background())
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUpstream))
	assert.Equal(t, MsgTicketUpdateFailed, alerts.Last())
}

func countCalls(gw *fakeGateway, name string) int {
	n := 0
	for _, call := range gw.Calls() {
		if call == name {
			n++
		}
	}
	return n
}

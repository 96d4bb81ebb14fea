package controller

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-console/internal/apiclient"
	"github.com/spec-kit/ticket-console/internal/domain"
	"github.com/spec-kit/ticket-console/internal/events"
	apperrors "github.com/spec-kit/ticket-console/pkg/util"
)

func ids(tickets []domain.Ticket) []string {
	out := make([]string, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, t.ID)
	}
	return out
}

func loadedList(t *testing.T, session *domain.Session, tickets ...domain.Ticket) (*TicketList, *fakeGateway, *alertLog) {
	t.Helper()
	gw := newFakeGateway()
	gw.tickets = tickets
	alerts := &alertLog{}
	list := NewTicketList(gw, testDeps(session, alerts))
	list.Mount()
	require.NoError(t, list.Load(context.Background()))
	return list, gw, alerts
}

func TestTicketList_SortsByLevelThenNewest(t *testing.T) {
	list, _, _ := loadedList(t, adminSession,
		ticketWithLevel("two", 2, at(1)),
		ticketWithLevel("four", 4, at(2)),
		ticketWithLevel("three", 3, at(3)),
	)

	assert.Equal(t, []string{"four", "three", "two"}, ids(list.Tickets()))
	assert.Equal(t, StateReady, list.State())
}

func TestSortTickets_NewestFirstWithinLevel(t *testing.T) {
	tickets := []domain.Ticket{
		ticketWithLevel("old", 3, at(1)),
		ticketWithLevel("tie-a", 3, at(5)),
		ticketWithLevel("new", 3, at(9)),
		ticketWithLevel("tie-b", 3, at(5)),
		ticketWithLevel("low", 1, at(30)),
	}
	SortTickets(tickets)
	assert.Equal(t, []string{"new", "tie-a", "tie-b", "old", "low"}, ids(tickets))
}

func TestTicketList_SelectAndDismiss(t *testing.T) {
	list, _, _ := loadedList(t, adminSession, ticketWithLevel("a", 2, at(1)))

	_, err := list.Select("missing")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	ticket, err := list.Select("a")
	require.NoError(t, err)
	assert.Equal(t, "a", ticket.ID)
	assert.Equal(t, StateSelected, list.State())

	_, err = list.OpenEdit("a")
	require.NoError(t, err)
	assert.True(t, list.Editing())

	assert.True(t, list.Dismiss(DismissEscape))
	_, selected := list.Selected()
	assert.False(t, selected)
	assert.Equal(t, StateReady, list.State())
	assert.False(t, list.Dismiss(DismissOutsideClick))
}

func TestTicketList_DismissListenerRemovedOnTeardown(t *testing.T) {
	list, _, _ := loadedList(t, adminSession, ticketWithLevel("a", 2, at(1)))
	_, err := list.Select("a")
	require.NoError(t, err)

	list.Teardown()
	assert.False(t, list.Listening())
	assert.False(t, list.Dismiss(DismissEscape))
	assert.True(t, list.Dismiss(DismissClose))
}

func TestTicketList_DeleteConfirmed(t *testing.T) {
	list, gw, alerts := loadedList(t, adminSession,
		ticketWithLevel("a", 2, at(1)),
		ticketWithLevel("b", 3, at(2)),
		ticketWithLevel("c", 4, at(3)),
	)
	_, err := list.Select("b")
	require.NoError(t, err)

	var journal []events.Event
	dispatcher := events.NewInMemoryDispatcher()
	dispatcher.Subscribe(events.EventTicketDeleted, func(_ context.Context, e events.Event) error {
		journal = append(journal, e)
		return nil
	})
	list.deps.Events = dispatcher

	deleted, err := list.Delete(context.Background(), "b", Confirmed)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, []string{"c", "a"}, ids(list.Tickets()))
	_, selected := list.Selected()
	assert.False(t, selected)
	assert.Contains(t, gw.Calls(), "DeleteTicket:b")
	assert.Equal(t, MsgTicketDeleted, alerts.Last())
	require.Len(t, journal, 1)
	assert.Equal(t, "b", journal[0].EntityID)
	assert.Equal(t, "sess-admin", journal[0].Actor.SessionID)
}

func TestTicketList_DeleteDeclined(t *testing.T) {
	list, gw, _ := loadedList(t, adminSession,
		ticketWithLevel("a", 2, at(1)),
		ticketWithLevel("b", 3, at(2)),
	)
	var prompt string
	deleted, err := list.Delete(context.Background(), "b", ConfirmFunc(func(p string) bool {
		prompt = p
		return false
	}))
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, MsgConfirmDeleteTicket, prompt)
	assert.Equal(t, []string{"b", "a"}, ids(list.Tickets()))
	assert.NotContains(t, gw.Calls(), "DeleteTicket:b")
}

func TestTicketList_DeleteFailureKeepsList(t *testing.T) {
	list, gw, alerts := loadedList(t, adminSession, ticketWithLevel("a", 2, at(1)))
	gw.deleteErr = errBoom

	deleted, err := list.Delete(context.Background(), "a", Confirmed)
	assert.False(t, deleted)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUpstream))
	assert.Equal(t, []string{"a"}, ids(list.Tickets()))
	assert.Equal(t, MsgTicketDeleteFailed, alerts.Last())
}

func TestTicketList_AdminActionsForbiddenWithoutScope(t *testing.T) {
	list, gw, _ := loadedList(t, userSession, ticketWithLevel("a", 2, at(1)))
	_, err := list.Select("a")
	require.NoError(t, err)

	assert.False(t, list.CanDelete())
	assert.False(t, list.CanGenerateComment())

	_, err = list.Delete(context.Background(), "a", Confirmed)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))
	_, err = list.GenerateComment(context.Background())
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))
	assert.Equal(t, []string{"ListTickets"}, gw.Calls())
}

func TestTicketList_GenerateCommentPatchesOnlyCommentFields(t *testing.T) {
	original := ticketWithLevel("a", 2, at(1))
	list, gw, alerts := loadedList(t, adminSession, original, ticketWithLevel("b", 3, at(2)))
	gw.generated = domain.GeneratedComment{Comment: "Resolvido via reset", CommentUser: "bot"}
	_, err := list.Select("a")
	require.NoError(t, err)

	patched, err := list.GenerateComment(context.Background())
	require.NoError(t, err)

	want := original
	want.Comment = "Resolvido via reset"
	want.CommentUser = "bot"
	assert.Equal(t, want, patched)

	selected, ok := list.Selected()
	require.True(t, ok)
	assert.Equal(t, want, selected)
	for _, ticket := range list.Tickets() {
		if ticket.ID == "a" {
			assert.Equal(t, want, ticket)
		} else {
			assert.Empty(t, ticket.Comment)
		}
	}
	assert.Equal(t, MsgCommentGenerated, alerts.Last())
}

func TestTicketList_ApplyUpdateSelectsAndClosesEdit(t *testing.T) {
	list, _, _ := loadedList(t, adminSession, ticketWithLevel("a", 2, at(1)))
	_, err := list.OpenEdit("a")
	require.NoError(t, err)

	updated := ticketWithLevel("a", 2, at(1))
	updated.Title = "Novo título"
	list.ApplyUpdate(updated)

	assert.Equal(t, StateSelected, list.State())
	selected, ok := list.Selected()
	require.True(t, ok)
	assert.Equal(t, "Novo título", selected.Title)
	assert.Equal(t, "Novo título", list.Tickets()[0].Title)
}

func TestTicketList_LoadFailureAlertsAndKeepsState(t *testing.T) {
	list, gw, alerts := loadedList(t, adminSession, ticketWithLevel("a", 2, at(1)))
	gw.listErr = errBoom

	err := list.Load(context.Background())
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUpstream))
	assert.Equal(t, []string{"a"}, ids(list.Tickets()))
	assert.Equal(t, StateReady, list.State())
	assert.Equal(t, MsgLoadTicketsFailed, alerts.Last())
}

func TestTicketList_UnauthorizedPassesThroughWithoutAlert(t *testing.T) {
	gw := newFakeGateway()
	gw.listErr = apiclient.ErrUnauthorized
	alerts := &alertLog{}
	list := NewTicketList(gw, testDeps(adminSession, alerts))

	err := list.Load(context.Background())
	assert.ErrorIs(t, err, apiclient.ErrUnauthorized)
	assert.Empty(t, alerts.All())
	assert.Equal(t, StateIdle, list.State())
}

func TestTicketList_ResultAfterTeardownIsDiscarded(t *testing.T) {
	gw := newFakeGateway()
	gw.tickets = []domain.Ticket{ticketWithLevel("a", 2, at(1))}
	gw.block = make(chan struct{})
	list := NewTicketList(gw, testDeps(adminSession, &alertLog{}))

	done := make(chan error, 1)
	go func() { done <- list.Load(context.Background()) }()

	require.Eventually(t, func() bool { return len(gw.Calls()) == 1 }, time.Second, 5*time.Millisecond)
	list.Teardown()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrTornDown)
	case <-time.After(time.Second):
		t.Fatal("load did not return after teardown")
	}
	assert.Empty(t, list.Tickets())
}

func TestTicketList_UnauthorizedWinsOverTeardown(t *testing.T) {
	gw := newFakeGateway()
	gw.listErr = apiclient.ErrUnauthorized
	list := NewTicketList(gw, testDeps(adminSession, &alertLog{}))
	// Ending the session tears the list down before the 401 is seen.
	list.Teardown()

	err := list.Load(context.Background())
	assert.ErrorIs(t, err, apiclient.ErrUnauthorized)
}

package controller

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-console/internal/domain"
	apperrors "github.com/spec-kit/ticket-console/pkg/util"
)

func TestCategorySelector_ConfirmNeedsACheckedSubcategory(t *testing.T) {
	ctx := context.Background()
	selector := NewCategorySelector(formGateway(), testDeps(adminSession, &alertLog{}))

	require.NoError(t, selector.Open(ctx))
	assert.False(t, selector.CanConfirm())

	require.NoError(t, selector.SelectCategory(ctx, "cat-hw"))
	assert.False(t, selector.CanConfirm())
	_, err := selector.Confirm()
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	require.NoError(t, selector.Toggle("sub-monitor"))
	assert.True(t, selector.CanConfirm())

	require.NoError(t, selector.Toggle("sub-monitor"))
	assert.False(t, selector.CanConfirm())
}

func TestCategorySelector_ConfirmReturnsPicksInListOrder(t *testing.T) {
	ctx := context.Background()
	selector := NewCategorySelector(formGateway(), testDeps(adminSession, &alertLog{}))
	require.NoError(t, selector.Open(ctx))
	require.NoError(t, selector.SelectCategory(ctx, "cat-hw"))
	require.NoError(t, selector.Toggle("sub-monitor"))
	require.NoError(t, selector.Toggle("sub-mouse"))

	attachment, err := selector.Confirm()
	require.NoError(t, err)
	assert.Equal(t, hardware, attachment.Category)
	assert.Equal(t, []domain.Subcategory{mouse, monitor}, attachment.Subcategories)
	assert.False(t, selector.IsOpen())
}

func TestCategorySelector_ChangingCategoryResetsChecks(t *testing.T) {
	ctx := context.Background()
	selector := NewCategorySelector(formGateway(), testDeps(adminSession, &alertLog{}))
	require.NoError(t, selector.Open(ctx))
	require.NoError(t, selector.SelectCategory(ctx, "cat-hw"))
	require.NoError(t, selector.Toggle("sub-mouse"))

	require.NoError(t, selector.SelectCategory(ctx, "cat-net"))
	assert.False(t, selector.IsChecked("sub-mouse"))
	assert.False(t, selector.CanConfirm())
	assert.Equal(t, []domain.Subcategory{wifi}, selector.Subcategories())

	err := selector.Toggle("sub-mouse")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestCategorySelector_UnknownCategory(t *testing.T) {
	selector := NewCategorySelector(formGateway(), testDeps(adminSession, &alertLog{}))
	require.NoError(t, selector.Open(context.Background()))

	err := selector.SelectCategory(context.Background(), "nope")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestCategorySelector_StaleSubcategoryResponseIsDropped(t *testing.T) {
	ctx := context.Background()
	gw := formGateway()
	selector := NewCategorySelector(gw, testDeps(adminSession, &alertLog{}))
	require.NoError(t, selector.Open(ctx))

	gw.block = make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- selector.SelectCategory(ctx, "cat-hw") }()
	require.Eventually(t, func() bool { return countCalls(gw, "ListSubcategories:cat-hw") == 1 }, time.Second, 5*time.Millisecond)

	selector.mu.Lock()
	selector.categoryID = "cat-net"
	selector.mu.Unlock()
	close(gw.block)

	require.NoError(t, <-done)
	assert.Empty(t, selector.Subcategories())
}

func TestCategorySelector_LoadFailureAlerts(t *testing.T) {
	gw := formGateway()
	gw.listErr = errBoom
	alerts := &alertLog{}
	selector := NewCategorySelector(gw, testDeps(adminSession, alerts))

	err := selector.Open(context.Background())
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUpstream))
	assert.Equal(t, MsgLoadCategoriesFailed, alerts.Last())
	assert.False(t, selector.IsOpen())
}

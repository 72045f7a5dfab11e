package services

import (
	"context"
	"testing"

	"github.com/americanbox/americanbox-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComplaintService(t *testing.T) {
	db := setupServiceDB(t)
	ctx := context.Background()
	seedSettings(t, db, 5.00)

	maria := createCustomerUser(t, db, "maria", nil)
	jose := createCustomerUser(t, db, "jose", nil)
	admin, err := NewAuthService(db).CreateAdmin(ctx, "admin", "adminpass")
	require.NoError(t, err)

	order, err := NewOrderService(db).Create(ctx, CreateOrderInput{UserID: maria.ID})
	require.NoError(t, err)

	complaints := NewComplaintService(db)

	created, err := complaints.Create(ctx, maria.ID, CreateComplaintInput{
		OrderID:     &order.ID,
		Subject:     " Paquete incompleto ",
		Description: "Faltó un artículo",
	})
	require.NoError(t, err)
	assert.Equal(t, "Paquete incompleto", created.Subject)
	assert.Equal(t, "medium", created.Priority)
	assert.Equal(t, models.ComplaintOpen, created.Status)

	_, err = complaints.Create(ctx, jose.ID, CreateComplaintInput{OrderID: &order.ID, Subject: "x", Description: "y"})
	assert.ErrorIs(t, err, ErrOrderNotFound, "complaints cannot reference another customer's order")

	_, err = complaints.Create(ctx, jose.ID, CreateComplaintInput{Subject: "x", Description: "y", Priority: "urgent"})
	assert.Error(t, err)

	_, err = complaints.Create(ctx, jose.ID, CreateComplaintInput{Subject: "Demora", Description: "Sin novedades", Priority: "high"})
	require.NoError(t, err)

	all, err := complaints.List(ctx, nil, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := complaints.List(ctx, &maria.ID, "")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].User)
	assert.Equal(t, "maria", mine[0].User.Username)

	resolved := models.ComplaintResolved
	answered, err := complaints.Respond(ctx, created.ID, admin.ID, UpdateComplaintInput{
		Status:        &resolved,
		AdminResponse: strPtr("Reenviamos el artículo"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.ComplaintResolved, answered.Status)
	require.NotNil(t, answered.AdminUserID)
	assert.Equal(t, admin.ID, *answered.AdminUserID)
	assert.NotNil(t, answered.RespondedAt)

	open, err := complaints.List(ctx, nil, models.ComplaintOpen)
	require.NoError(t, err)
	assert.Len(t, open, 1)

	bogus := "lost"
	_, err = complaints.Respond(ctx, created.ID, admin.ID, UpdateComplaintInput{Status: &bogus})
	assert.Error(t, err)

	_, err = complaints.Respond(ctx, 9999, admin.ID, UpdateComplaintInput{})
	assert.ErrorIs(t, err, ErrComplaintNotFound)
}

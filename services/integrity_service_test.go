package services

import (
	"context"
	"testing"

	"github.com/americanbox/americanbox-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegrityService_CheckOrders(t *testing.T) {
	db := setupServiceDB(t)
	ctx := context.Background()
	seedSettings(t, db, 5.00)

	maria := createCustomerUser(t, db, "maria", floatPtr(3.50))
	orders := NewOrderService(db)
	priced, err := orders.Create(ctx, CreateOrderInput{UserID: maria.ID, WeightLbs: floatPtr(3.75)})
	require.NoError(t, err)
	_, err = orders.Create(ctx, CreateOrderInput{UserID: maria.ID, Status: models.StatusReceived})
	require.NoError(t, err)

	integrity := NewIntegrityService(db)

	report, err := integrity.CheckOrders(ctx)
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.True(t, report.CountsMatch)
	assert.EqualValues(t, 2, report.CountedTotal)

	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", priced.ID).Update("total", 99).Error)
	require.NoError(t, db.Create(&models.User{Username: "sinaddr", PasswordHash: "x", Role: models.RoleCustomer}).Error)

	report, err = integrity.CheckOrders(ctx)
	require.NoError(t, err)
	assert.False(t, report.OK())
	require.Len(t, report.PriceMismatches, 1)
	assert.Equal(t, priced.Guide, report.PriceMismatches[0].Guide)
	assert.Equal(t, 13.13, report.PriceMismatches[0].Expected)
	assert.Equal(t, []string{"sinaddr"}, report.UsersWithoutAddrs)
	assert.Empty(t, report.WithoutAddress)
}

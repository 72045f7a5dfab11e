package services

import (
	"context"
	"testing"

	"github.com/americanbox/americanbox-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegistration() RegisterInput {
	return RegisterInput{
		Username: "  Maria.Lopez ",
		Password: "secret123",
		Names:    "María López",
		Email:    "maria@example.com",
		DNI:      "1712345678",
		Address:  "Av. Amazonas 123",
		City:     "Quito",
	}
}

func TestAuthService_Register(t *testing.T) {
	db := setupServiceDB(t)
	ctx := context.Background()
	auth := NewAuthService(db)

	user, err := auth.Register(ctx, validRegistration())
	require.NoError(t, err)

	assert.Equal(t, "maria.lopez", user.Username)
	assert.Equal(t, models.RoleCustomer, user.Role)
	assert.False(t, user.Admin())
	require.NotNil(t, user.Customer)
	assert.Equal(t, "María López", user.Customer.Names)
	assert.Nil(t, user.Customer.PricePerLb, "registration never sets a price override")

	require.Len(t, user.Addresses, 1)
	assert.Equal(t, "Av. Amazonas 123", user.Addresses[0].Address)
	assert.Equal(t, "Quito", user.Addresses[0].City)
	assert.NotEqual(t, "secret123", user.PasswordHash)
}

func TestAuthService_Register_Rejects(t *testing.T) {
	db := setupServiceDB(t)
	ctx := context.Background()
	auth := NewAuthService(db)

	_, err := auth.Register(ctx, validRegistration())
	require.NoError(t, err)

	t.Run("duplicate username ignores case", func(t *testing.T) {
		input := validRegistration()
		input.Username = "MARIA.LOPEZ"
		_, err := auth.Register(ctx, input)
		assert.ErrorIs(t, err, ErrUsernameExists)
	})

	t.Run("blank address", func(t *testing.T) {
		input := validRegistration()
		input.Username = "pedro"
		input.Address = "   "
		_, err := auth.Register(ctx, input)
		assert.ErrorIs(t, err, ErrAddressRequired)
	})

	t.Run("blank username", func(t *testing.T) {
		input := validRegistration()
		input.Username = "  "
		_, err := auth.Register(ctx, input)
		appErr, ok := AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	})

	var users, customers, addresses int64
	db.Model(&models.User{}).Count(&users)
	db.Model(&models.Customer{}).Count(&customers)
	db.Model(&models.Address{}).Count(&addresses)
	assert.EqualValues(t, 1, users)
	assert.EqualValues(t, 1, customers, "failed registrations leave no profile behind")
	assert.EqualValues(t, 1, addresses)
}

func TestAuthService_Authenticate(t *testing.T) {
	db := setupServiceDB(t)
	ctx := context.Background()
	auth := NewAuthService(db)

	registered, err := auth.Register(ctx, validRegistration())
	require.NoError(t, err)

	user, err := auth.Authenticate(ctx, "Maria.Lopez", "secret123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, err = auth.Authenticate(ctx, "maria.lopez", "wrong")
	assert.ErrorIs(t, err, ErrInvalidLogin)

	_, err = auth.Authenticate(ctx, "nobody", "secret123")
	assert.ErrorIs(t, err, ErrInvalidLogin)
}

func TestAuthService_ChangePassword(t *testing.T) {
	db := setupServiceDB(t)
	ctx := context.Background()
	auth := NewAuthService(db)

	user, err := auth.Register(ctx, validRegistration())
	require.NoError(t, err)

	assert.ErrorIs(t, auth.ChangePassword(ctx, user.ID, "wrong", "newsecret"), ErrInvalidLogin)
	assert.Error(t, auth.ChangePassword(ctx, user.ID, "secret123", "123"))
	assert.ErrorIs(t, auth.ChangePassword(ctx, 9999, "secret123", "newsecret"), ErrUserNotFound)

	require.NoError(t, auth.ChangePassword(ctx, user.ID, "secret123", "newsecret"))

	_, err = auth.Authenticate(ctx, "maria.lopez", "secret123")
	assert.ErrorIs(t, err, ErrInvalidLogin)
	_, err = auth.Authenticate(ctx, "maria.lopez", "newsecret")
	assert.NoError(t, err)
}

func TestAuthService_CreateAdmin(t *testing.T) {
	db := setupServiceDB(t)
	ctx := context.Background()
	auth := NewAuthService(db)

	admin, err := auth.CreateAdmin(ctx, "Admin", "adminpass")
	require.NoError(t, err)
	assert.Equal(t, "admin", admin.Username)
	assert.True(t, admin.Admin())
	assert.Nil(t, admin.CustomerID)

	_, err = auth.CreateAdmin(ctx, "admin", "adminpass")
	assert.Error(t, err)

	_, err = auth.CreateAdmin(ctx, "other", "short")
	assert.Error(t, err)

	logged, err := auth.Authenticate(ctx, "admin", "adminpass")
	require.NoError(t, err)
	assert.True(t, logged.Admin())
}

package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crmhub/internal/models"
	"crmhub/internal/repositories"
	"crmhub/internal/utils"
)

func newTestUserService(t *testing.T) (UserService, *fakeUserRepo, repositories.OutboxRepository) {
	t.Helper()
	repo := newFakeUserRepo()
	outbox := repositories.NewOutboxRepository()
	emailService := NewMockEmailService(outbox)
	smsClient := utils.NewSMSClient("", "", "CRMHub", true)
	smsService := NewSMSService(smsClient, outbox)
	svc := NewUserService(repo, emailService, smsService, NewAuthService(), "http://localhost:8080/login")
	return svc, repo, outbox
}

func TestProvisionUser(t *testing.T) {
	ctx := context.Background()

	t.Run("creates account with generated credentials", func(t *testing.T) {
		svc, repo, outbox := newTestUserService(t)

		user, creds, err := svc.ProvisionUser(ctx, ProvisionUserInput{
			Email:     "Jane.Doe@Example.com",
			FirstName: "Jane",
			LastName:  "Doe",
			Phone:     "+15550100",
			Role:      models.RoleEditor,
		})
		require.NoError(t, err)
		require.NotNil(t, creds)

		assert.Equal(t, "jane.doe@example.com", user.Email)
		assert.Equal(t, models.RoleEditor, user.Role)
		assert.True(t, user.IsActive)
		assert.NotEmpty(t, user.ID)

		assert.Equal(t, user.Username, creds.Username)
		assert.NotEmpty(t, creds.Password)
		assert.NotEqual(t, creds.Password, user.PasswordHash)
		assert.True(t, strings.HasPrefix(user.PasswordHash, "$2"))

		stored, err := repo.GetByEmail(ctx, "jane.doe@example.com")
		require.NoError(t, err)
		require.NotNil(t, stored)

		// welcome email and SMS are captured by the mock outbox
		msgs := outbox.List()
		require.Len(t, msgs, 2)
		assert.Equal(t, models.OutboxEmail, msgs[0].Kind)
		assert.Equal(t, "jane.doe@example.com", msgs[0].To)
		assert.Contains(t, msgs[0].Body, creds.Password)
		assert.Equal(t, models.OutboxSMS, msgs[1].Kind)
		assert.Equal(t, "+15550100", msgs[1].To)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		svc, _, _ := newTestUserService(t)

		_, _, err := svc.ProvisionUser(ctx, ProvisionUserInput{Email: "dup@example.com", Role: models.RoleViewer})
		require.NoError(t, err)

		_, _, err = svc.ProvisionUser(ctx, ProvisionUserInput{Email: "DUP@example.com", Role: models.RoleViewer})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		svc, _, _ := newTestUserService(t)

		_, _, err := svc.ProvisionUser(ctx, ProvisionUserInput{Email: "x@example.com", Role: "SUPERUSER"})
		require.Error(t, err)
	})

	t.Run("no sms without a phone number", func(t *testing.T) {
		svc, _, outbox := newTestUserService(t)

		_, _, err := svc.ProvisionUser(ctx, ProvisionUserInput{Email: "nophone@example.com", Role: models.RolePartner})
		require.NoError(t, err)

		for _, msg := range outbox.List() {
			assert.NotEqual(t, models.OutboxSMS, msg.Kind)
		}
	})
}

func TestGeneratedCredentials(t *testing.T) {
	username, err := utils.GenerateUsername("Jane", "Doe")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(username, "jane.doe"))

	password, err := utils.GeneratePassword(12)
	require.NoError(t, err)
	assert.Len(t, password, 12)

	other, err := utils.GeneratePassword(12)
	require.NoError(t, err)
	assert.NotEqual(t, password, other)
}

func TestDeactivateUser(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestUserService(t)

	user, _, err := svc.ProvisionUser(ctx, ProvisionUserInput{Email: "gone@example.com", Role: models.RoleViewer})
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateUser(ctx, user.ID))

	stored, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.False(t, stored.IsActive)
}

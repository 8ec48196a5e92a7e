package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/stockflowhq/stockflow-backend/internal/config"
	"github.com/stockflowhq/stockflow-backend/internal/lib/password"
	"github.com/stockflowhq/stockflow-backend/internal/models"
	"github.com/stockflowhq/stockflow-backend/internal/privileges"
)

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового пользователя и возвращает его запись.
func (f *TestDataFactory) CreateUser(t *testing.T, username, email, rawPassword, role string) *models.User {
	hash, err := password.GetHash(rawPassword)
	require.NoError(t, err)

	user, err := f.storage.InsertUser(context.Background(), models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Permissions:  privileges.Defaults(role),
		IsActive:     true,
		Status:       models.UserStatusActive,
	})
	require.NoError(t, err)
	return user
}

// CreateSupplier создает тестового поставщика и возвращает его запись.
func (f *TestDataFactory) CreateSupplier(t *testing.T, organizationID, name, email string) *models.Supplier {
	supplier, err := f.storage.InsertSupplier(context.Background(), models.Supplier{
		OrganizationID: organizationID,
		Name:           name,
		Email:          email,
		PaymentTerms:   models.PaymentTermsNet30,
		Status:         models.SupplierStatusActive,
	})
	require.NoError(t, err)
	return supplier
}

// setupTestDatabase создает тестовую БД с контейнером MongoDB
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mongo:7",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("27017/tcp"),
			wait.ForLog("Waiting for connections"),
		).WithDeadline(3 * time.Minute),
	}

	mongoContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "failed to start container")

	port, err := mongoContainer.MappedPort(ctx, "27017")
	require.NoError(t, err, "Failed to get port")

	cfg := config.MongoConnection{
		MongoURL:    fmt.Sprintf("mongodb://localhost:%s", port.Port()),
		MongoDBName: "testdb_" + uuid.New().String()[:8],
		MongoTimout: 10 * time.Second,
	}

	// Пробуем подключиться несколько раз с ретраями
	var storage *Storage
	for range 10 {
		storage, err = New(ctx, cfg)
		if err == nil {
			err = storage.CheckDatabaseReady(ctx)
			if err == nil {
				break
			}
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err, "Failed to create storage after retries")

	cleanup := func() {
		if storage != nil {
			_ = storage.Close(ctx)
		}
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return storage, cleanup
}

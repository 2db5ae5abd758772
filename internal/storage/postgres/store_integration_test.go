//go:build integration

package postgres_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/hongminglow/user-records/internal/models"
	"github.com/hongminglow/user-records/internal/storage"
	"github.com/hongminglow/user-records/internal/storage/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "users_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/users_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func newStore(t *testing.T) *postgres.Store {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var (
		store *postgres.Store
		err   error
	)
	// the port can accept connections before the server is ready
	for i := 0; i < 20; i++ {
		store, err = postgres.NewUserStore(ctx, dsn)
		if err == nil {
			break
		}
		time.Sleep(500 * time.Millisecond)
	}
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return store
}

func TestStore_InsertFindList(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	name := fmt.Sprintf("ana-%d", time.Now().UnixNano())

	created, err := store.Insert(ctx, models.NewUser(map[string]any{
		"name":     name,
		"password": "hash",
		"phone":    json.Number("12345678901234567891"),
	}))
	require.NoError(t, err)
	_, err = uuid.Parse(created.ID)
	require.NoError(t, err)

	got, err := store.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, name, got.Fields["name"])
	assert.Equal(t, json.Number("12345678901234567891"), got.Fields["phone"])

	users, err := store.List(ctx)
	require.NoError(t, err)
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	assert.Contains(t, ids, created.ID)
}

func TestStore_FindByIDMissingAndMalformed(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	_, err := store.FindByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = store.FindByID(ctx, "nope")
	require.Error(t, err)
	assert.False(t, errors.Is(err, storage.ErrNotFound))
}

func TestStore_InsertDuplicateNameIsValidationError(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	name := fmt.Sprintf("dup-%d", time.Now().UnixNano())

	_, err := store.Insert(ctx, models.NewUser(map[string]any{"name": name, "password": "hash"}))
	require.NoError(t, err)

	_, err = store.Insert(ctx, models.NewUser(map[string]any{"name": name, "password": "hash"}))
	var verr *storage.ValidationError
	assert.ErrorAs(t, err, &verr)
}

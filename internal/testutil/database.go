package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/jargoyle/jargoyle/internal/database"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type TestDB struct {
	DB *database.DB
}

// SetupTestDB starts Postgres in a container, connects through
// database.New and applies the migrations. Everything is torn down with t.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	ctx := context.Background()

	ctr := startContainer(t, testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "jargoyle",
			"POSTGRES_PASSWORD": "jargoyle",
			"POSTGRES_DB":       "jargoyle",
		},
		// Postgres logs readiness once for the init server and once for the
		// real one.
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(time.Minute),
	})

	addr, err := ctr.PortEndpoint(ctx, "5432/tcp", "")
	require.NoError(t, err)

	db, err := database.New(ctx, "postgres://jargoyle:jargoyle@"+addr+"/jargoyle?sslmode=disable")
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.Migrate(ctx))
	return &TestDB{DB: db}
}

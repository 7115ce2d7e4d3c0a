package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareDSN(t *testing.T) {
	tests := []struct {
		name        string
		dsn         string
		development bool
		want        string
	}{
		{
			name:        "development url without sslmode",
			dsn:         "postgres://u:p@localhost:5432/db",
			development: true,
			want:        "postgres://u:p@localhost:5432/db?sslmode=disable",
		},
		{
			name:        "development keeps explicit sslmode",
			dsn:         "postgres://u:p@localhost:5432/db?sslmode=require",
			development: true,
			want:        "postgres://u:p@localhost:5432/db?sslmode=require",
		},
		{
			name:        "development key value form",
			dsn:         "host=localhost user=u dbname=db",
			development: true,
			want:        "host=localhost user=u dbname=db sslmode=disable",
		},
		{
			name: "production switches to simple protocol",
			dsn:  "postgres://u:p@db:6543/db?sslmode=require",
			want: "postgres://u:p@db:6543/db?sslmode=require&default_query_exec_mode=simple_protocol",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PrepareDSN(tt.dsn, tt.development))
		})
	}
}

func TestMigrationURL(t *testing.T) {
	got, err := MigrationURL("postgres://u:p@localhost:5432/db?sslmode=disable")
	require.NoError(t, err)
	assert.Equal(t, "pgx5://u:p@localhost:5432/db?sslmode=disable", got)

	got, err = MigrationURL("postgresql://u:p@localhost/db")
	require.NoError(t, err)
	assert.Equal(t, "pgx5://u:p@localhost/db", got)

	_, err = MigrationURL("host=localhost dbname=db")
	assert.Error(t, err)
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

package postgres

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/leapstack-labs/leapsp/pkg/adapter"
	"github.com/leapstack-labs/leapsp/pkg/cond"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPostgresDSN(t *testing.T) {
	const base = "host=localhost port=5432 dbname=hr sslmode=disable"
	tests := []struct {
		name string
		cfg  adapter.Config
		want string
	}{
		{"database only", adapter.Config{Database: "hr"}, base},
		{"public search path is implicit", adapter.Config{Database: "hr", Schema: "public"}, base},
		{
			"credentials",
			adapter.Config{Database: "hr", Username: "scott", Password: "tiger"},
			base + " user=scott password=tiger",
		},
		{
			"quoted password",
			adapter.Config{Database: "hr", Password: "it's secret"},
			base + ` password='it\'s secret'`,
		},
		{
			"sslmode option overrides the default",
			adapter.Config{Host: "pg.internal", Port: 6432, Database: "hr", Options: map[string]string{"sslmode": "verify-full"}},
			"host=pg.internal port=6432 dbname=hr sslmode=verify-full",
		},
		{
			"schema becomes search_path and options sort",
			adapter.Config{Database: "hr", Schema: "payroll", Options: map[string]string{"statement_timeout": "5000", "application_name": "leapsp"}},
			base + " search_path=payroll application_name=leapsp statement_timeout=5000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildPostgresDSN(tt.cfg))
		})
	}
}

func TestBuildPostgresDSN_ParsesWithPgx(t *testing.T) {
	dsn := buildPostgresDSN(adapter.Config{
		Database: "mydb",
		Username: "ann",
		Password: "it's secret",
		Schema:   "hr",
	})

	cfg, err := pgconn.ParseConfig(dsn)
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, "it's secret", cfg.Password)
	assert.Equal(t, "hr", cfg.RuntimeParams["search_path"])
}

func TestAdapter_Lifecycle(t *testing.T) {
	factory, ok := adapter.Get("postgres")
	require.True(t, ok)
	adp, ok := factory(nil).(*Adapter)
	require.True(t, ok)

	assert.Equal(t, "postgres", adp.DialectName())
	assert.Nil(t, adp.DB())
	assert.False(t, adp.IsConnected())

	err := adp.Exec(context.Background(), "SELECT 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not established")
	assert.NoError(t, adp.Close())
}

func TestMapError(t *testing.T) {
	tests := []struct {
		code string
		want cond.Kind
	}{
		{code: "23505", want: cond.DupValOnIndex},
		{code: "28P01", want: cond.LoginDenied},
		{code: "22012", want: cond.ZeroDivide},
		{code: "53200", want: cond.StorageError},
		{code: "21000", want: cond.TooManyRows},
		{code: "42P01", want: cond.ProgramError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := fmt.Errorf("failed to execute SQL: %w", &pgconn.PgError{Code: tt.code, Message: "boom"})
			c := cond.FromError(err)
			assert.Equal(t, tt.want, c.Kind)
			assert.ErrorIs(t, c, err)
		})
	}
}

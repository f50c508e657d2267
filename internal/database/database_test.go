package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/gorefpath/internal/config"
)

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *config.DatabaseConfig
		expected string
	}{
		{
			name: "basic DSN",
			cfg: &config.DatabaseConfig{
				Host:     "localhost",
				Port:     3306,
				User:     "root",
				Password: "secret",
				Database: "shop",
				TLS:      "preferred",
			},
			expected: "root:secret@tcp(localhost:3306)/shop?parseTime=true&tls=preferred",
		},
		{
			name: "DSN without database",
			cfg: &config.DatabaseConfig{
				Host:     "localhost",
				Port:     3306,
				User:     "root",
				Password: "secret",
			},
			expected: "root:secret@tcp(localhost:3306)/?parseTime=true&tls=preferred",
		},
		{
			name: "DSN with TLS disabled",
			cfg: &config.DatabaseConfig{
				Host:     "localhost",
				Port:     3306,
				User:     "root",
				Password: "secret",
				Database: "shop",
				TLS:      "disable",
			},
			expected: "root:secret@tcp(localhost:3306)/shop?parseTime=true&tls=false",
		},
		{
			name: "DSN with TLS required",
			cfg: &config.DatabaseConfig{
				Host:     "db.internal",
				Port:     3307,
				User:     "admin",
				Password: "p@ssw0rd!",
				Database: "cms",
				TLS:      "required",
			},
			expected: "admin:p@ssw0rd!@tcp(db.internal:3307)/cms?parseTime=true&tls=true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := BuildDSN(tt.cfg)
			if result != tt.expected {
				t.Errorf("BuildDSN() = %q, expected %q", result, tt.expected)
			}
		})
	}
}

func testManager(t *testing.T, open func(string) (*sql.DB, error)) *Manager {
	t.Helper()
	m := NewManager(&config.DatabaseConfig{
		Host:           "localhost",
		Port:           3306,
		User:           "root",
		Database:       "shop",
		MaxConnections: 2,
	}, nil)
	m.backoff = time.Millisecond
	m.open = open
	return m
}

func TestNewManager(t *testing.T) {
	cfg := &config.DatabaseConfig{Host: "localhost"}
	m := NewManager(cfg, nil)

	require.NotNil(t, m)
	assert.Same(t, cfg, m.config)
	assert.Nil(t, m.DB)
	assert.Equal(t, 3, m.maxRetries)
}

func TestConnect(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing()

	var gotDSN string
	m := testManager(t, func(dsn string) (*sql.DB, error) {
		gotDSN = dsn
		return db, nil
	})

	require.NoError(t, m.Connect(context.Background()))
	assert.Same(t, db, m.DB)
	assert.Equal(t, "root:@tcp(localhost:3306)/shop?parseTime=true&tls=preferred", gotDSN)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConnect_RetriesThenSucceeds(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing()

	attempts := 0
	m := testManager(t, func(string) (*sql.DB, error) {
		attempts++
		if attempts < 3 {
			return nil, errors.New("connection refused")
		}
		return db, nil
	})

	require.NoError(t, m.Connect(context.Background()))
	assert.Equal(t, 3, attempts)
}

func TestConnect_GivesUp(t *testing.T) {
	attempts := 0
	m := testManager(t, func(string) (*sql.DB, error) {
		attempts++
		return nil, errors.New("connection refused")
	})

	err := m.Connect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed after 3 retries")
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, 3, attempts)
	assert.Nil(t, m.DB)
}

func TestConnect_PingFailure(t *testing.T) {
	m := testManager(t, func(string) (*sql.DB, error) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		mock.ExpectPing().WillReturnError(errors.New("access denied"))
		return db, nil
	})

	err := m.Connect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestConnect_ContextCanceled(t *testing.T) {
	m := testManager(t, func(string) (*sql.DB, error) {
		return nil, errors.New("connection refused")
	})
	m.backoff = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.Connect(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConnect_NilConfig(t *testing.T) {
	m := NewManager(nil, nil)
	assert.Error(t, m.Connect(context.Background()))
}

func TestPingAndClose(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	m := NewManager(&config.DatabaseConfig{}, nil)
	assert.Error(t, m.Ping(context.Background()), "ping without connection")
	assert.NoError(t, m.Close(), "close without connection")

	m.DB = db
	mock.ExpectPing()
	assert.NoError(t, m.Ping(context.Background()))

	mock.ExpectClose()
	assert.NoError(t, m.Close())
	assert.Nil(t, m.DB)
	assert.NoError(t, mock.ExpectationsWereMet())
}

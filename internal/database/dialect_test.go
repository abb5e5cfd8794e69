package database

import (
	"strings"
	"testing"
)

func TestDialectSQLite(t *testing.T) {
	dialect := NewSQLiteDialect()

	t.Run("DriverName", func(t *testing.T) {
		result := dialect.DriverName()
		expected := "sqlite3"
		if result != expected {
			t.Errorf("DriverName() = %v, want %v", result, expected)
		}
	})

	t.Run("DSN", func(t *testing.T) {
		result := dialect.DSN(DialectConfig{Path: "spark.db", URL: "ignored"})
		if result != "spark.db" {
			t.Errorf("DSN() = %v, want spark.db", result)
		}
	})

	t.Run("MigrationsSubdir", func(t *testing.T) {
		result := dialect.MigrationsSubdir()
		expected := "sqlite"
		if result != expected {
			t.Errorf("MigrationsSubdir() = %v, want %v", result, expected)
		}
	})
}

func TestDialectPostgreSQL(t *testing.T) {
	dialect := NewPostgresDialect()

	t.Run("DriverName", func(t *testing.T) {
		result := dialect.DriverName()
		expected := "postgres"
		if result != expected {
			t.Errorf("DriverName() = %v, want %v", result, expected)
		}
	})

	t.Run("DSN", func(t *testing.T) {
		url := "postgres://spark@localhost/spark?sslmode=disable"
		if result := dialect.DSN(DialectConfig{URL: url}); result != url {
			t.Errorf("DSN() = %v, want %v", result, url)
		}
	})

	t.Run("MigrationsSubdir", func(t *testing.T) {
		result := dialect.MigrationsSubdir()
		expected := "postgres"
		if result != expected {
			t.Errorf("MigrationsSubdir() = %v, want %v", result, expected)
		}
	})
}

func TestDialectMySQL(t *testing.T) {
	dialect := NewMySQLDialect()

	t.Run("DriverName", func(t *testing.T) {
		result := dialect.DriverName()
		expected := "mysql"
		if result != expected {
			t.Errorf("DriverName() = %v, want %v", result, expected)
		}
	})

	t.Run("MigrationsSubdir", func(t *testing.T) {
		result := dialect.MigrationsSubdir()
		expected := "mysql"
		if result != expected {
			t.Errorf("MigrationsSubdir() = %v, want %v", result, expected)
		}
	})
}

func TestRewriteQuery(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		query    string
		expected string
	}{
		{
			name:     "SQLite no change",
			dialect:  NewSQLiteDialect(),
			query:    "SELECT store_value FROM kv_store WHERE store_key = ?",
			expected: "SELECT store_value FROM kv_store WHERE store_key = ?",
		},
		{
			name:     "PostgreSQL single placeholder",
			dialect:  NewPostgresDialect(),
			query:    "SELECT store_value FROM kv_store WHERE store_key = ?",
			expected: "SELECT store_value FROM kv_store WHERE store_key = $1",
		},
		{
			name:     "PostgreSQL multiple placeholders",
			dialect:  NewPostgresDialect(),
			query:    "INSERT INTO kv_store (store_key, store_value) VALUES (?, ?)",
			expected: "INSERT INTO kv_store (store_key, store_value) VALUES ($1, $2)",
		},
		{
			name:     "MySQL no change",
			dialect:  NewMySQLDialect(),
			query:    "DELETE FROM kv_store WHERE store_key = ?",
			expected: "DELETE FROM kv_store WHERE store_key = ?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.dialect.RewriteQuery(tt.query)
			if result != tt.expected {
				t.Errorf("RewriteQuery() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestUpsertKVQuery(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		want    string
	}{
		{"SQLite", NewSQLiteDialect(), "ON CONFLICT(store_key)"},
		{"PostgreSQL", NewPostgresDialect(), "ON CONFLICT (store_key)"},
		{"MySQL", NewMySQLDialect(), "ON DUPLICATE KEY UPDATE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query := tt.dialect.RewriteQuery(tt.dialect.UpsertKVQuery())
			if !strings.Contains(query, tt.want) {
				t.Errorf("UpsertKVQuery() = %q, want it to contain %q", query, tt.want)
			}
			if strings.Count(tt.dialect.UpsertKVQuery(), "?") != 2 {
				t.Errorf("UpsertKVQuery() should take exactly two placeholders")
			}
		})
	}
}

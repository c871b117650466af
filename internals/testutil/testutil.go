// Package testutil wires an in-memory database, cache and session tokens for package tests.
package testutil

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"schoolhub_backend/internals/cache"
	database "schoolhub_backend/internals/databases"
	helperAuth "schoolhub_backend/internals/helpers/auth"
)

const Secret = "test-secret"

// NewDB opens a private in-memory sqlite database with every table migrated.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%s?mode=memory&cache=shared&_foreign_keys=off", name, uuid.NewString()[:8])

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(database.Models()...))
	return db
}

func NewCache() (*cache.Aside, *cache.MemoryStore) {
	store := cache.NewMemoryStore()
	return cache.New(store, cache.DefaultTTL), store
}

// CountQueries counts SELECTs against table issued through db from now on.
func CountQueries(t testing.TB, db *gorm.DB, table string) *int64 {
	t.Helper()
	var n int64
	name := "testutil:count:" + uuid.NewString()
	require.NoError(t, db.Callback().Query().After("gorm:query").Register(name, func(tx *gorm.DB) {
		if tx.Statement.Table == table {
			atomic.AddInt64(&n, 1)
		}
	}))
	return &n
}

func Token(t testing.TB, s helperAuth.Session) string {
	t.Helper()
	tok, _, err := helperAuth.IssueAccessToken(s, Secret, time.Hour, time.Now())
	require.NoError(t, err)
	return tok
}

func ReadBody(t testing.TB, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

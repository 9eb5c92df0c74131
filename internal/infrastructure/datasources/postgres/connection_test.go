package postgres

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"nft-storefront.backend/internal/config"
)

func useSQLite(t *testing.T) {
	t.Helper()
	orig := openDialector
	t.Cleanup(func() { openDialector = orig })
	openDialector = func(string) gorm.Dialector {
		return sqlite.Open("file::memory:")
	}
}

func TestOpen_BuildsPostgresDialectorFromConfig(t *testing.T) {
	cfg := config.DatabaseConfig{Host: "localhost", Port: 5432, User: "u", Password: "p", DBName: "d", SSLMode: "disable"}

	d := openDialector(cfg.URL())
	require.Equal(t, "postgres", d.Name())
}

func TestPing(t *testing.T) {
	useSQLite(t)
	db, err := Open("ignored")
	require.NoError(t, err)
	require.NoError(t, Ping(db))

	orig := pingDB
	t.Cleanup(func() { pingDB = orig })
	pingDB = func(*gorm.DB) error { return errors.New("refused") }

	err = Ping(db)
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to ping database")
}

func TestMigrate_CreatesActivityTable(t *testing.T) {
	useSQLite(t)
	db, err := Open("ignored")
	require.NoError(t, err)

	require.NoError(t, Migrate(db))
	require.True(t, db.Migrator().HasTable("wallet_activities"))
}

package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMySQLDSN(t *testing.T) {
	tests := []struct {
		name string
		in   string
		user string
		pass string
		want string
	}{
		{
			name: "empty",
			in:   "",
			want: "",
		},
		{
			name: "driver dsn gets clientFoundRows",
			in:   "app:secret@tcp(127.0.0.1:3306)/books?parseTime=true",
			want: "app:secret@tcp(127.0.0.1:3306)/books?parseTime=true&clientFoundRows=true",
		},
		{
			name: "driver dsn without query",
			in:   "app@tcp(db:3306)/books",
			want: "app@tcp(db:3306)/books?clientFoundRows=true",
		},
		{
			name: "driver dsn keeps explicit clientFoundRows",
			in:   "app@tcp(db:3306)/books?clientFoundRows=false",
			want: "app@tcp(db:3306)/books?clientFoundRows=false",
		},
		{
			name: "jdbc url",
			in:   "jdbc:mysql://db:3306/books?useSSL=false&serverTimezone=UTC&characterEncoding=utf8",
			user: "app",
			pass: "pw",
			want: "app:pw@tcp(db:3306)/books?charset=utf8&clientFoundRows=true&loc=UTC&parseTime=true&tls=false",
		},
		{
			name: "url credentials overridden",
			in:   "mysql://old:old@db:3306/books",
			user: "new",
			want: "new:old@tcp(db:3306)/books?charset=utf8mb4&clientFoundRows=true&parseTime=true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeMySQLDSN(tt.in, tt.user, tt.pass))
		})
	}
}

func TestMaskDSN(t *testing.T) {
	assert.Equal(t, "app:****@tcp(db:3306)/books", maskDSN("app:secret@tcp(db:3306)/books"))
	assert.Equal(t, "app@tcp(db:3306)/books", maskDSN("app@tcp(db:3306)/books"))
}

func TestNewGorm_UnsupportedDriver(t *testing.T) {
	_, err := NewGorm(Opts{Driver: "oracle"})
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestNewGorm_SQLite(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "books.db") + "?_foreign_keys=1"
	db, err := NewGorm(Opts{Driver: "sqlite", DSN: dsn, MaxOpenConns: 1, LogLevel: "silent"})
	require.NoError(t, err)

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.NoError(t, sqlDB.Close())
}

func TestNewGorm_SQLiteSingleConnection(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "books.db") + "?_foreign_keys=1"
	db, err := NewGorm(Opts{Driver: "sqlite", DSN: dsn, MaxOpenConns: 20, MaxIdleConns: 5, LogLevel: "silent"})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

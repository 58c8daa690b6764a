package migrations

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingExecer struct {
	statements []string
	failOn     string
}

func (r *recordingExecer) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	if r.failOn != "" && strings.Contains(sql, r.failOn) {
		return pgconn.CommandTag{}, errors.New("syntax error")
	}
	r.statements = append(r.statements, sql)
	return pgconn.CommandTag{}, nil
}

func TestFiles(t *testing.T) {
	files, err := Files()
	require.NoError(t, err)

	require.NotEmpty(t, files)
	assert.Equal(t, "001_init.sql", files[0])
	assert.IsNonDecreasing(t, files)
}

func TestRunPostgresMigrations(t *testing.T) {
	db := &recordingExecer{}

	applied, err := RunPostgresMigrations(context.Background(), db)
	require.NoError(t, err)

	files, _ := Files()
	assert.Equal(t, files, applied)
	require.Len(t, db.statements, len(files))
	assert.Contains(t, db.statements[0], "CREATE SCHEMA IF NOT EXISTS journal")
	for _, stmt := range db.statements {
		assert.Contains(t, stmt, "IF NOT EXISTS")
	}
}

func TestRunPostgresMigrations_StopsOnError(t *testing.T) {
	db := &recordingExecer{failOn: "performance_snapshots"}

	applied, err := RunPostgresMigrations(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "002_snapshots.sql")
	assert.Equal(t, []string{"001_init.sql"}, applied)
}

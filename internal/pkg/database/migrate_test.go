package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsOrdered(t *testing.T) {
	migrations, err := Migrations()
	require.NoError(t, err)
	require.Len(t, migrations, 2)

	assert.Equal(t, "0001_directory", migrations[0].Version)
	assert.Equal(t, "0002_attendance", migrations[1].Version)
}

func TestAttendanceMigrationEnforcesOneRecordPerDay(t *testing.T) {
	migrations, err := Migrations()
	require.NoError(t, err)

	ledger := migrations[1].SQL
	assert.Contains(t, ledger, "UNIQUE (user_id, log_date)")
	assert.Contains(t, ledger, "CREATE TABLE IF NOT EXISTS qr_codes")
	assert.Contains(t, ledger, "CREATE TABLE IF NOT EXISTS attendance_reasons")
}

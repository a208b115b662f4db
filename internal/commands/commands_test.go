package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func runFintrack(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// memoryEnv configures a minimal valid environment on the memory backend.
func memoryEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATA_BACKEND", "memory")
	t.Setenv("AUTH_PASSWORD", "secret")
	t.Setenv("AMQP_URL", "")
	t.Setenv("GOOGLE_SPREADSHEET_ID", "")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("FINTRACK_CONFIG", "")
}

func TestRootListsSubcommands(t *testing.T) {
	out, err := runFintrack(t, "", "--help")
	require.NoError(t, err)
	for _, name := range []string{"serve", "worker", "materialize", "settle", "migrate", "hash-password"} {
		assert.Contains(t, out, name)
	}
}

func TestHashPassword(t *testing.T) {
	out, err := runFintrack(t, "hunter2\n", "hash-password")
	require.NoError(t, err)

	hash := strings.TrimSpace(out)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter2")))
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	_, err := runFintrack(t, "\n", "hash-password")
	assert.Error(t, err)
}

func TestMaterializeOnEmptyLedger(t *testing.T) {
	memoryEnv(t)
	out, err := runFintrack(t, "", "materialize", "--as-of", "2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, "created 0\n", out)
}

func TestSettleOnEmptyLedger(t *testing.T) {
	memoryEnv(t)
	out, err := runFintrack(t, "", "settle", "--as-of", "2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, "settled 0\n", out)
}

func TestJobRejectsBadAsOf(t *testing.T) {
	memoryEnv(t)
	_, err := runFintrack(t, "", "settle", "--as-of", "15/03/2024")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--as-of")
}

func TestInvalidConfigFails(t *testing.T) {
	memoryEnv(t)
	t.Setenv("AUTH_PASSWORD", "")
	t.Setenv("AUTH_PASSWORD_HASH", "")
	_, err := runFintrack(t, "", "materialize")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH_PASSWORD")
}

func TestMigrateSQLiteFromConfigFile(t *testing.T) {
	memoryEnv(t)
	t.Setenv("DATA_BACKEND", "")
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "fintrack.db")
	cfgPath := filepath.Join(dir, "fintrack.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("data_backend: sqlite\nsqlite_db_path: "+dbPath+"\n"), 0o600))

	out, err := runFintrack(t, "", "migrate", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "migrations applied (sqlite)")
	assert.FileExists(t, dbPath)

	// A second run has nothing to apply.
	_, err = runFintrack(t, "", "migrate", "--config", cfgPath)
	require.NoError(t, err)
}

func TestMigrateMemoryBackendFails(t *testing.T) {
	memoryEnv(t)
	_, err := runFintrack(t, "", "migrate")
	assert.Error(t, err)
}

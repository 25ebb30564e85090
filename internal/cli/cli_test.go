package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/levelkeeper/internal/model"
	"github.com/dtroode/levelkeeper/internal/testutil"
)

func setupSQLite(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "users.db"))
	t.Setenv("SMTP_HOST", "")
	t.Setenv("MINIO_ENABLED", "false")
	t.Setenv("LOG_FORMAT", "text")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd(BuildInfo{Version: "v1.2.3", Date: "2024-01-02", Commit: "abc123"})
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--env-file", ""}, args...))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func addFixtures(t *testing.T) {
	t.Helper()
	for _, u := range testutil.Users() {
		_, err := run(t, "user", "add", u.ID,
			"--name", u.Name,
			"--password", u.Password,
			"--email", u.Email,
			"--level", u.Level.String(),
			"--login", strconv.Itoa(u.Login),
			"--recommend", strconv.Itoa(u.Recommend),
		)
		require.NoError(t, err, u.ID)
	}
}

func TestUpgradeCommand(t *testing.T) {
	setupSQLite(t)
	addFixtures(t)

	out, err := run(t, "upgrade")
	require.NoError(t, err)
	assert.Contains(t, out, "scanned 5, upgraded 2")
	joytouch := strings.Index(out, "joytouch -> SILVER")
	madnite1 := strings.Index(out, "madnite1 -> GOLD")
	require.NotEqual(t, -1, joytouch)
	require.NotEqual(t, -1, madnite1)
	assert.Less(t, joytouch, madnite1)

	out, err = run(t, "upgrade")
	require.NoError(t, err)
	assert.Contains(t, out, "scanned 5, upgraded 0")

	out, err = run(t, "user", "get", "joytouch")
	require.NoError(t, err)
	assert.Contains(t, out, "SILVER")
}

func TestUpgradeCommand_EmptyStore(t *testing.T) {
	setupSQLite(t)

	out, err := run(t, "upgrade")
	require.NoError(t, err)
	assert.Contains(t, out, "scanned 0, upgraded 0")
}

func TestUserCommands(t *testing.T) {
	setupSQLite(t)

	out, err := run(t, "user", "add", "newbie", "--email", "newbie@email.com")
	require.NoError(t, err)
	assert.Equal(t, "user newbie added\n", out)

	_, err = run(t, "user", "add", "newbie")
	assert.ErrorIs(t, err, model.ErrConflict)

	_, err = run(t, "user", "add", "platinum", "--level", "PLATINUM")
	assert.ErrorIs(t, err, model.ErrInvalidLevel)

	_, err = run(t, "user", "add", "negative", "--login", "-1")
	assert.ErrorIs(t, err, model.ErrInvalidUser)

	_, err = run(t, "user", "get", "nobody")
	assert.ErrorIs(t, err, model.ErrNotFound)

	out, err = run(t, "user", "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "newbie")
	assert.Contains(t, lines[1], "BASIC")
}

func TestMigrateCommand(t *testing.T) {
	setupSQLite(t)

	out, err := run(t, "migrate")
	require.NoError(t, err)
	assert.Equal(t, "migrations applied\n", out)

	_, err = run(t, "migrate")
	assert.NoError(t, err)
}

func TestReportCommand(t *testing.T) {
	setupSQLite(t)

	_, err := run(t, "report", "show", "not-a-uuid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid run id")

	_, err = run(t, "report", "show", "7f1c2a8e-5d1b-4a3c-9e2f-0b6d8c4a1e35")
	assert.ErrorIs(t, err, errArchiveDisabled)
}

func TestVersionCommand(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "oracle")

	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Build version: v1.2.3")
	assert.Contains(t, out, "Build commit: abc123")
}

func TestInvalidConfig(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "oracle")

	_, err := run(t, "user", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

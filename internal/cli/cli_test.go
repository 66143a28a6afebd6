package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studypack-backend/internal/middleware"
	"studypack-backend/internal/services"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeLecture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lecture.txt")
	body := strings.Repeat("Mitochondria produce ATP through oxidative phosphorylation. ", 5)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestExtract_PrintsText(t *testing.T) {
	out, err := run(t, "extract", writeLecture(t))
	require.NoError(t, err)
	assert.Contains(t, out, "oxidative phosphorylation")
}

func TestExtract_UnsupportedType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.png")
	require.NoError(t, os.WriteFile(path, []byte{0x89, 'P', 'N', 'G'}, 0o644))

	_, err := run(t, "extract", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unsupported file type")
}

func TestExtract_HelpListsSupportedTypes(t *testing.T) {
	out, err := run(t, "extract", "--help")
	require.NoError(t, err)
	for _, ct := range services.SupportedTypes() {
		assert.Contains(t, out, ct)
	}
}

func TestPrompt_UsesOptions(t *testing.T) {
	out, err := run(t, "prompt", writeLecture(t), "--difficulty", "hard", "--flashcards", "3", "--quizzes", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "exactly 3 flashcards")
	assert.Contains(t, out, "exactly 2 multiple choice")
	assert.Contains(t, out, "at Hard difficulty")
}

func TestPrompt_RejectsBadOptions(t *testing.T) {
	_, err := run(t, "prompt", writeLecture(t), "--difficulty", "impossible")
	require.Error(t, err)
}

func TestToken_RoundTrip(t *testing.T) {
	userID := uuid.New()
	out, err := run(t, "token", "--secret", "dev-secret", "--user", userID.String())
	require.NoError(t, err)

	got, err := middleware.NewJWTAuth("dev-secret").ParseUserID(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestToken_Errors(t *testing.T) {
	_, err := run(t, "token", "--secret", "")
	assert.Error(t, err)

	_, err = run(t, "token", "--secret", "dev-secret", "--user", "not-a-uuid")
	assert.Error(t, err)
}

func TestMigrate_RequiresDatabaseURL(t *testing.T) {
	_, err := run(t, "migrate", "--database-url", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database url is required")
}

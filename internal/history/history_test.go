package history

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) *Repo {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	r := New(t.TempDir(), "Test Author", "test@example.com")
	require.NoError(t, r.Init(context.Background()))
	return r
}

func TestInit(t *testing.T) {
	r := newRepo(t)
	assert.True(t, IsRepo(r.Dir()))

	// Init on an existing repository is a no-op.
	require.NoError(t, r.Init(context.Background()))
}

func TestIsRepo(t *testing.T) {
	assert.False(t, IsRepo(t.TempDir()), "empty dir should not be a repo")
}

func TestCommit(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(r.Dir(), "fintrack.json"), []byte("{}"), 0o644))
	hash, err := r.Commit(ctx, "add_transaction: Added expense 50.00 PLN Food")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	author := exec.Command("git", "log", "--format=%an <%ae>", "-1")
	author.Dir = r.Dir()
	out, err := author.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "Test Author <test@example.com>")

	subjects, err := r.Log(ctx, 5)
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	assert.Contains(t, subjects[0], "add_transaction: Added expense 50.00 PLN Food")
	assert.Contains(t, subjects[0], hash)
}

func TestCommit_NothingChanged(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(r.Dir(), "a.txt"), []byte("a"), 0o644))
	_, err := r.Commit(ctx, "first")
	require.NoError(t, err)

	hash, err := r.Commit(ctx, "second")
	require.NoError(t, err)
	assert.Empty(t, hash, "clean tree should not commit")

	subjects, err := r.Log(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, subjects, 1)
}

func TestCommit_EmptyRepository(t *testing.T) {
	r := newRepo(t)
	hash, err := r.Commit(context.Background(), "init: empty project")
	require.NoError(t, err)
	assert.NotEmpty(t, hash, "first commit is made even without files")
}

func TestLog_NoCommits(t *testing.T) {
	r := newRepo(t)
	subjects, err := r.Log(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, subjects)
}

package cookies

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCookie_读写往返(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookie.txt")
	l := NewLoadCookie(path)

	require.NoError(t, l.Save("session=abc123; token=xyz"))

	got, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, "session=abc123; token=xyz", got)

	// 凭证文件权限必须是 0600
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoadCookie_去除首尾空白(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookie.txt")
	require.NoError(t, os.WriteFile(path, []byte("  session=abc\n\n"), 0o600))

	got, err := NewLoadCookie(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "session=abc", got)
}

func TestLoadCookie_文件不存在(t *testing.T) {
	_, err := NewLoadCookie(filepath.Join(t.TempDir(), "missing.txt")).Load()
	assert.Error(t, err)
}

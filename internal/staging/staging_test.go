package staging

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memProvider struct {
	order   []string
	blobs   map[string][]byte
	listErr error
}

func newMemProvider(files ...string) *memProvider {
	p := &memProvider{blobs: map[string][]byte{}}
	for i := 0; i+1 < len(files); i += 2 {
		p.order = append(p.order, files[i])
		p.blobs[files[i]] = []byte(files[i+1])
	}
	return p
}

func (p *memProvider) ListStaged(context.Context) ([]string, error) {
	return p.order, p.listErr
}

func (p *memProvider) Open(_ context.Context, path string) (io.ReadCloser, error) {
	b, ok := p.blobs[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

var pngHeader = string([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'})

func TestMaterialize(t *testing.T) {
	dir := t.TempDir()
	p := newMemProvider(
		"config.py", "import os\nBOT_TOKEN = \"x\"\n",
		"pkg/deep/settings.json", `{"token": "abc"}`,
		"assets/logo.png", pngHeader,
		"empty.txt", "",
	)

	res, err := Materialize(context.Background(), p, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"config.py", "pkg/deep/settings.json", "empty.txt"}, res.Written)
	assert.Equal(t, []string{"assets/logo.png"}, res.Skipped)

	got, err := os.ReadFile(filepath.Join(dir, "config.py"))
	require.NoError(t, err)
	assert.Equal(t, "import os\nBOT_TOKEN = \"x\"\n", string(got))

	got, err = os.ReadFile(filepath.Join(dir, "pkg", "deep", "settings.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"token": "abc"}`, string(got))

	_, err = os.Stat(filepath.Join(dir, "assets", "logo.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestMaterialize_TextWithBinaryMagic(t *testing.T) {
	const tok = "7341852096:AAF3zKpL8mNqR2tVxW0yZ1dCeJ4gHiUoPs6"
	dir := t.TempDir()
	p := newMemProvider(
		"mz.env", "MZ_BOT_TOKEN="+tok+"\n",
		"bz.env", "BZh_TOKEN="+tok+"\n",
		"gif.txt", "GIF89a notes\ntoken: "+tok+"\n",
		"pdf.txt", "%PDF- draft\ntoken: "+tok+"\n",
		"ok.env", "BOT_TOKEN="+tok+"\n",
	)

	res, err := Materialize(context.Background(), p, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"mz.env", "bz.env", "gif.txt", "pdf.txt", "ok.env"}, res.Written)
	assert.Empty(t, res.Skipped)

	got, err := os.ReadFile(filepath.Join(dir, "mz.env"))
	require.NoError(t, err)
	assert.Contains(t, string(got), tok)
}

func TestMaterialize_LargeText(t *testing.T) {
	dir := t.TempDir()
	big := bytes.Repeat([]byte("line of text without secrets\n"), 1000)
	p := newMemProvider("big.txt", string(big))

	_, err := Materialize(context.Background(), p, dir)
	require.NoError(t, err)
	got, err := os.ReadFile(filepath.Join(dir, "big.txt"))
	require.NoError(t, err)
	assert.Equal(t, big, got)
}

func TestMaterialize_UnsafePaths(t *testing.T) {
	for _, bad := range []string{"/etc/passwd", "../outside", "a/../../b", "nul\x00byte", "", ".."} {
		t.Run(bad, func(t *testing.T) {
			dir := t.TempDir()
			p := newMemProvider("ok.txt", "fine", bad, "x")

			_, err := Materialize(context.Background(), p, dir)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnsafePath)

			entries, readErr := os.ReadDir(dir)
			require.NoError(t, readErr)
			assert.Empty(t, entries, "nothing is written when any path is unsafe")
		})
	}
}

func TestCheckPath(t *testing.T) {
	for _, ok := range []string{"a.txt", "dir/b.go", "weird name/with spaces.md", "a/./b", "dir/../c.txt"} {
		assert.NoError(t, CheckPath(ok), ok)
	}
}

func TestMaterialize_ListError(t *testing.T) {
	p := newMemProvider()
	p.listErr = errors.New("index locked")
	_, err := Materialize(context.Background(), p, t.TempDir())
	assert.ErrorContains(t, err, "index locked")
}

func TestMaterialize_OpenError(t *testing.T) {
	p := newMemProvider()
	p.order = []string{"gone.txt"}
	_, err := Materialize(context.Background(), p, t.TempDir())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMaterialize_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Materialize(ctx, newMemProvider("a.txt", "x"), t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
}

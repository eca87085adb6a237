package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListAudioFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.wav", "a.mp3", "notes.txt", "c.OPUS", "clip.flac.bak"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.mp3"), 0o755))

	files, err := ListAudioFiles(dir)
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}
	assert.Equal(t, []string{"a.mp3", "b.wav", "c.OPUS"}, names)
}

func TestListAudioFilesMissingDir(t *testing.T) {
	_, err := ListAudioFiles(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "audio_files")

	created, err := EnsureDir(dir)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = EnsureDir(dir)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestSaveTempNoCollision(t *testing.T) {
	// Two uploads sharing a filename must land on distinct temp paths.
	p1, err := SaveTemp("bruno.mp3", strings.NewReader("first"))
	require.NoError(t, err)
	defer os.Remove(p1)

	p2, err := SaveTemp("bruno.mp3", strings.NewReader("second"))
	require.NoError(t, err)
	defer os.Remove(p2)

	assert.NotEqual(t, p1, p2)

	b1, err := os.ReadFile(p1)
	require.NoError(t, err)
	b2, err := os.ReadFile(p2)
	require.NoError(t, err)
	assert.Equal(t, "first", string(b1))
	assert.Equal(t, "second", string(b2))
}

func TestSaveTempStripsDirectories(t *testing.T) {
	p, err := SaveTemp("../../etc/passwd.mp3", strings.NewReader("x"))
	require.NoError(t, err)
	defer os.Remove(p)
	assert.Equal(t, filepath.Clean(os.TempDir()), filepath.Dir(p))
}

func TestIsAudioFile(t *testing.T) {
	for name, want := range map[string]bool{
		"a.mp3": true, "a.wav": true, "a.m4a": true,
		"a.ogg": true, "a.flac": true, "a.opus": true,
		"a.txt": false, "a": false, "a.mp3.txt": false,
	} {
		if got := IsAudioFile(name); got != want {
			t.Errorf("IsAudioFile(%q) = %v, want %v", name, got, want)
		}
	}
}

package media

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabiroku/tabiroku/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store := NewStore(t.TempDir())
	require.NoError(t, store.EnsureDirectories())
	return store
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "source")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSavePhotoCopiesSource(t *testing.T) {
	store := newTestStore(t)
	source := writeTempFile(t, "jpeg bytes")

	path, err := store.SavePhoto("exp-1", source)
	require.NoError(t, err)

	assert.Equal(t, ".jpg", filepath.Ext(path))
	assert.Contains(t, path, filepath.Join("photos", "exp-1"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(data))

	// The camera roll keeps its copy.
	_, err = os.Stat(source)
	assert.NoError(t, err)
}

func TestSavePhotoGeneratesUniqueNames(t *testing.T) {
	store := newTestStore(t)

	first, err := store.SavePhoto("exp-1", writeTempFile(t, "a"))
	require.NoError(t, err)
	second, err := store.SavePhoto("exp-1", writeTempFile(t, "b"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestSaveAudioMovesSource(t *testing.T) {
	store := newTestStore(t)
	source := writeTempFile(t, "m4a bytes")

	path, err := store.SaveAudio("exp-1", source, model.MediaTypeAudioMemo)
	require.NoError(t, err)

	assert.Equal(t, ".m4a", filepath.Ext(path))
	assert.Contains(t, path, filepath.Join("audio_memos", "exp-1"))

	// The temporary recording is consumed.
	_, err = os.Stat(source)
	assert.True(t, os.IsNotExist(err))
}

func TestSaveAudioAmbientCategory(t *testing.T) {
	store := newTestStore(t)

	path, err := store.SaveAudio("exp-1", writeTempFile(t, "wind"), model.MediaTypeAmbientSound)
	require.NoError(t, err)
	assert.Contains(t, path, filepath.Join("ambient_sounds", "exp-1"))
}

func TestSaveAudioRejectsPhotoType(t *testing.T) {
	store := newTestStore(t)

	_, err := store.SaveAudio("exp-1", writeTempFile(t, "x"), model.MediaTypePhoto)
	assert.Error(t, err)
}

func TestDeleteExperienceFiles(t *testing.T) {
	store := newTestStore(t)

	photo, err := store.SavePhoto("exp-1", writeTempFile(t, "a"))
	require.NoError(t, err)
	audio, err := store.SaveAudio("exp-1", writeTempFile(t, "b"), model.MediaTypeAudioMemo)
	require.NoError(t, err)
	other, err := store.SavePhoto("exp-2", writeTempFile(t, "c"))
	require.NoError(t, err)

	require.NoError(t, store.DeleteExperienceFiles("exp-1"))

	_, err = os.Stat(photo)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(audio)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(other)
	assert.NoError(t, err, "other experiences keep their files")

	// Absent directories are fine.
	assert.NoError(t, store.DeleteExperienceFiles("exp-1"))
}

func TestRemoveToleratesMissing(t *testing.T) {
	store := newTestStore(t)

	path, err := store.SavePhoto("exp-1", writeTempFile(t, "a"))
	require.NoError(t, err)

	assert.NoError(t, store.Remove(path))
	assert.NoError(t, store.Remove(path))
}

func TestFileInfo(t *testing.T) {
	store := newTestStore(t)

	path, err := store.SavePhoto("exp-1", writeTempFile(t, "12345"))
	require.NoError(t, err)

	size, err := store.FileInfo(path)
	require.NoError(t, err)
	assert.EqualValues(t, 5, size)

	_, err = store.FileInfo(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestSweepRemovesUnreferencedDirectories(t *testing.T) {
	store := newTestStore(t)

	kept, err := store.SavePhoto("exp-kept", writeTempFile(t, "a"))
	require.NoError(t, err)
	orphanPhoto, err := store.SavePhoto("exp-orphan", writeTempFile(t, "b"))
	require.NoError(t, err)
	orphanAudio, err := store.SaveAudio("exp-orphan", writeTempFile(t, "c"), model.MediaTypeAudioMemo)
	require.NoError(t, err)

	removed, err := store.Sweep([]string{kept})
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, err = os.Stat(kept)
	assert.NoError(t, err)
	_, err = os.Stat(orphanPhoto)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(orphanAudio)
	assert.True(t, os.IsNotExist(err))
}

func TestExt(t *testing.T) {
	assert.Equal(t, ".jpg", Ext(model.MediaTypePhoto))
	assert.Equal(t, ".m4a", Ext(model.MediaTypeAudioMemo))
	assert.Equal(t, ".m4a", Ext(model.MediaTypeAmbientSound))
}

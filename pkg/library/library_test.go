package library

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openrig/gozz/pkg/animation"
	"github.com/openrig/gozz/pkg/archive"
)

// encodeClip builds a valid single-track clip archive with one key pair per
// component, which is the smallest clip the decoder accepts.
func encodeClip(t *testing.T, name string, duration float32) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := archive.NewWriter(&buf)

	require.NoError(t, w.WriteTag(animation.Tag))
	require.NoError(t, w.WriteVersion(animation.Version))
	require.NoError(t, w.WriteFloat32(duration))
	require.NoError(t, w.WriteInt32(1))                 // tracks
	require.NoError(t, w.WriteInt32(int32(len(name)))) // name length
	require.NoError(t, w.WriteInt32(2))                 // translations
	require.NoError(t, w.WriteInt32(2))                 // rotations
	require.NoError(t, w.WriteInt32(2))                 // scales
	require.NoError(t, w.WriteString(name))

	writeFloat3 := func(ratio float32) {
		require.NoError(t, w.WriteFloat32(ratio))
		require.NoError(t, w.WriteUint16(0))
		for c := 0; c < 3; c++ {
			require.NoError(t, w.WriteUint16(0x3c00))
		}
	}
	writeQuat := func(ratio float32) {
		require.NoError(t, w.WriteFloat32(ratio))
		require.NoError(t, w.WriteUint16(0))
		require.NoError(t, w.WriteUint8(3))
		require.NoError(t, w.WriteUint8(0))
		for c := 0; c < 3; c++ {
			require.NoError(t, w.WriteInt16(0))
		}
	}
	writeFloat3(0)
	writeFloat3(1)
	writeQuat(0)
	writeQuat(1)
	writeFloat3(0)
	writeFloat3(1)

	return buf.Bytes()
}

func openTestLibrary(t *testing.T) *Library {
	t.Helper()
	lib, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, lib.Close()) })
	return lib
}

func TestImportAndClip(t *testing.T) {
	lib := openTestLibrary(t)
	data := encodeClip(t, "walk", 1.5)

	info, err := lib.Import("", data)
	require.NoError(t, err)
	assert.Equal(t, "walk", info.Name)
	assert.Equal(t, float32(1.5), info.Duration)
	assert.Equal(t, 1, info.NumTracks)
	assert.Equal(t, 2, info.Translations)
	assert.Equal(t, 2, info.Rotations)
	assert.Equal(t, 2, info.Scales)
	assert.False(t, info.ImportedAt.IsZero())

	clip, err := lib.Clip("walk")
	require.NoError(t, err)
	assert.Equal(t, "walk", clip.Name())
	assert.Equal(t, float32(1.5), clip.Duration())

	raw, err := lib.Raw("walk")
	require.NoError(t, err)
	assert.Equal(t, data, raw)
}

func TestImportExplicitNameOverridesClipName(t *testing.T) {
	lib := openTestLibrary(t)

	info, err := lib.Import("run-fast", encodeClip(t, "run", 2))
	require.NoError(t, err)
	assert.Equal(t, "run-fast", info.Name)

	_, err = lib.Info("run-fast")
	require.NoError(t, err)
	_, err = lib.Info("run")
	assert.ErrorIs(t, err, ErrClipNotFound)
}

func TestImportRejectsInvalidArchive(t *testing.T) {
	lib := openTestLibrary(t)

	_, err := lib.Import("bad", []byte{archive.LittleEndian, 'n', 'o', 't'})
	require.Error(t, err)

	// Nothing was written.
	infos, err := lib.List()
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestImportRequiresAName(t *testing.T) {
	lib := openTestLibrary(t)
	_, err := lib.Import("", encodeClip(t, "", 1))
	assert.ErrorContains(t, err, "no name")
}

func TestReimportReplaces(t *testing.T) {
	lib := openTestLibrary(t)

	first, err := lib.Import("walk", encodeClip(t, "walk", 1))
	require.NoError(t, err)
	second, err := lib.Import("walk", encodeClip(t, "walk", 2))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	info, err := lib.Info("walk")
	require.NoError(t, err)
	assert.Equal(t, float32(2), info.Duration)

	infos, err := lib.List()
	require.NoError(t, err)
	assert.Len(t, infos, 1)
}

func TestImportFile(t *testing.T) {
	lib := openTestLibrary(t)

	path := filepath.Join(t.TempDir(), "walk.ozz")
	require.NoError(t, os.WriteFile(path, encodeClip(t, "walk", 1.5), 0o600))

	info, err := lib.ImportFile(path)
	require.NoError(t, err)
	assert.Equal(t, "walk", info.Name)

	_, err = lib.ImportFile(filepath.Join(t.TempDir(), "missing.ozz"))
	assert.Error(t, err)
}

func TestListOrdersByName(t *testing.T) {
	lib := openTestLibrary(t)
	for _, name := range []string{"walk", "idle", "run"} {
		_, err := lib.Import(name, encodeClip(t, name, 1))
		require.NoError(t, err)
	}

	infos, err := lib.List()
	require.NoError(t, err)
	require.Len(t, infos, 3)
	assert.Equal(t, "idle", infos[0].Name)
	assert.Equal(t, "run", infos[1].Name)
	assert.Equal(t, "walk", infos[2].Name)
}

func TestRemove(t *testing.T) {
	lib := openTestLibrary(t)
	_, err := lib.Import("walk", encodeClip(t, "walk", 1))
	require.NoError(t, err)

	require.NoError(t, lib.Remove("walk"))

	_, err = lib.Clip("walk")
	assert.ErrorIs(t, err, ErrClipNotFound)
	_, err = lib.Info("walk")
	assert.ErrorIs(t, err, ErrClipNotFound)

	assert.ErrorIs(t, lib.Remove("walk"), ErrClipNotFound)
}

func TestNotFound(t *testing.T) {
	lib := openTestLibrary(t)

	_, err := lib.Raw("ghost")
	assert.ErrorIs(t, err, ErrClipNotFound)
	_, err = lib.Clip("ghost")
	assert.ErrorIs(t, err, ErrClipNotFound)
	_, err = lib.Info("ghost")
	assert.ErrorIs(t, err, ErrClipNotFound)
}

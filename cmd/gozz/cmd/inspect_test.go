package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openrig/gozz/pkg/animation"
	"github.com/openrig/gozz/pkg/archive"
)

// writeClipFile encodes a small clip archive to a temp file and returns its
// path.
func writeClipFile(t *testing.T, name string, duration float32, tracks int32) string {
	t.Helper()
	var buf bytes.Buffer
	w := archive.NewWriter(&buf)

	keysPerComponent := tracks * 2
	require.NoError(t, w.WriteTag(animation.Tag))
	require.NoError(t, w.WriteVersion(animation.Version))
	require.NoError(t, w.WriteFloat32(duration))
	require.NoError(t, w.WriteInt32(tracks))
	require.NoError(t, w.WriteInt32(int32(len(name))))
	require.NoError(t, w.WriteInt32(keysPerComponent))
	require.NoError(t, w.WriteInt32(keysPerComponent))
	require.NoError(t, w.WriteInt32(keysPerComponent))
	require.NoError(t, w.WriteString(name))

	for _, ratio := range []float32{0, 1} {
		for track := int32(0); track < tracks; track++ {
			require.NoError(t, w.WriteFloat32(ratio))
			require.NoError(t, w.WriteUint16(uint16(track)))
			for c := 0; c < 3; c++ {
				require.NoError(t, w.WriteUint16(0x3c00))
			}
		}
	}
	for _, ratio := range []float32{0, 1} {
		for track := int32(0); track < tracks; track++ {
			require.NoError(t, w.WriteFloat32(ratio))
			require.NoError(t, w.WriteUint16(uint16(track)))
			require.NoError(t, w.WriteUint8(3))
			require.NoError(t, w.WriteUint8(0))
			for c := 0; c < 3; c++ {
				require.NoError(t, w.WriteInt16(0))
			}
		}
	}
	for _, ratio := range []float32{0, 1} {
		for track := int32(0); track < tracks; track++ {
			require.NoError(t, w.WriteFloat32(ratio))
			require.NoError(t, w.WriteUint16(uint16(track)))
			for c := 0; c < 3; c++ {
				require.NoError(t, w.WriteUint16(0x3c00))
			}
		}
	}

	path := filepath.Join(t.TempDir(), name+".ozz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

// runCommand executes the root command with args and returns its combined
// output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestInspect(t *testing.T) {
	path := writeClipFile(t, "walk", 1.5, 2)

	out, err := runCommand(t, "inspect", path)
	require.NoError(t, err)

	g := goldie.New(t, goldie.WithNameSuffix(".golden"))
	g.Assert(t, "inspect", []byte(out))
}

func TestInspectMissingFile(t *testing.T) {
	_, err := runCommand(t, "inspect", filepath.Join(t.TempDir(), "missing.ozz"))
	assert.Error(t, err)
}

func TestImportListRemove(t *testing.T) {
	libDir := filepath.Join(t.TempDir(), "library")
	path := writeClipFile(t, "walk", 1.5, 2)

	out, err := runCommand(t, "-L", libDir, "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, `Imported "walk"`)

	out, err = runCommand(t, "-L", libDir, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "walk")
	assert.Contains(t, out, "1.5s")

	out, err = runCommand(t, "-L", libDir, "remove", "walk")
	require.NoError(t, err)
	assert.Contains(t, out, `Removed "walk"`)

	out, err = runCommand(t, "-L", libDir, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "library is empty")
}

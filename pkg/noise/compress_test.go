package noise

import (
	"errors"
	"io"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, path, payload string) string {
	t.Helper()

	w, err := CreateOutput(path, false)
	require.NoError(t, err)
	_, err = io.WriteString(w, payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := OpenInput(path)
	require.NoError(t, err)
	defer r.Close()

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(data)
}

func TestRoundTripPlain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "obs.tsv")
	assert.Equal(t, "chr1\t100\t9\t1\t10\n", roundTrip(t, path, "chr1\t100\t9\t1\t10\n"))
}

func TestRoundTripGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "obs.tsv.gz")
	assert.Equal(t, "chr1\t100\t9\t1\t10\n", roundTrip(t, path, "chr1\t100\t9\t1\t10\n"))
}

func TestRoundTripZstd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "obs.tsv.zst")
	assert.Equal(t, "chr1\t100\t9\t1\t10\n", roundTrip(t, path, "chr1\t100\t9\t1\t10\n"))
}

func TestCreateOutputConflict(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.tsv")

	w, err := CreateOutput(path, false)
	require.NoError(t, err)
	_, err = io.WriteString(w, "first\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = CreateOutput(path, false)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, path, conflict.Path)
	assert.True(t, errors.Is(err, fs.ErrExist))

	w, err = CreateOutput(path, true)
	require.NoError(t, err)
	_, err = io.WriteString(w, "second\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := OpenInput(path)
	require.NoError(t, err)
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "second\n", string(data))
}

func TestOpenInputMissing(t *testing.T) {
	_, err := OpenInput(filepath.Join(t.TempDir(), "nope.tsv"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

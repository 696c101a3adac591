package loader

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kdtree"
)

const sample = `# x y z
-100 -100 -100
1,2,3

4	5	6
`

func TestParse(t *testing.T) {
	t.Run("Rows", func(t *testing.T) {
		got, err := Parse(context.Background(), strings.NewReader(sample), 3)
		require.NoError(t, err)
		assert.Equal(t, [][]float32{{-100, -100, -100}, {1, 2, 3}, {4, 5, 6}}, got)
	})

	t.Run("SkipHeader", func(t *testing.T) {
		in := "x y\n1 2\n3 4\n"
		got, err := Parse(context.Background(), strings.NewReader(in), 2, WithSkipHeader(true))
		require.NoError(t, err)
		assert.Equal(t, [][]float32{{1, 2}, {3, 4}}, got)
	})

	t.Run("Empty", func(t *testing.T) {
		got, err := Parse(context.Background(), strings.NewReader("\n# nothing\n"), 2)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("WrongArity", func(t *testing.T) {
		_, err := Parse(context.Background(), strings.NewReader("1 2\n1 2 3\n"), 2)
		var mr *ErrMalformedRow
		require.ErrorAs(t, err, &mr)
		assert.Equal(t, 2, mr.Line)
		assert.Contains(t, err.Error(), "expected 2 columns, got 3")
	})

	t.Run("NotANumber", func(t *testing.T) {
		_, err := Parse(context.Background(), strings.NewReader("1 x\n"), 2)
		var mr *ErrMalformedRow
		require.ErrorAs(t, err, &mr)
		assert.Equal(t, 1, mr.Line)
		assert.ErrorIs(t, err, strconv.ErrSyntax)
	})

	t.Run("Canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Parse(ctx, strings.NewReader("1 2\n"), 2)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func writePoints(t *testing.T, dir, name string, points [][]float32) string {
	t.Helper()

	var plain bytes.Buffer
	for _, p := range points {
		for i, v := range p {
			if i > 0 {
				plain.WriteByte(' ')
			}
			plain.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32))
		}
		plain.WriteByte('\n')
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	var w io.WriteCloser
	switch DetectCompression(path) {
	case CompressionGzip:
		w = gzip.NewWriter(f)
	case CompressionZSTD:
		w, err = zstd.NewWriter(f)
		require.NoError(t, err)
	case CompressionLZ4:
		w = lz4.NewWriter(f)
	default:
		_, err = f.Write(plain.Bytes())
		require.NoError(t, err)
		return path
	}
	_, err = w.Write(plain.Bytes())
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return path
}

func TestDetectCompression(t *testing.T) {
	assert.Equal(t, CompressionGzip, DetectCompression("a.txt.gz"))
	assert.Equal(t, CompressionZSTD, DetectCompression("a.ZST"))
	assert.Equal(t, CompressionLZ4, DetectCompression("a.lz4"))
	assert.Equal(t, CompressionNone, DetectCompression("a.txt"))
	assert.Equal(t, "zstd", CompressionZSTD.String())
}

func TestReadFile_Compressed(t *testing.T) {
	dir := t.TempDir()
	points := [][]float32{{1.5, -2}, {3, 4.25}, {0, 0}}

	for _, name := range []string{"p.txt", "p.txt.gz", "p.txt.zst", "p.txt.lz4"} {
		t.Run(name, func(t *testing.T) {
			path := writePoints(t, dir, name, points)

			got, err := ReadFile(context.Background(), path, 2)
			require.NoError(t, err)
			assert.Equal(t, points, got)
		})
	}
}

func TestReadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadFile(context.Background(), filepath.Join(dir, "missing.txt"), 2)
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(path, []byte("1 2\n3\n"), 0o600))
	_, err = ReadFile(context.Background(), path, 2)
	var mr *ErrMalformedRow
	require.ErrorAs(t, err, &mr)
	assert.Equal(t, path, mr.Path)
	assert.Equal(t, 2, mr.Line)

	path = filepath.Join(dir, "bad.gz")
	require.NoError(t, os.WriteFile(path, []byte("not gzip"), 0o600))
	_, err = ReadFile(context.Background(), path, 2)
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	tree, err := kdtree.New(3, 2)
	require.NoError(t, err)
	defer tree.Close()

	path := writePoints(t, t.TempDir(), "p.txt", [][]float32{{1, 1}, {2, 2}, {3, 3}, {4, 4}})

	report, err := LoadFile(context.Background(), tree, path)
	require.NoError(t, err)

	assert.Equal(t, path, report.Path)
	assert.Equal(t, 4, report.Rows)
	assert.Equal(t, 3, report.Result.Succeeded)
	assert.Equal(t, []uint32{3}, report.Result.Failed.ToArray())
	assert.ErrorIs(t, report.Result.Errors[3], kdtree.ErrCapacityExceeded)
	assert.Equal(t, 3, tree.Len())
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	a := writePoints(t, dir, "a.txt.zst", [][]float32{{1, 1, 1}, {2, 2, 2}})
	b := writePoints(t, dir, "b.txt.gz", [][]float32{{3, 3, 3}})
	c := writePoints(t, dir, "c.txt", [][]float32{{4, 4, 4}, {5, 5, 5}})

	tree, err := kdtree.New(16, 3)
	require.NoError(t, err)
	defer tree.Close()

	reports, err := LoadFiles(context.Background(), tree, []string{a, b, c}, WithConcurrency(2))
	require.NoError(t, err)

	require.Len(t, reports, 3)
	assert.Equal(t, a, reports[0].Path)
	assert.Equal(t, 2, reports[0].Rows)
	assert.Equal(t, 1, reports[1].Rows)
	assert.Equal(t, 2, reports[2].Result.Succeeded)
	assert.Equal(t, 5, tree.Len())

	got, err := tree.Traverse()
	require.NoError(t, err)
	assert.Len(t, got, 5)
}

func TestLoadFiles_ParseErrorInsertsNothing(t *testing.T) {
	dir := t.TempDir()
	good := writePoints(t, dir, "good.txt", [][]float32{{1, 1}})
	bad := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(bad, []byte("1 2 3\n"), 0o600))

	tree, err := kdtree.New(4, 2)
	require.NoError(t, err)
	defer tree.Close()

	_, err = LoadFiles(context.Background(), tree, []string{good, bad})
	var mr *ErrMalformedRow
	require.True(t, errors.As(err, &mr))
	assert.Equal(t, 0, tree.Len())
}

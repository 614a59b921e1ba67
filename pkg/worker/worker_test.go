// pkg/worker/worker_test.go

package worker

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"BinView/pkg/source"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFile(t *testing.T, size int) (string, []byte) {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 253)
	}
	path := filepath.Join(t.TempDir(), "w.bin")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path, data
}

func TestWorker(t *testing.T) {
	path, data := testFile(t, 300<<10)
	ctx := context.Background()
	w := Start(source.Default())
	defer w.Close()

	_, err := w.Size(ctx)
	assert.Error(t, err, "nothing opened yet")

	require.NoError(t, w.Open(ctx, source.NewPathHandle(path)))
	size, err := w.Size(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, len(data), size)

	got, err := w.Read(ctx, 70000, 100000)
	require.NoError(t, err)
	assert.Equal(t, data[70000:170000], got)

	got, err = w.Read(ctx, int64(len(data))-10, 100)
	require.NoError(t, err)
	assert.Equal(t, data[len(data)-10:], got)

	_, err = w.Read(ctx, -1, 10)
	assert.Error(t, err)

	assert.Error(t, w.Open(ctx, source.NewPathHandle(filepath.Join(t.TempDir(), "missing"))))
	got, err = w.Read(ctx, 0, 10)
	require.NoError(t, err, "a failed open keeps the previous file")
	assert.Equal(t, data[:10], got)

	require.NoError(t, w.Close())
	_, err = w.Size(ctx)
	assert.ErrorIs(t, err, ErrClosed)
	require.NoError(t, w.Close())
}

func TestReaderDelegates(t *testing.T) {
	path, data := testFile(t, 200<<10)
	ctx := context.Background()
	direct, err := source.FromHandle(source.NewPathHandle(path), nil)
	require.NoError(t, err)
	defer direct.Disconnect()
	<-direct.Ready()

	r := NewReader(direct, Start(source.Default()))
	assert.EqualValues(t, len(data), r.Size(ctx))
	buf := make([]byte, 5000)
	n, err := r.ReadAt(ctx, buf, 1000)
	require.NoError(t, err)
	assert.Equal(t, data[1000:6000], buf[:n])
	assert.Equal(t, 0, direct.Stats().Chunks, "the worker has its own cache")

	n, err = r.ReadAt(ctx, buf, int64(len(data))-100)
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, data[len(data)-100:], buf[:n])
}

func TestReaderFallsBack(t *testing.T) {
	path, data := testFile(t, 200<<10)
	ctx := context.Background()
	direct, err := source.FromHandle(source.NewPathHandle(path), nil)
	require.NoError(t, err)
	defer direct.Disconnect()
	<-direct.Ready()

	w := Start(source.Default())
	r := NewReader(direct, w)
	buf := make([]byte, 100)
	_, err = r.ReadAt(ctx, buf, 0)
	require.NoError(t, err)

	// dropped worker
	require.NoError(t, w.Close())
	n, err := r.ReadAt(ctx, buf, 150<<10)
	require.NoError(t, err)
	assert.Equal(t, data[150<<10:150<<10+100], buf[:n])
	assert.Greater(t, direct.Stats().Chunks, 0)
	assert.EqualValues(t, len(data), r.Size(ctx))
}

func TestReaderWithoutWorker(t *testing.T) {
	s, err := source.FromBytes([]byte("0123456789"), "b", nil)
	require.NoError(t, err)
	r := NewReader(s, Start(source.Default()))
	buf := make([]byte, 4)
	n, err := r.ReadAt(context.Background(), buf, 3)
	require.NoError(t, err)
	assert.Equal(t, "3456", string(buf[:n]))
	s.Disconnect()

	r = NewReader(s, nil)
	assert.EqualValues(t, 10, r.Size(context.Background()))
}

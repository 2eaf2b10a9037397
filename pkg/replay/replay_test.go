package replay

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func TestRecordSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	rec := NewRecorder(dir, testLogger())

	t0 := time.Now()
	require.NoError(t, rec.Start(t0, func(w *os.File) error {
		_, err := w.WriteString("PREAMBLE")
		return err
	}))

	profile := [16]byte{1, 2, 3}
	rec.Record(t0.Add(10*time.Millisecond), profile, []byte("hello"))
	rec.Record(t0.Add(250*time.Millisecond), profile, []byte("world"))
	rec.Record(t0.Add(1*time.Second), profile, []byte("!"))

	path, err := rec.Save(nil)
	require.NoError(t, err)
	require.FileExists(t, path)
	require.Contains(t, filepath.Base(path), "_replay_")

	player := NewPlayer(testLogger())
	preamble, err := player.Load(path, func(r io.Reader) (interface{}, error) {
		buf := make([]byte, 8)
		_, err := io.ReadFull(r, buf)
		return string(buf), err
	})
	require.NoError(t, err)
	require.Equal(t, "PREAMBLE", preamble)

	t0p := time.Now()
	player.Start(t0p)

	ctx := context.Background()
	r1, err := player.GetPacket(ctx)
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), r1.Packet)
	require.GreaterOrEqual(t, time.Since(t0p), 10*time.Millisecond)

	r2, err := player.GetPacket(ctx)
	require.NoError(t, err)
	require.Equal(t, []byte("world"), r2.Packet)

	r3, err := player.GetPacket(ctx)
	require.NoError(t, err)
	require.Equal(t, []byte("!"), r3.Packet)

	_, err = player.GetPacket(ctx)
	require.ErrorIs(t, err, ErrEndOfFile)

	require.NoError(t, player.End())
}

func TestRecordDroppedWhileIdle(t *testing.T) {
	dir := t.TempDir()
	rec := NewRecorder(dir, testLogger())
	rec.Record(time.Now(), [16]byte{}, []byte("ignored"))
	_, err := rec.Save(nil)
	require.ErrorIs(t, err, ErrAlreadyOpen)
}

func TestRecoverPartialFileOnStart(t *testing.T) {
	dir := t.TempDir()
	tmpPath := filepath.Join(dir, Version+".tmp")
	require.NoError(t, os.WriteFile(tmpPath, []byte("leftover"), 0o644))

	rec := NewRecorder(dir, testLogger())
	require.NoError(t, rec.Start(time.Now(), nil))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var sawPartial bool
	for _, e := range entries {
		if bytes.Contains([]byte(e.Name()), []byte("_partial_")) {
			sawPartial = true
		}
	}
	require.True(t, sawPartial, "expected leftover .tmp file renamed to a partial file")
}

func TestGetPacketCancelSafe(t *testing.T) {
	dir := t.TempDir()
	rec := NewRecorder(dir, testLogger())
	t0 := time.Now()
	require.NoError(t, rec.Start(t0, nil))
	rec.Record(t0.Add(5*time.Second), [16]byte{9}, []byte("late"))
	path, err := rec.Save(nil)
	require.NoError(t, err)

	player := NewPlayer(testLogger())
	_, err = player.Load(path, nil)
	require.NoError(t, err)
	player.Start(time.Now())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = player.GetPacket(ctx)
	require.Error(t, err)

	// The record must still be deliverable after cancellation — not lost.
	ctx2, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel2()
	rec2, err := player.GetPacket(ctx2)
	require.NoError(t, err)
	require.Equal(t, []byte("late"), rec2.Packet)
}

package ingest

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/OCAP2/globe/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, nil))
}

func TestFetcher_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pos.txt", r.URL.Path)
		_, _ = w.Write([]byte("7000,0,0\n0,7000,0\n"))
	}))
	defer srv.Close()

	var logs bytes.Buffer
	f := NewFetcher(Config{Source: srv.URL + "/pos.txt"}, quietLogger(&logs))
	require.True(t, f.IsRemote())

	samples := f.Load(context.Background())

	assert.Equal(t, []core.RawSample{{X: 7000}, {Y: 7000}}, samples)
	assert.Contains(t, logs.String(), "Trajectory loaded")
}

func TestFetcher_HTTPNotFoundDegradesToEmpty(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	var logs bytes.Buffer
	f := NewFetcher(Config{Source: srv.URL + "/pos.txt"}, quietLogger(&logs))

	samples := f.Load(context.Background())

	assert.NotNil(t, samples)
	assert.Empty(t, samples)
	assert.Contains(t, logs.String(), "Error reading coordinates")
	assert.Contains(t, logs.String(), "status 404")
}

func TestFetcher_FetchReportsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewFetcher(Config{Source: srv.URL}, nil)
	_, err := f.Fetch(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestFetcher_UnreachableDegradesToEmpty(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	var logs bytes.Buffer
	f := NewFetcher(Config{Source: url + "/pos.txt", Timeout: time.Second}, quietLogger(&logs))

	samples := f.Load(context.Background())

	assert.Empty(t, samples)
	assert.Contains(t, logs.String(), "Error reading coordinates")
}

func TestFetcher_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pos.txt")
	require.NoError(t, os.WriteFile(path, []byte("1,2,3\n"), 0644))

	f := NewFetcher(Config{Source: path}, nil)
	require.False(t, f.IsRemote())

	samples, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []core.RawSample{{X: 1, Y: 2, Z: 3}}, samples)

	f = NewFetcher(Config{Source: "file://" + path}, nil)
	samples, err = f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, samples, 1)
}

func TestFetcher_MissingFileDegradesToEmpty(t *testing.T) {
	var logs bytes.Buffer
	f := NewFetcher(Config{Source: filepath.Join(t.TempDir(), "missing.txt")}, quietLogger(&logs))

	assert.Empty(t, f.Load(context.Background()))
	assert.Contains(t, logs.String(), "failed to open trajectory file")
}

func TestFetcher_MalformedDegradesToEmptyUnderAbort(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pos.txt")
	require.NoError(t, os.WriteFile(path, []byte("1,2,3\nnope\n"), 0644))

	var logs bytes.Buffer
	f := NewFetcher(Config{Source: path, Policy: PolicyAbort}, quietLogger(&logs))

	assert.Empty(t, f.Load(context.Background()))
	assert.Contains(t, logs.String(), "line 2")
}

func TestFetcher_MalformedSkippedUnderSkip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pos.txt")
	require.NoError(t, os.WriteFile(path, []byte("1,2,3\nnope\n4,5,6\n"), 0644))

	var logs bytes.Buffer
	f := NewFetcher(Config{Source: path, Policy: PolicySkip}, quietLogger(&logs))

	assert.Len(t, f.Load(context.Background()), 2)
}

func withBodyCap(t *testing.T, n int64) {
	t.Helper()
	prev := maxBodyBytes
	maxBodyBytes = n
	t.Cleanup(func() { maxBodyBytes = prev })
}

func TestFetcher_OversizedResourceFails(t *testing.T) {
	withBodyCap(t, 16)
	path := filepath.Join(t.TempDir(), "pos.txt")
	require.NoError(t, os.WriteFile(path, []byte("7000,0,0\n7000.123456,1,2000.25\n"), 0644))

	for _, policy := range []Policy{PolicyAbort, PolicySkip} {
		f := NewFetcher(Config{Source: path, Policy: policy}, nil)
		samples, err := f.Fetch(context.Background())

		assert.Nil(t, samples, policy.String())
		require.ErrorIs(t, err, ErrTooLarge, policy.String())
		assert.Contains(t, err.Error(), "trajectory exceeds 16 bytes")
	}
}

func TestFetcher_ResourceAtCapIsRead(t *testing.T) {
	body := "1,2,3\n4,5,6\n"
	withBodyCap(t, int64(len(body)))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	samples, err := NewFetcher(Config{Source: srv.URL}, nil).Fetch(context.Background())

	require.NoError(t, err)
	assert.Len(t, samples, 2)
}

func TestFetcher_EmptySource(t *testing.T) {
	f := NewFetcher(Config{}, nil)
	_, err := f.Fetch(context.Background())
	require.Error(t, err)
}

package view

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func imageServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.png" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png-bytes"))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func fakeRenderer(workers int, run func(ctx context.Context, path string, args []string, stdin []byte) ([]byte, error)) *Renderer {
	r := NewRenderer(workers, time.Second)
	r.lookPath = func(string) (string, error) { return "/usr/bin/chafa", nil }
	r.run = run
	return r
}

func TestRenderer_PipesImageThroughChafa(t *testing.T) {
	srv := imageServer(t)
	var gotArgs []string
	var gotInput string
	r := fakeRenderer(2, func(_ context.Context, path string, args []string, stdin []byte) ([]byte, error) {
		assert.Equal(t, "/usr/bin/chafa", path)
		gotArgs = args
		gotInput = string(stdin)
		return []byte("##\n##\n"), nil
	})

	out, err := r.Render(context.Background(), srv.URL+"/a.png", 20, 6)
	require.NoError(t, err)
	assert.Equal(t, "##\n##", out)
	assert.Equal(t, "png-bytes", gotInput)
	assert.Equal(t, []string{"--size", "20x6", "--view-size", "20x6", "--align", "mid,center", "--format", "symbols", "-"}, gotArgs)
}

func TestRenderer_Errors(t *testing.T) {
	srv := imageServer(t)
	ok := func(context.Context, string, []string, []byte) ([]byte, error) { return []byte("x"), nil }

	r := fakeRenderer(1, ok)
	r.lookPath = func(string) (string, error) { return "", errors.New("not found") }
	_, err := r.Render(context.Background(), srv.URL+"/a.png", 10, 4)
	assert.ErrorIs(t, err, ErrNoChafa)

	r = fakeRenderer(1, ok)
	_, err = r.Render(context.Background(), srv.URL+"/missing.png", 10, 4)
	assert.ErrorContains(t, err, "status 404")

	r = fakeRenderer(1, func(context.Context, string, []string, []byte) ([]byte, error) {
		return []byte("bad image"), errors.New("exit status 1")
	})
	_, err = r.Render(context.Background(), srv.URL+"/a.png", 10, 4)
	assert.ErrorContains(t, err, "render image via chafa")
	assert.ErrorContains(t, err, "bad image")

	r = fakeRenderer(1, func(context.Context, string, []string, []byte) ([]byte, error) { return []byte("\n"), nil })
	_, err = r.Render(context.Background(), srv.URL+"/a.png", 10, 4)
	assert.ErrorContains(t, err, "empty output")

	_, err = r.Render(context.Background(), srv.URL+"/a.png", 0, 4)
	assert.ErrorContains(t, err, "invalid preview size")
}

func TestRenderer_BoundsConcurrency(t *testing.T) {
	srv := imageServer(t)
	var running, peak atomic.Int32
	r := fakeRenderer(2, func(context.Context, string, []string, []byte) ([]byte, error) {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		running.Add(-1)
		return []byte("ok"), nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Render(context.Background(), srv.URL+"/a.png", 4, 2)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, peak.Load(), int32(2))
	assert.GreaterOrEqual(t, peak.Load(), int32(1))
}

func TestRenderer_CancelledWhileWaiting(t *testing.T) {
	srv := imageServer(t)
	release := make(chan struct{})
	entered := make(chan struct{}, 1)
	r := fakeRenderer(1, func(context.Context, string, []string, []byte) ([]byte, error) {
		entered <- struct{}{}
		<-release
		return []byte("ok"), nil
	})

	done := make(chan error, 1)
	go func() {
		_, err := r.Render(context.Background(), srv.URL+"/a.png", 4, 2)
		done <- err
	}()
	<-entered

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Render(ctx, srv.URL+"/a.png", 4, 2)
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
	require.NoError(t, <-done)
}

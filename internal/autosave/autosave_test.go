package autosave

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drawpad.app/drawpad/internal/drawctx"
	"drawpad.app/drawpad/internal/surface"
)

type memSink struct {
	mu    sync.Mutex
	saved [][]byte
	err   error
}

func (m *memSink) Save(_ context.Context, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.saved = append(m.saved, data)
	return "memory", nil
}

func (m *memSink) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saved)
}

// rasterContainer mounts a drawctx raster without any UI.
type rasterContainer struct{}

func (rasterContainer) CreateCanvas() (surface.Canvas, error) {
	return &rasterCanvas{ctx: drawctx.New(0, 0)}, nil
}
func (rasterContainer) SetBoxSize(float64, float64, surface.SizeUnit) {}
func (rasterContainer) SetBorder(surface.Border)                      {}

type rasterCanvas struct {
	ctx *drawctx.Context
}

func (c *rasterCanvas) SetDrawingSize(w, h int)                { _ = c.ctx.Resize(w, h) }
func (c *rasterCanvas) SetBackground(string)                   {}
func (c *rasterCanvas) SetCursor(surface.Cursor)               {}
func (c *rasterCanvas) Context() (surface.Context, error)      { return c.ctx, nil }
func (c *rasterCanvas) Listen(func(surface.InputEvent)) func() { return func() {} }

func newSurface() *surface.DrawingSurface {
	return surface.New(rasterContainer{}, surface.Options{Width: 40, Height: 30, StrokeWidth: 3})
}

func scribble(s *surface.DrawingSurface, moves int) {
	s.HandleInput(surface.InputEvent{Action: surface.ActionPress, X: 2, Y: 2})
	for i := 1; i <= moves; i++ {
		s.HandleInput(surface.InputEvent{Action: surface.ActionMove, X: float64(2 + 3*i), Y: float64(2 + 2*i)})
	}
	s.HandleInput(surface.InputEvent{Action: surface.ActionRelease, X: 20, Y: 20})
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func TestDecodeDataURL(t *testing.T) {
	tt := []struct {
		name  string
		input string
		want  string
		mime  string
		err   bool
	}{
		{"png", "data:image/png;base64,aGVsbG8=", "hello", "image/png", false},
		{"jpeg", "data:image/jpeg;base64,", "", "image/jpeg", false},
		{"no_scheme", "image/png;base64,aGVsbG8=", "", "", true},
		{"no_payload", "data:image/png;base64", "", "", true},
		{"not_base64", "data:text/plain,hello", "", "", true},
		{"bad_payload", "data:image/png;base64,***", "", "", true},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			data, mime, err := DecodeDataURL(tc.input)
			if tc.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(data))
			assert.Equal(t, tc.mime, mime)
		})
	}
}

func TestFileSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	sink := FileSink{Dir: dir}

	data := pngBytes(t)
	name, err := sink.Save(context.Background(), data)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(name), "drawpad-"))
	assert.Equal(t, ".png", filepath.Ext(name))

	got, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	_, err = sink.Save(context.Background(), []byte("just some text"))
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = sink.Save(ctx, data)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileSinkJPEGExtension(t *testing.T) {
	s := newSurface()
	scribble(s, 2)

	url, ok := s.ExportImage("jpg")
	require.True(t, ok)
	data, mime, err := DecodeDataURL(url)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mime)

	name, err := FileSink{Dir: t.TempDir()}.Save(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, ".jpg", filepath.Ext(name))
}

func TestHTTPSink(t *testing.T) {
	var calls atomic.Int32
	var gotType string
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	data := pngBytes(t)
	sink := HTTPSink{URL: srv.URL, RetryMax: 2, RetryWait: time.Millisecond}

	where, err := sink.Save(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, srv.URL, where)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, "image/png", gotType)
	assert.Equal(t, data, gotBody)
}

func TestHTTPSinkRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := HTTPSink{URL: srv.URL, RetryWait: time.Millisecond}.Save(context.Background(), pngBytes(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestOnDrawThrottles(t *testing.T) {
	tt := []struct {
		name  string
		every time.Duration
		want  int
	}{
		{"every_draw", 0, 4},
		{"once_per_hour", time.Hour, 1},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			sink := &memSink{}
			saver := New(context.Background(), sink, tc.every, surface.FormatPNG)

			s := newSurface()
			s.RegisterDrawCallback(saver.OnDraw)
			scribble(s, 4)
			saver.Wait()

			assert.Equal(t, tc.want, sink.count())
			where, err := saver.Last()
			assert.NoError(t, err)
			assert.Equal(t, "memory", where)
		})
	}
}

func TestOnDrawLogsSinkErrors(t *testing.T) {
	var logs bytes.Buffer
	sink := &memSink{err: errors.New("disk full")}
	saver := New(context.Background(), sink, 0, surface.FormatPNG)
	saver.LogOutput = &logs

	s := newSurface()
	s.RegisterDrawCallback(saver.OnDraw)
	scribble(s, 1)
	saver.Wait()

	_, err := saver.Last()
	assert.EqualError(t, err, "disk full")
	assert.Contains(t, logs.String(), `"level":"error"`)
	assert.Contains(t, logs.String(), "disk full")
}

func TestSaveNow(t *testing.T) {
	sink := &memSink{}
	saver := New(context.Background(), sink, time.Hour, surface.FormatPNG)

	s := newSurface()
	scribble(s, 1)

	for i := 0; i < 2; i++ {
		where, err := saver.SaveNow(s)
		require.NoError(t, err)
		assert.Equal(t, "memory", where)
	}
	assert.Equal(t, 2, sink.count())
}

func TestSaveNowWithoutCanvas(t *testing.T) {
	saver := New(context.Background(), &memSink{}, 0, surface.FormatPNG)

	_, err := saver.SaveNow(surface.New(nil, surface.Options{}))
	assert.Error(t, err)
}

func TestSaveAsync(t *testing.T) {
	release := make(chan struct{})
	sink := &blockingSink{release: release}
	saver := New(context.Background(), sink, time.Hour, surface.FormatPNG)

	s := newSurface()
	scribble(s, 1)

	results := make(chan string, 1)
	saver.SaveAsync(s, func(where string, err error) {
		assert.NoError(t, err)
		results <- where
	})

	select {
	case <-results:
		t.Fatal("SaveAsync waited for the sink")
	default:
	}

	close(release)
	assert.Equal(t, "blocked", <-results)
	saver.Wait()
}

func TestSaveAsyncWithoutCanvas(t *testing.T) {
	saver := New(context.Background(), &memSink{}, 0, surface.FormatPNG)

	var got error
	saver.SaveAsync(surface.New(nil, surface.Options{}), func(_ string, err error) {
		got = err
	})
	assert.Error(t, got)
}

type blockingSink struct {
	release chan struct{}
}

func (b *blockingSink) Save(ctx context.Context, _ []byte) (string, error) {
	select {
	case <-b.release:
		return "blocked", nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func TestNewSink(t *testing.T) {
	sink, err := NewSink("out", "")
	require.NoError(t, err)
	assert.Equal(t, FileSink{Dir: "out"}, sink)

	sink, err = NewSink("out", "http://localhost/pads")
	require.NoError(t, err)
	assert.Equal(t, HTTPSink{URL: "http://localhost/pads", RetryMax: uploadRetryMax}, sink)

	_, err = NewSink("", "")
	assert.Error(t, err)
}

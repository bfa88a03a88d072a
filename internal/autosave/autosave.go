// Package autosave stores snapshots of a drawing surface while the user
// draws, at most once per interval.
package autosave

import (
	"context"
	"encoding/base64"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"drawpad.app/drawpad/internal/surface"
)

// Saver exports the surface on draw and hands the image to a Sink in the
// background.
type Saver struct {
	Sink   Sink
	Format surface.Format

	limiter *rate.Limiter
	wg      sync.WaitGroup
	ctx     context.Context

	mu      sync.Mutex
	last    string
	lastErr error

	Logger      zerolog.Logger
	LogOutput   io.Writer
	initLogOnce sync.Once
}

// New returns a Saver writing to sink at most once per every. A
// non-positive interval saves on every draw.
func New(ctx context.Context, sink Sink, every time.Duration, format surface.Format) *Saver {
	limit := rate.Inf
	if every > 0 {
		limit = rate.Every(every)
	}
	return &Saver{
		Sink:    sink,
		Format:  format,
		limiter: rate.NewLimiter(limit, 1),
		ctx:     ctx,
		Logger:  zerolog.Nop(),
	}
}

// Log returns the zerolog logger, initializing it lazily if LogOutput is set.
func (a *Saver) Log() *zerolog.Logger {
	if a.LogOutput != nil {
		a.initLogOnce.Do(func() {
			a.Logger = zerolog.New(a.LogOutput).With().Timestamp().Str("component", "autosave").Logger()
		})
	}
	return &a.Logger
}

// OnDraw is a surface draw callback. Export happens on the caller's
// goroutine, the sink runs in the background.
func (a *Saver) OnDraw(s *surface.DrawingSurface) {
	if !a.limiter.Allow() {
		return
	}

	data, err := a.export(s)
	if err != nil {
		a.Log().Error().Err(err).Msg("autosave export")
		a.record("", err)
		return
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		where, err := a.Sink.Save(a.ctx, data)
		if err != nil {
			a.Log().Error().Err(err).Msg("autosave")
		} else {
			a.Log().Debug().Str("to", where).Int("bytes", len(data)).Msg("autosaved")
		}
		a.record(where, err)
	}()
}

// SaveNow exports and stores the surface immediately, ignoring the rate
// limit.
func (a *Saver) SaveNow(s *surface.DrawingSurface) (string, error) {
	data, err := a.export(s)
	if err != nil {
		return "", err
	}

	where, err := a.Sink.Save(a.ctx, data)
	a.record(where, err)
	if err != nil {
		return "", err
	}
	return where, nil
}

// SaveAsync exports s on the caller's goroutine and stores it in the
// background. done gets the outcome, from the background goroutine unless
// the export itself failed.
func (a *Saver) SaveAsync(s *surface.DrawingSurface, done func(where string, err error)) {
	data, err := a.export(s)
	if err != nil {
		a.record("", err)
		done("", err)
		return
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		where, err := a.Sink.Save(a.ctx, data)
		a.record(where, err)
		done(where, err)
	}()
}

// Last reports the result of the most recent save.
func (a *Saver) Last() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last, a.lastErr
}

// Wait blocks until background saves finish.
func (a *Saver) Wait() {
	a.wg.Wait()
}

func (a *Saver) export(s *surface.DrawingSurface) ([]byte, error) {
	url, ok := s.ExportImage(string(a.Format))
	if !ok {
		return nil, errors.New("surface has nothing to export")
	}
	data, _, err := DecodeDataURL(url)
	return data, err
}

func (a *Saver) record(where string, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.last, a.lastErr = where, err
}

// DecodeDataURL splits a base64 data URL into its bytes and media type.
func DecodeDataURL(u string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(u, "data:")
	if !ok {
		return nil, "", errors.New("not a data URL")
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", errors.New("data URL without payload")
	}

	mime, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return nil, "", errors.New("data URL is not base64 encoded")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", errors.Wrap(err, "data URL payload")
	}
	return data, mime, nil
}

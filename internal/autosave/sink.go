package autosave

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/h2non/filetype"
	"github.com/pkg/errors"
)

// A Sink stores one exported image and describes where it went.
type Sink interface {
	Save(ctx context.Context, data []byte) (string, error)
}

// NewSink picks the destination for a folder and an upload URL. The URL
// wins when both are set.
func NewSink(dir, url string) (Sink, error) {
	switch {
	case url != "":
		return HTTPSink{URL: url, RetryMax: uploadRetryMax}, nil
	case dir != "":
		return FileSink{Dir: dir}, nil
	}
	return nil, errors.New("autosave needs a folder or an upload URL")
}

// FileSink writes images into Dir as drawpad-<unix nanos>.<ext>. The
// extension comes from the image bytes, not the requested format.
type FileSink struct {
	Dir string
}

func (f FileSink) Save(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	kind, err := filetype.Match(data)
	if err != nil {
		return "", errors.Wrap(err, "file sink match")
	}
	if !filetype.IsImage(data) {
		return "", errors.Errorf("file sink: refusing %q data", kind.MIME.Value)
	}

	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return "", errors.Wrap(err, "file sink mkdir")
	}

	// Concurrent saves within the same nanosecond take the next free stamp.
	stamp := time.Now().UnixNano()
	for {
		name := filepath.Join(f.Dir, fmt.Sprintf("drawpad-%d.%s", stamp, kind.Extension))
		fh, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if os.IsExist(err) {
			stamp++
			continue
		}
		if err != nil {
			return "", errors.Wrap(err, "file sink create")
		}

		_, err = fh.Write(data)
		if closeErr := fh.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			return "", errors.Wrap(err, "file sink write")
		}
		return name, nil
	}
}

// HTTPSink POSTs images to URL, retrying failed attempts.
type HTTPSink struct {
	URL      string
	RetryMax int
	// RetryWait overrides the wait between attempts when positive.
	RetryWait time.Duration
}

func (h HTTPSink) Save(ctx context.Context, data []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.URL, bytes.NewReader(data))
	if err != nil {
		return "", errors.Wrap(err, "http sink request")
	}

	contentType := http.DetectContentType(data)
	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		contentType = kind.MIME.Value
	}
	req.Header.Set("Content-Type", contentType)

	client := newRetryableHTTPClient(h.RetryMax, h.RetryWait)
	res, err := client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "http sink post")
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)

	if res.StatusCode >= 300 {
		return "", errors.Errorf("http sink: %s responded %s", h.URL, res.Status)
	}
	return h.URL, nil
}

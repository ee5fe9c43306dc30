package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	ioutils "github.com/svgren/svgfetch/internal/io"
)

// Options configures a Client.
type Options struct {
	// Timeout bounds a whole request, body included. Zero disables it.
	Timeout time.Duration

	// UserAgent is sent with every request.
	UserAgent string

	// Logger receives resty's own diagnostics. Defaults to a no-op logger.
	Logger *zerolog.Logger
}

// Client downloads files over HTTP.
//
// Client provides:
//   - Configured User-Agent header
//   - Per-request timeout
//   - File download with progress tracking
//
// Requests are never retried.
//
// Example usage:
//
//	client := NewClient(Options{Timeout: time.Minute, UserAgent: "svgfetch"})
//
//	n, err := client.DownloadFile(ctx, "http://host/svg/bus.svg", "download/bus.svg", nil)
type Client struct {
	rc *resty.Client
}

// NewClient creates a new HTTP client.
func NewClient(opts Options) *Client {
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	rc := resty.New().
		SetTimeout(opts.Timeout).
		SetRetryCount(0).
		SetLogger(restyLogger{logger: logger})
	if opts.UserAgent != "" {
		rc.SetHeader("User-Agent", opts.UserAgent)
	}

	return &Client{rc: rc}
}

// StatusError is returned for responses outside the 2xx range.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// ProgressWriter wraps a writer to track download progress.
//
// Example:
//
//	pw := &ProgressWriter{
//	    Writer: file,
//	    OnUpdate: func(written int64) {
//	        fmt.Printf("%d bytes\n", written)
//	    },
//	}
//	io.Copy(pw, response.Body)
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with current progress.
	OnUpdate func(written int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written)
	}
	return n, err
}

// DownloadFile downloads url to destPath and returns the number of bytes written.
//
// The local file is only created once the server has answered with a 2xx
// status; it is truncated if it exists. A file left incomplete by a failed
// copy is removed.
//
// Returns an error if:
//   - The request fails (including timeout and cancellation)
//   - The response status is not 2xx (*StatusError)
//   - The file cannot be created or written
//
// onProgress may be nil.
func (c *Client) DownloadFile(ctx context.Context, url, destPath string, onProgress func(written int64)) (int64, error) {
	resp, err := c.rc.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return 0, err
	}
	body := resp.RawBody()
	defer body.Close()

	if !resp.IsSuccess() {
		return 0, &StatusError{URL: url, StatusCode: resp.StatusCode(), Status: resp.Status()}
	}

	file, err := os.Create(destPath)
	if err != nil {
		return 0, err
	}

	var writer io.Writer = file
	if onProgress != nil {
		writer = &ProgressWriter{
			Writer:   file,
			OnUpdate: onProgress,
		}
	}

	n, err := io.Copy(writer, body)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = ioutils.RemovePartial(destPath)
		return n, err
	}
	return n, nil
}

// restyLogger forwards resty's diagnostics to zerolog.
type restyLogger struct {
	logger zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.logger.Error().Str("component", "http").Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.logger.Warn().Str("component", "http").Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug().Str("component", "http").Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

var _ resty.Logger = restyLogger{}

// IsNotFound reports whether err is a 404 StatusError.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// Package http provides the HTTP client used to download images.
//
// The Client in this package handles:
//   - User-Agent headers
//   - Per-request timeouts
//   - Streaming a response body to a local file
//   - Progress tracking
//
// Transport is provided by resty; retries are disabled.
//
// # Basic Usage
//
//	client := http.NewClient(http.Options{
//	    Timeout:   60 * time.Second,
//	    UserAgent: "svgfetch",
//	})
//
//	n, err := client.DownloadFile(ctx, url, "download/bus.svg", nil)
//	var se *http.StatusError
//	if errors.As(err, &se) {
//	    // server answered, but not with 2xx
//	}
//
// # Progress Tracking
//
// Pass a callback to DownloadFile, or wrap any io.Writer in a ProgressWriter:
//
//	pw := &http.ProgressWriter{
//	    Writer:   file,
//	    OnUpdate: func(written int64) { /* update UI */ },
//	}
package http

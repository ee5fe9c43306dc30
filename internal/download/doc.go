// Package download provides the fetch logic: it turns the image manifest
// into local SVG files and a snippet for the svgren test harness.
//
// # Fetcher
//
// The Fetcher runs one strictly sequential pass:
//
//  1. Create the output directory
//  2. Open the manifest
//  3. For every line: normalize the filename, print its snippet line,
//     download the file
//  4. Print the final instructions
//
// # Basic Usage
//
//	settings := config.DefaultSettings()
//	client := http.NewClient(http.Options{Timeout: settings.RequestTimeout})
//
//	fetcher := download.New(settings, client, os.Stdout, func(event download.ProgressEvent) {
//	    fmt.Fprintln(os.Stderr, event.Message)
//	})
//
//	summary, err := fetcher.Run(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Failures
//
// A manifest line that cannot be normalized, or a file that cannot be
// downloaded, is reported through the progress callback and recorded in
// Summary.Failures. The remaining entries are still processed. Run only
// returns an error when the run as a whole cannot proceed.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// GetProgress returns counters that can be polled from another goroutine.
package download

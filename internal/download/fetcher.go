package download

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/dustin/go-humanize"

	"github.com/svgren/svgfetch/internal/config"
	"github.com/svgren/svgfetch/internal/http"
	ioutils "github.com/svgren/svgfetch/internal/io"
	"github.com/svgren/svgfetch/internal/manifest"
)

// FinalMessage is written to the echo writer once the manifest is exhausted.
const FinalMessage = "Use the snippet printed above in main.cpp of the svgren iOS test app.\n" +
	"It helps validate that your images work with the library."

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a fetch progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Downloader fetches a single URL into a local file.
//
// *http.Client from internal/http implements it.
type Downloader interface {
	DownloadFile(ctx context.Context, url, destPath string, onProgress func(written int64)) (int64, error)
}

// Failure records a manifest entry that produced no file.
type Failure struct {
	Entry manifest.Entry
	// Name is the normalized filename; empty if normalization failed.
	Name string
	Err  error
}

// Summary describes a completed (or interrupted) run.
type Summary struct {
	Entries    int
	Downloaded int
	Bytes      int64
	Failures   []Failure
}

// Failed returns the number of entries that produced no file.
func (s *Summary) Failed() int {
	return len(s.Failures)
}

// Fetcher downloads every file named in the manifest, one after another.
type Fetcher struct {
	settings *config.Settings
	client   Downloader
	echo     io.Writer

	receivedBytes   int64
	processed       int32
	downloadedFiles int32
	failedEntries   int32

	onProgress func(ProgressEvent)
}

// New creates a Fetcher. Echo lines and the final message are written to
// echo; diagnostics go to onProgress, which may be nil.
//
// The Fetcher keeps its own copy of settings; Run never writes to the
// caller's struct.
func New(settings *config.Settings, client Downloader, echo io.Writer, onProgress func(ProgressEvent)) *Fetcher {
	s := *settings
	return &Fetcher{
		settings:   &s,
		client:     client,
		echo:       echo,
		onProgress: onProgress,
	}
}

// Run performs the whole fetch: it creates the output directory, walks the
// manifest, prints one echo line and downloads one file per entry, then
// prints FinalMessage.
//
// Per-entry failures are reported through onProgress and collected in the
// Summary; they do not stop the run. The returned error is non-nil only when
// the run could not start or finish: invalid settings, the output directory
// cannot be created, the manifest cannot be read, the echo writer fails, or
// ctx is done. The Summary is non-nil whenever the manifest was opened.
func (f *Fetcher) Run(ctx context.Context) (*Summary, error) {
	if err := f.settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	if err := ioutils.EnsureDir(f.settings.OutputDir); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", f.settings.OutputDir, err)
	}

	r, err := manifest.Open(f.settings.ManifestPath)
	if err != nil {
		return nil, fmt.Errorf("opening manifest: %w", err)
	}
	defer r.Close()

	f.progress(ProgressEvent{Message: fmt.Sprintf("Reading %s, saving to %s", f.settings.ManifestPath, f.settings.OutputDir), Level: LevelInfo})

	summary := &Summary{}
	for r.Next() {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Entries++
		if err := f.fetchEntry(ctx, r.Entry(), summary); err != nil {
			return summary, err
		}
		atomic.AddInt32(&f.processed, 1)
	}
	if err := r.Err(); err != nil {
		return summary, fmt.Errorf("reading manifest %s: %w", f.settings.ManifestPath, err)
	}

	if summary.Failed() == 0 {
		f.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded %d file(s), %s", summary.Downloaded, humanize.Bytes(uint64(summary.Bytes))), Level: LevelSuccess})
	} else {
		f.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded %d/%d file(s), %d failed", summary.Downloaded, summary.Entries, summary.Failed()), Level: LevelWarning})
	}

	if _, err := fmt.Fprintln(f.echo, FinalMessage); err != nil {
		return summary, fmt.Errorf("writing final message: %w", err)
	}
	return summary, nil
}

// fetchEntry handles one manifest line. Only errors that must stop the run
// are returned.
func (f *Fetcher) fetchEntry(ctx context.Context, entry manifest.Entry, summary *Summary) error {
	name, err := manifest.NormalizeEntry(entry)
	if err != nil {
		f.fail(summary, Failure{Entry: entry, Err: err})
		f.progress(ProgressEvent{Message: fmt.Sprintf("Skipping manifest %v", err), Level: LevelWarning})
		return nil
	}

	if _, err := fmt.Fprintln(f.echo, manifest.Quote(name)); err != nil {
		return fmt.Errorf("writing snippet line: %w", err)
	}

	url := f.settings.SourceURL(name)
	dest := f.settings.DestPath(name)
	f.progress(ProgressEvent{Message: fmt.Sprintf("Fetching %s", url), Level: LevelVerbose})

	var last int64
	n, err := f.client.DownloadFile(ctx, url, dest, func(written int64) {
		atomic.AddInt64(&f.receivedBytes, written-last)
		last = written
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		f.fail(summary, Failure{Entry: entry, Name: name, Err: err})
		msg := fmt.Sprintf("Error downloading %s: %v", name, err)
		if http.IsNotFound(err) {
			msg = fmt.Sprintf("Not found on image host: %s (%v)", name, err)
		}
		f.progress(ProgressEvent{Message: msg, Level: LevelError})
		return nil
	}

	summary.Downloaded++
	summary.Bytes += n
	atomic.AddInt32(&f.downloadedFiles, 1)
	f.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded: %s (%s)", name, humanize.Bytes(uint64(n))), Level: LevelVerbose})
	return nil
}

func (f *Fetcher) fail(summary *Summary, failure Failure) {
	summary.Failures = append(summary.Failures, failure)
	atomic.AddInt32(&f.failedEntries, 1)
}

// GetProgress returns current progress. It is safe to call while Run is in
// progress.
func (f *Fetcher) GetProgress() (received int64, processed, downloaded, failed int32) {
	return atomic.LoadInt64(&f.receivedBytes), atomic.LoadInt32(&f.processed),
		atomic.LoadInt32(&f.downloadedFiles), atomic.LoadInt32(&f.failedEntries)
}

func (f *Fetcher) progress(event ProgressEvent) {
	if f.onProgress != nil {
		f.onProgress(event)
	}
}

package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

// Settings holds the fetch parameters.
//
// Source and destination are fixed; DefaultSettings is the only place they
// are set. The struct exists so tests can point a run at a temporary
// directory and a local HTTP server.
type Settings struct {
	// Manifest settings
	ManifestPath string

	// Download settings
	OutputDir      string
	BaseURL        string
	RequestTimeout time.Duration
	UserAgent      string
}

const (
	DefaultManifestPath   = "images.xml"
	DefaultOutputDir      = "./download"
	DefaultBaseURL        = "http://images-staging.transitapp.com/svg/"
	DefaultRequestTimeout = 60 * time.Second
	DefaultUserAgent      = "svgfetch"
)

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		ManifestPath:   DefaultManifestPath,
		OutputDir:      DefaultOutputDir,
		BaseURL:        DefaultBaseURL,
		RequestTimeout: DefaultRequestTimeout,
		UserAgent:      DefaultUserAgent,
	}
}

// Validate checks the settings and normalizes BaseURL so that it always ends
// with a slash.
func (s *Settings) Validate() error {
	if s.ManifestPath == "" {
		return errors.New("manifest path is empty")
	}
	if s.OutputDir == "" {
		return errors.New("output directory is empty")
	}
	if s.RequestTimeout < 0 {
		return fmt.Errorf("negative request timeout %s", s.RequestTimeout)
	}

	u, err := url.Parse(s.BaseURL)
	if err != nil {
		return fmt.Errorf("parsing base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base URL %q: unsupported scheme %q", s.BaseURL, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("base URL %q has no host", s.BaseURL)
	}
	if !strings.HasSuffix(s.BaseURL, "/") {
		s.BaseURL += "/"
	}
	return nil
}

// SourceURL returns the remote location of a normalized filename.
func (s *Settings) SourceURL(name string) string {
	return s.BaseURL + url.PathEscape(name)
}

// DestPath returns the local path a normalized filename is written to.
func (s *Settings) DestPath(name string) string {
	return filepath.Join(s.OutputDir, name)
}

// Package config provides the settings for svgfetch.
//
// The manifest path, output directory and image host are fixed:
//
//	settings := config.DefaultSettings()
//	// Reads images.xml
//	// Writes into ./download
//	// Fetches from http://images-staging.transitapp.com/svg/
//
// Settings is passed explicitly to the fetcher so tests can substitute a
// temporary directory and a local server:
//
//	settings := config.DefaultSettings()
//	settings.OutputDir = t.TempDir()
//	settings.BaseURL = server.URL + "/svg/"
//	if err := settings.Validate(); err != nil {
//	    // ...
//	}
//
// Validate always runs before a fetch. It rejects empty paths, negative
// timeouts and base URLs that are not absolute http(s) URLs, and appends a
// trailing slash to BaseURL when it is missing.
package config

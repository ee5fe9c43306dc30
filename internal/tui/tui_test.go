package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/svgren/svgfetch/internal/config"
	"github.com/svgren/svgfetch/internal/download"
)

type fixedProgress struct {
	received                      int64
	processed, downloaded, failed int32
}

func (p fixedProgress) GetProgress() (int64, int32, int32, int32) {
	return p.received, p.processed, p.downloaded, p.failed
}

func newTestModel(source ProgressSource) (Model, *bool) {
	cancelled := false
	return NewModel(config.DefaultSettings(), source, func() { cancelled = true }), &cancelled
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model
}

func TestModel_ProgressFiltersVerbose(t *testing.T) {
	m, _ := newTestModel(nil)

	m = update(t, m, ProgressMsg{Event: download.ProgressEvent{Message: "Fetching bus.svg", Level: download.LevelVerbose}})
	require.Empty(t, m.logs)

	m = update(t, m, ProgressMsg{Event: download.ProgressEvent{Message: "Error downloading bus.svg", Level: download.LevelError}})
	require.Len(t, m.logs, 1)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("v")})
	m = update(t, m, ProgressMsg{Event: download.ProgressEvent{Message: "Fetching train.svg", Level: download.LevelVerbose}})
	require.Len(t, m.logs, 2)
}

func TestModel_LogsAreCapped(t *testing.T) {
	m, _ := newTestModel(nil)
	for i := 0; i < 3*maxLogs; i++ {
		m = update(t, m, ProgressMsg{Event: download.ProgressEvent{Message: fmt.Sprintf("event %d", i), Level: download.LevelInfo}})
	}
	require.Len(t, m.logs, maxLogs)
	require.Equal(t, fmt.Sprintf("event %d", 3*maxLogs-1), m.logs[maxLogs-1].Message)
}

func TestModel_Done(t *testing.T) {
	m, _ := newTestModel(fixedProgress{received: 2048, processed: 2, downloaded: 2})
	m = update(t, m, SnippetMsg{Line: `"bus.svg",`})
	m = update(t, m, DoneMsg{Summary: &download.Summary{Entries: 2, Downloaded: 2, Bytes: 2048}})

	require.Equal(t, StateComplete, m.State())
	view := m.View()
	require.Contains(t, view, "Fetch complete")
	require.Contains(t, view, "Downloaded: 2")
	require.Contains(t, view, "2.0 kB")
}

func TestModel_DoneWithError(t *testing.T) {
	m, _ := newTestModel(nil)
	m = update(t, m, DoneMsg{Err: errors.New("opening manifest: no such file")})

	require.Equal(t, StateError, m.State())
	require.Contains(t, m.View(), "opening manifest")
}

func TestModel_EscCancels(t *testing.T) {
	m, cancelled := newTestModel(nil)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	require.True(t, *cancelled)
	require.Equal(t, StateError, m.State())
	require.EqualError(t, m.Err(), "cancelled by user")

	// The fetch returning afterwards does not hide the cancellation.
	m = update(t, m, DoneMsg{Err: context.Canceled})
	require.EqualError(t, m.Err(), "cancelled by user")
}

func TestModel_TickUpdatesCounters(t *testing.T) {
	m, _ := newTestModel(fixedProgress{received: 10, processed: 3, downloaded: 2, failed: 1})
	m = update(t, m, TickMsg{})

	require.Equal(t, int32(3), m.processed)
	require.Equal(t, int32(1), m.failed)
	require.Contains(t, m.View(), "Entries: 3 | Downloaded: 2 | Failed: 1")
}

func TestSnippetWriter(t *testing.T) {
	var lines []string
	w := &snippetWriter{send: func(msg tea.Msg) {
		lines = append(lines, msg.(SnippetMsg).Line)
	}}

	fmt.Fprintln(w, `"bus.svg",`)
	_, _ = w.Write([]byte(`"train`))
	_, _ = w.Write([]byte(`.svg",` + "\n"))
	fmt.Fprintln(w, download.FinalMessage)

	want := append([]string{`"bus.svg",`, `"train.svg",`}, strings.Split(download.FinalMessage, "\n")...)
	require.Equal(t, want, lines)
	require.Equal(t, "\"bus.svg\",\n\"train.svg\",\n"+download.FinalMessage+"\n", w.String())
}

func TestRun_InvalidSettings(t *testing.T) {
	s := config.DefaultSettings()
	s.BaseURL = "ftp://images.example.com/svg/"

	result, err := Run(s)

	require.Nil(t, result)
	require.ErrorContains(t, err, "invalid settings")
}

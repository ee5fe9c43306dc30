package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/svgren/svgfetch/internal/download"
	"github.com/svgren/svgfetch/internal/tui"
)

func TestReport(t *testing.T) {
	snippet := "\"bus.svg\",\n" + download.FinalMessage + "\n"
	partial := &tui.Result{Snippet: "\"bus.svg\",\n"}

	tests := []struct {
		name       string
		result     *tui.Result
		err        error
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{
			name:       "complete",
			result:     &tui.Result{Snippet: snippet, Summary: &download.Summary{Entries: 1, Downloaded: 1}},
			wantCode:   0,
			wantStdout: snippet,
		},
		{
			name:       "cancelled",
			result:     partial,
			err:        context.Canceled,
			wantCode:   130,
			wantStderr: "Cancelled.\n",
		},
		{
			name:       "cancelled wrapped",
			result:     partial,
			err:        fmt.Errorf("fetch: %w", context.Canceled),
			wantCode:   130,
			wantStderr: "Cancelled.\n",
		},
		{
			name:       "setup failure",
			result:     &tui.Result{},
			err:        errors.New("opening manifest: no such file"),
			wantCode:   1,
			wantStderr: "Error: opening manifest: no such file\n",
		},
		{
			name:       "invalid settings",
			err:        errors.New("invalid settings: output directory is empty"),
			wantCode:   1,
			wantStderr: "Error: invalid settings: output directory is empty\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer

			code := report(tt.result, tt.err, &stdout, &stderr)

			require.Equal(t, tt.wantCode, code)
			require.Equal(t, tt.wantStdout, stdout.String())
			require.Equal(t, tt.wantStderr, stderr.String())
		})
	}
}

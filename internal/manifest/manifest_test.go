package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	ioutils "github.com/svgren/svgfetch/internal/io"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"bus.svg", "bus.svg"},
		{"train.svg?", "train.svg"},
		{"icon_bus.svg", "icon_bus.svg"},
		{".svg", ".svg"},
		{"a.svgx", "a.svg"},
		{"ferry.svg€", "ferry.svg"},
		// Not an .svg entry: still exactly one character removed.
		{"photo.png", "photo.pn"},
		{"abcd", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := Normalize(tt.line)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_TooShort(t *testing.T) {
	for _, line := range []string{"", "a", "ab", "svg", "é?"} {
		_, err := Normalize(line)
		require.ErrorIs(t, err, ErrEntryTooShort, "line %q", line)
	}
}

func TestNormalize_InvalidName(t *testing.T) {
	for _, line := range []string{"../x.svg", "dir/bus.svg", `bus\.svg`, "bus\x00.svg"} {
		_, err := Normalize(line)
		require.ErrorIs(t, err, ioutils.ErrInvalidFileName, "line %q", line)
	}
}

func TestQuote(t *testing.T) {
	require.Equal(t, `"icon_bus.svg",`, Quote("icon_bus.svg"))
	require.Equal(t, `"my icon.svg",`, Quote("my icon.svg"))
	require.Equal(t, `"say \"hi\".svg",`, Quote(`say "hi".svg`))
}

func TestReader(t *testing.T) {
	r := NewReader(strings.NewReader("bus.svg\ntrain.svg?\r\n\nferry.svg"))
	defer r.Close()

	var entries []Entry
	for r.Next() {
		entries = append(entries, r.Entry())
	}
	require.NoError(t, r.Err())
	require.Equal(t, []Entry{
		{Line: 1, Raw: "bus.svg"},
		{Line: 2, Raw: "train.svg?"},
		{Line: 3, Raw: ""},
		{Line: 4, Raw: "ferry.svg"},
	}, entries)
}

func TestReader_OverlongLine(t *testing.T) {
	long := strings.Repeat("a", 70000) + ".svg"
	r := NewReader(strings.NewReader("bus.svg\n" + long + "\r\ntrain.svg"))

	var entries []Entry
	for r.Next() {
		entries = append(entries, r.Entry())
	}
	require.NoError(t, r.Err())
	require.Len(t, entries, 3)

	require.Equal(t, Entry{Line: 1, Raw: "bus.svg"}, entries[0])
	require.Equal(t, 2, entries[1].Line)
	require.True(t, entries[1].Truncated)
	require.Len(t, entries[1].Raw, MaxLineLength)
	require.Equal(t, Entry{Line: 3, Raw: "train.svg"}, entries[2])
}

func TestReader_LineAtLimit(t *testing.T) {
	line := strings.Repeat("b", MaxLineLength-len(Extension)) + Extension
	r := NewReader(strings.NewReader(line + "\n"))
	require.True(t, r.Next())
	require.False(t, r.Entry().Truncated)
	require.Equal(t, line, r.Entry().Raw)
	require.False(t, r.Next())
}

func TestNormalizeEntry(t *testing.T) {
	name, err := NormalizeEntry(Entry{Line: 1, Raw: "train.svg?"})
	require.NoError(t, err)
	require.Equal(t, "train.svg", name)

	_, err = NormalizeEntry(Entry{Line: 2, Raw: "ab"})
	var entryErr *EntryError
	require.True(t, errors.As(err, &entryErr))
	require.Equal(t, 2, entryErr.Entry.Line)
	require.ErrorIs(t, err, ErrEntryTooShort)

	_, err = NormalizeEntry(Entry{Line: 3, Raw: strings.Repeat("c", MaxLineLength), Truncated: true})
	require.ErrorIs(t, err, ErrEntryTooLong)
	require.Equal(t, `line 3 ("`+strings.Repeat("c", 64)+`..."): entry too long`, err.Error())
}

func TestReader_Empty(t *testing.T) {
	r := NewReader(strings.NewReader(""))
	require.False(t, r.Next())
	require.NoError(t, r.Err())
}

func TestReader_ByteOrderMark(t *testing.T) {
	r := NewReader(strings.NewReader("\ufeffbus.svg\n"))
	require.True(t, r.Next())
	require.Equal(t, "bus.svg", r.Entry().Raw)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestReader_ReadError(t *testing.T) {
	r := NewReader(failingReader{})
	require.False(t, r.Next())
	require.EqualError(t, r.Err(), "disk on fire")
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "images.xml")
	require.NoError(t, os.WriteFile(path, []byte("bus.svg\ntrain.svg?\n"), 0644))

	r, err := Open(path)
	require.NoError(t, err)

	var names []string
	for r.Next() {
		name, err := Normalize(r.Entry().Raw)
		require.NoError(t, err)
		names = append(names, name)
	}
	require.NoError(t, r.Err())
	require.NoError(t, r.Close())
	require.Equal(t, []string{"bus.svg", "train.svg"}, names)
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "images.xml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestEntryError(t *testing.T) {
	err := error(&EntryError{Entry: Entry{Line: 3, Raw: "ab"}, Err: ErrEntryTooShort})
	require.ErrorIs(t, err, ErrEntryTooShort)
	require.Equal(t, `line 3 ("ab"): entry too short`, err.Error())
}

package manifest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	ioutils "github.com/svgren/svgfetch/internal/io"
)

// Extension is the file extension every manifest entry is expected to carry.
const Extension = ".svg"

// MaxLineLength is the longest manifest line, in bytes, kept as an entry.
// Longer lines are still consumed whole but only their first MaxLineLength
// bytes are retained, and NormalizeEntry rejects them.
const MaxLineLength = 4096

var (
	// ErrEntryTooShort is returned by Normalize for lines shorter than Extension.
	ErrEntryTooShort = errors.New("entry too short")

	// ErrEntryTooLong is returned by NormalizeEntry for lines longer than
	// MaxLineLength.
	ErrEntryTooLong = errors.New("entry too long")
)

// Entry is a single manifest line with its trailing newline removed.
type Entry struct {
	// Line is the 1-based line number in the manifest.
	Line int
	// Raw is the line content, cut to MaxLineLength bytes.
	Raw string
	// Truncated is set when the line was longer than MaxLineLength.
	Truncated bool
}

// EntryError reports a manifest line that could not be turned into a filename.
type EntryError struct {
	Entry Entry
	Err   error
}

func (e *EntryError) Error() string {
	raw := e.Entry.Raw
	if len(raw) > 64 || e.Entry.Truncated {
		raw = abbreviate(raw, 64)
	}
	return fmt.Sprintf("line %d (%q): %v", e.Entry.Line, raw, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

// abbreviate cuts s to at most n bytes on a rune boundary and marks the cut.
func abbreviate(s string, n int) string {
	if len(s) > n {
		s = s[:n]
		for len(s) > 0 && !utf8.ValidString(s) {
			s = s[:len(s)-1]
		}
	}
	return s + "..."
}

// Reader yields manifest entries one at a time.
//
// Reader is not restartable. The zero value is not usable; create one with
// Open or NewReader.
type Reader struct {
	br     *bufio.Reader
	closer io.Closer
	entry  Entry
	line   int
	err    error
}

// Open opens the manifest file at path.
//
// The caller must Close the returned Reader.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r := NewReader(f)
	r.closer = f
	return r, nil
}

// NewReader returns a Reader over r. Closing the Reader does not close r.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReader(r)}
}

// Next advances to the next entry. It returns false at the end of the
// manifest or on a read error; check Err afterwards.
//
// A line of any length is a single entry; see MaxLineLength.
func (r *Reader) Next() bool {
	if r.err != nil {
		return false
	}

	var (
		buf       []byte
		started   bool
		truncated bool
	)
	for {
		chunk, isPrefix, err := r.br.ReadLine()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				r.err = err
				return false
			}
			if !started {
				return false
			}
			break
		}
		started = true
		if !truncated {
			if room := MaxLineLength - len(buf); len(chunk) > room {
				buf = append(buf, chunk[:room]...)
				truncated = true
			} else {
				buf = append(buf, chunk...)
			}
		}
		if !isPrefix {
			break
		}
	}

	r.line++
	raw := string(buf)
	if r.line == 1 {
		raw = strings.TrimPrefix(raw, "\ufeff")
	}
	r.entry = Entry{Line: r.line, Raw: raw, Truncated: truncated}
	return true
}

// Entry returns the entry read by the last call to Next.
func (r *Reader) Entry() Entry {
	return r.entry
}

// Err returns the first read error encountered, if any.
func (r *Reader) Err() error {
	return r.err
}

// Close releases the underlying file, if the Reader owns one.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// NormalizeEntry normalizes a manifest entry, rejecting lines that were too
// long to keep. Errors are wrapped in *EntryError.
func NormalizeEntry(e Entry) (string, error) {
	if e.Truncated {
		return "", &EntryError{Entry: e, Err: ErrEntryTooLong}
	}
	name, err := Normalize(e.Raw)
	if err != nil {
		return "", &EntryError{Entry: e, Err: err}
	}
	return name, nil
}

// Normalize turns a manifest line into a filename.
//
// Lines ending in Extension are returned unchanged. Any other line has
// exactly one trailing character removed: some upstream entries carry a
// stray character after the extension, usually a '?'.
//
// Errors:
//   - ErrEntryTooShort when the line has fewer characters than Extension
//   - ioutils.ErrInvalidFileName when the result is not a single path element
//
// Example:
//
//	Normalize("bus.svg")    // "bus.svg"
//	Normalize("train.svg?") // "train.svg"
//	Normalize("")           // ErrEntryTooShort
func Normalize(line string) (string, error) {
	if utf8.RuneCountInString(line) < len(Extension) {
		return "", ErrEntryTooShort
	}

	name := line
	if !strings.HasSuffix(line, Extension) {
		_, size := utf8.DecodeLastRuneInString(line)
		name = line[:len(line)-size]
	}

	if err := ioutils.ValidateFileName(name); err != nil {
		return "", err
	}
	return name, nil
}

// Quote formats a filename as an element of a C++ string array literal:
// the quoted name followed by a comma.
//
//	Quote("icon_bus.svg") // "\"icon_bus.svg\","
func Quote(name string) string {
	return strconv.Quote(name) + ","
}

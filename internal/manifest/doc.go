// Package manifest reads the image list and turns its lines into filenames.
//
// The manifest is plain text, one filename per line. Despite the customary
// name (images.xml) it is not markup.
//
// # Reading
//
//	r, err := manifest.Open("images.xml")
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	for r.Next() {
//	    entry := r.Entry()
//	    // ...
//	}
//	if err := r.Err(); err != nil {
//	    return err
//	}
//
// # Normalization
//
// Some upstream entries carry one stray character after the extension.
// Normalize strips it:
//
//	manifest.Normalize("bus.svg")    // "bus.svg"
//	manifest.Normalize("train.svg?") // "train.svg"
//
// Lines shorter than ".svg" are rejected with ErrEntryTooShort.
//
// # Echo Lines
//
// Quote produces the snippet line pasted into the test harness:
//
//	manifest.Quote("bus.svg") // "bus.svg",
package manifest

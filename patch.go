package mseed

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	jsonpatch "github.com/evanphx/json-patch/v5"
)

// ErrBadHeaderPatch is returned when a merge patch cannot be loaded or
// applied to a record's extra headers.
var ErrBadHeaderPatch = errors.New("invalid extra header merge patch")

var emptyObject = []byte("{}")

// HeaderPatch is an RFC 7386 merge patch applied to every record's extra
// headers. It is loaded once per run and never modified afterwards.
type HeaderPatch struct {
	patch []byte
}

// NewHeaderPatch validates and minimizes a JSON merge patch document.
func NewHeaderPatch(doc []byte) (*HeaderPatch, error) {
	var compact bytes.Buffer

	if err := json.Compact(&compact, doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadHeaderPatch, err)
	}

	return &HeaderPatch{patch: compact.Bytes()}, nil
}

// LoadHeaderPatch reads a JSON merge patch document from a file.
func LoadHeaderPatch(path string) (*HeaderPatch, error) {
	doc, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read merge patch file: %w", err)
	}

	patch, err := NewHeaderPatch(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return patch, nil
}

// Apply merges the patch into the record's extra headers. A record without
// extra headers is patched against an empty object; when the merged result
// is the empty object the headers are cleared to absent instead.
//
// Only the extra header blob is touched, never samples or identity/timing
// fields.
func (p *HeaderPatch) Apply(rec *Record) error {
	if p == nil || len(p.patch) == 0 {
		return nil
	}

	base := rec.ExtraHeaders
	if base == nil {
		base = emptyObject
	}

	merged, err := jsonpatch.MergePatch(base, p.patch)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadHeaderPatch, err)
	}

	if bytes.Equal(merged, emptyObject) {
		rec.ExtraHeaders = nil

		return nil
	}

	if len(merged) > MaxExtraLength {
		return fmt.Errorf("%w: merged extra headers exceed %d bytes", ErrBadHeaderPatch, MaxExtraLength)
	}

	rec.ExtraHeaders = merged

	return nil
}

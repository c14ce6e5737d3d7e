package mseed

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// ErrBadRecord is returned when stream bytes cannot be framed as a
// miniSEED 2 or 3 record.
var ErrBadRecord = errors.New("invalid miniSEED record")

// Decoder reads a stream of miniSEED 2 and 3 records.
type Decoder struct {
	br *bufio.Reader

	// ValidateCRC enables CRC-32C validation of version 3 records.
	ValidateCRC bool
}

// NewDecoder creates a decoder for the passed reader. CRC validation of
// version 3 records is enabled by default.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{
		br:          bufio.NewReaderSize(r, 64*1024),
		ValidateCRC: true,
	}
}

// ReadNext parses and returns the next record from the stream. It returns
// io.EOF once the stream is cleanly exhausted.
func (d *Decoder) ReadNext() (*Record, error) {
	head, err := d.br.Peek(8)
	if err != nil {
		if errors.Is(err, io.EOF) && len(head) == 0 {
			return nil, io.EOF
		}

		return nil, fmt.Errorf("%w: short stream head", ErrBadRecord)
	}

	switch {
	case head[0] == 'M' && head[1] == 'S' && head[2] == 3:
		return readV3(d.br, d.ValidateCRC)
	case looksLikeV2(head):
		return readV2(d.br)
	default:
		return nil, fmt.Errorf("%w: unrecognized record header % x", ErrBadRecord, head)
	}
}

// looksLikeV2 sniffs a v2 fixed header: a six-character sequence number
// followed by a data quality indicator.
func looksLikeV2(head []byte) bool {
	for _, c := range head[:6] {
		if (c < '0' || c > '9') && c != ' ' {
			return false
		}
	}

	switch head[6] {
	case 'D', 'R', 'Q', 'M':
		return true
	default:
		return false
	}
}

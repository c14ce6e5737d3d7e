package mseed

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
)

var (
	// ErrRetiredEncoding is returned when a conversion would pack a
	// retired encoding.
	ErrRetiredEncoding = errors.New("retired data encoding not allowed for packing")
	// ErrUnsupportedVersion is returned for pack target versions other
	// than 3.
	ErrUnsupportedVersion = errors.New("only format version 3 is supported for packing")
)

// RetiredEncodingError identifies the retired encoding a conversion was
// about to produce.
type RetiredEncodingError struct {
	Encoding Encoding
}

func (e *RetiredEncodingError) Error() string {
	return fmt.Sprintf("%v: %s (%d)", ErrRetiredEncoding, e.Encoding, int8(e.Encoding))
}

func (e *RetiredEncodingError) Unwrap() error { return ErrRetiredEncoding }

// Options controls a conversion run. The zero Version and RecLen mean
// version 3 and the maximum record length; Encoding must be set to
// EncodingUnspecified (not left zero) to preserve record encodings, since
// the zero Encoding is text. Use DefaultOptions as the starting point.
type Options struct {
	// Version is the target format version. Only 3 can be packed.
	Version int
	// Encoding is the target payload encoding, or EncodingUnspecified to
	// keep each record's current encoding.
	Encoding Encoding
	// RecLen is the record length ceiling in bytes for packed records.
	RecLen int
	// ForceRepack disables the verbatim repack shortcut.
	ForceRepack bool
}

// DefaultOptions returns options for a plain version 3 conversion that
// preserves each record's encoding.
func DefaultOptions() Options {
	return Options{
		Version:  3,
		Encoding: EncodingUnspecified,
		RecLen:   MaxRecLen,
	}
}

func (o Options) normalized() Options {
	if o.Version == 0 {
		o.Version = 3
	}

	if o.RecLen <= 0 || o.RecLen > MaxRecLen {
		o.RecLen = MaxRecLen
	}

	return o
}

// Validate rejects option combinations before any record is read.
func (o Options) Validate() error {
	o = o.normalized()

	if o.Version != 3 {
		return fmt.Errorf("%w: version %d", ErrUnsupportedVersion, o.Version)
	}

	if o.Encoding != EncodingUnspecified && o.Encoding.Retired() {
		return &RetiredEncodingError{Encoding: o.Encoding}
	}

	return nil
}

// Totals summarizes the records and samples emitted by a conversion run.
type Totals struct {
	Records int64
	Samples int64
}

// Converter converts a stream of miniSEED records to version 3, one record
// at a time. Each record is either re-framed verbatim or decoded,
// converted, and re-encoded. The first failing record stops the run;
// already written output stands as-is.
type Converter struct {
	// Options is the immutable conversion configuration.
	Options Options
	// Patch is an optional extra header merge patch applied to every
	// record.
	Patch *HeaderPatch
	// Logger receives progress messages; defaults to a no-op logger.
	Logger *zap.Logger
	// SkipCRC disables CRC validation of version 3 input records.
	SkipCRC bool

	// scratch is reused for fast-path output framing. It never aliases a
	// record's buffers.
	scratch []byte
}

// NewConverter creates a converter for the given options.
func NewConverter(opts Options) *Converter {
	return &Converter{
		Options: opts.normalized(),
		Logger:  zap.NewNop(),
	}
}

// Convert reads records from r until end of stream, converting each and
// writing the produced records to w.
func (c *Converter) Convert(r io.Reader, w io.Writer) (Totals, error) {
	var totals Totals

	opts := c.Options.normalized()
	if err := opts.Validate(); err != nil {
		return totals, err
	}

	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	dec := NewDecoder(r)
	dec.ValidateCRC = !c.SkipCRC

	for {
		rec, err := dec.ReadNext()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return totals, err
		}

		if err := c.convertRecord(rec, opts, logger, w, &totals); err != nil {
			return totals, err
		}
	}

	logger.Info("conversion finished",
		zap.Int64("records", totals.Records),
		zap.Int64("samples", totals.Samples),
	)

	return totals, nil
}

func (c *Converter) convertRecord(rec *Record, opts Options, logger *zap.Logger, w io.Writer, totals *Totals) error {
	if err := c.Patch.Apply(rec); err != nil {
		return fmt.Errorf("%s: %w", rec.SID, err)
	}

	if verbatimEligible(rec, opts, bigEndianHost) {
		logger.Debug("re-packing record without re-packing encoded payload",
			zap.String("sid", rec.SID),
			zap.Stringer("encoding", rec.Encoding),
		)

		out, err := RepackVerbatim(rec, opts.RecLen, c.scratch)
		if err != nil {
			return fmt.Errorf("%s: cannot repack record: %w", rec.SID, err)
		}

		c.scratch = out

		if _, err := w.Write(out); err != nil {
			return fmt.Errorf("%s: cannot write output: %w", rec.SID, err)
		}

		totals.Records++
		totals.Samples += rec.SampleCount

		return nil
	}

	logger.Debug("re-packing record with decoded data",
		zap.String("sid", rec.SID),
		zap.Stringer("encoding", rec.Encoding),
	)

	if _, err := DecodePayload(rec); err != nil {
		return fmt.Errorf("%s: cannot unpack data samples: %w", rec.SID, err)
	}

	effective := opts.Encoding
	if effective == EncodingUnspecified {
		effective = rec.Encoding
	}

	if effective.Retired() {
		return fmt.Errorf("%s: %w", rec.SID, &RetiredEncodingError{Encoding: effective})
	}

	if err := ConvertSamples(rec, effective); err != nil {
		return fmt.Errorf("%s: cannot convert samples for encoding %s: %w", rec.SID, effective, err)
	}

	rec.Encoding = effective
	rec.FormatVersion = 3

	_, records, err := PackRecords(rec, opts.RecLen, func(out []byte) error {
		if _, err := w.Write(out); err != nil {
			return fmt.Errorf("cannot write output: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: cannot pack records: %w", rec.SID, err)
	}

	totals.Records += int64(records)
	totals.Samples += int64(rec.NumSamples())

	return nil
}

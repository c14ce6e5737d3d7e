package mseed

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"math"
	"time"
)

// miniSEED 3 fixed header layout, all fields little endian:
//
//	0   'M' 'S'
//	2   format version (3)
//	3   flags
//	4   nanosecond (uint32)
//	8   year (uint16)
//	10  day of year (uint16)
//	12  hour, 13 minute, 14 second
//	15  encoding
//	16  sample rate/period (float64)
//	24  number of samples (uint32)
//	28  CRC-32C of the record with this field zero (uint32)
//	32  publication version
//	33  SID length
//	34  extra header length (uint16)
//	36  data payload length (uint32)
//	40  SID, extra headers, payload
const v3FixedHeaderLen = 40

var (
	// ErrCRCMismatch is returned when a version 3 record fails CRC
	// validation.
	ErrCRCMismatch = errors.New("record CRC mismatch")
	// ErrRecordTooLong is returned when a record cannot fit the record
	// length ceiling.
	ErrRecordTooLong = errors.New("record exceeds length ceiling")
	// ErrRecordTooShort is returned when the record length ceiling cannot
	// hold a header and at least one sample.
	ErrRecordTooShort = errors.New("record length ceiling too small")
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// readV3 parses one version 3 record from the reader. The magic bytes have
// been checked by the caller but not consumed.
func readV3(br *bufio.Reader, validateCRC bool) (*Record, error) {
	hdr := make([]byte, v3FixedHeaderLen)
	if _, err := io.ReadFull(br, hdr); err != nil {
		return nil, fmt.Errorf("reading v3 fixed header: %w", err)
	}

	sidLen := int(hdr[33])
	extraLen := int(binary.LittleEndian.Uint16(hdr[34:36]))
	payloadLen := int(binary.LittleEndian.Uint32(hdr[36:40]))

	recLen := v3FixedHeaderLen + sidLen + extraLen + payloadLen
	if recLen > MaxRecLen {
		return nil, fmt.Errorf("%w: v3 record length %d", ErrBadRecord, recLen)
	}

	rest := make([]byte, sidLen+extraLen+payloadLen)
	if _, err := io.ReadFull(br, rest); err != nil {
		return nil, fmt.Errorf("reading v3 record body: %w", err)
	}

	if validateCRC {
		want := binary.LittleEndian.Uint32(hdr[28:32])

		crc := crc32.Update(0, castagnoli, hdr[:28])
		crc = crc32.Update(crc, castagnoli, []byte{0, 0, 0, 0})
		crc = crc32.Update(crc, castagnoli, hdr[32:])
		crc = crc32.Update(crc, castagnoli, rest)

		if crc != want {
			return nil, fmt.Errorf("%w: have %#08x, want %#08x", ErrCRCMismatch, crc, want)
		}
	}

	nanosecond := binary.LittleEndian.Uint32(hdr[4:8])
	year := int(binary.LittleEndian.Uint16(hdr[8:10]))
	yday := int(binary.LittleEndian.Uint16(hdr[10:12]))

	start := time.Date(year, time.January, 1,
		int(hdr[12]), int(hdr[13]), int(hdr[14]), int(nanosecond), time.UTC)
	start = start.AddDate(0, 0, yday-1)

	encoding := Encoding(int8(hdr[15]))

	rec := &Record{
		FormatVersion: hdr[2],
		Flags:         hdr[3],
		StartTime:     start,
		Encoding:      encoding,
		SampleRate:    math.Float64frombits(binary.LittleEndian.Uint64(hdr[16:24])),
		SampleCount:   int64(binary.LittleEndian.Uint32(hdr[24:28])),
		PubVersion:    hdr[32],
		SID:           string(rest[:sidLen]),
		RecLen:        recLen,
		SwapPayload:   v3PayloadBigEndian(encoding) != bigEndianHost,
	}

	if extraLen > 0 {
		rec.ExtraHeaders = append([]byte(nil), rest[sidLen:sidLen+extraLen]...)
	}

	if payloadLen > 0 {
		rec.Payload = append([]byte(nil), rest[sidLen+extraLen:]...)
	}

	return rec, nil
}

// v3PayloadBigEndian reports the on-disk payload byte order miniSEED 3
// mandates for an encoding. Steim frames are big endian; everything else,
// including verbatim-carried legacy payloads, is taken as little endian.
func v3PayloadBigEndian(enc Encoding) bool {
	return enc == EncodingSteim1 || enc == EncodingSteim2
}

// RepackVerbatim re-frames the record's raw encoded payload into a single
// miniSEED 3 record without touching the payload bytes. The scratch buffer
// is reused for the output when it has capacity; it must not alias any
// record buffer.
func RepackVerbatim(rec *Record, maxLen int, scratch []byte) ([]byte, error) {
	if maxLen <= 0 {
		maxLen = MaxRecLen
	}

	total := v3FixedHeaderLen + len(rec.SID) + len(rec.ExtraHeaders) + len(rec.Payload)
	if total > maxLen {
		return nil, fmt.Errorf("%w: %d > %d", ErrRecordTooLong, total, maxLen)
	}

	out, err := appendV3Record(scratch[:0], rec, rec.StartTime, rec.Payload, uint32(rec.SampleCount))
	if err != nil {
		return nil, err
	}

	return out, nil
}

// PackRecords encodes the record's decoded samples into one or more
// miniSEED 3 records bounded by maxRecLen, passing each finished record to
// emit. It returns the bytes written and records produced.
func PackRecords(rec *Record, maxRecLen int, emit func([]byte) error) (int, int, error) {
	if maxRecLen <= 0 || maxRecLen > MaxRecLen {
		maxRecLen = MaxRecLen
	}

	size := sampleBytes(rec.Encoding)
	if size == 0 {
		return 0, 0, fmt.Errorf("cannot pack %s payload: %w", rec.Encoding, ErrUnsupportedEncoding)
	}

	headerLen := v3FixedHeaderLen + len(rec.SID) + len(rec.ExtraHeaders)

	total := rec.Samples.Len()
	if total > 0 && maxRecLen < headerLen+size {
		return 0, 0, fmt.Errorf("%w: %d bytes cannot hold a %s sample for %s",
			ErrRecordTooShort, maxRecLen, rec.Encoding, rec.SID)
	}

	if total == 0 {
		out, err := appendV3Record(nil, rec, rec.StartTime, nil, 0)
		if err != nil {
			return 0, 0, err
		}

		if err := emit(out); err != nil {
			return 0, 0, err
		}

		return len(out), 1, nil
	}

	perRecord := (maxRecLen - headerLen) / size

	var (
		written int
		records int
	)

	for from := 0; from < total; from += perRecord {
		to := from + perRecord
		if to > total {
			to = total
		}

		payload, err := encodeSamples(&rec.Samples, rec.Encoding, binary.LittleEndian, from, to)
		if err != nil {
			return written, records, err
		}

		out, err := appendV3Record(nil, rec, sampleTimeAt(rec, from), payload, uint32(to-from))
		if err != nil {
			return written, records, err
		}

		if err := emit(out); err != nil {
			return written, records, err
		}

		written += len(out)
		records++
	}

	return written, records, nil
}

// sampleTimeAt returns the time of the record's n-th decoded sample.
func sampleTimeAt(rec *Record, n int) time.Time {
	if n == 0 {
		return rec.StartTime
	}

	rate := rec.SampleRate
	if rate < 0 {
		rate = -1.0 / rate
	}

	if rate == 0 {
		return rec.StartTime
	}

	return rec.StartTime.Add(time.Duration(float64(n) / rate * float64(time.Second)))
}

func appendV3Record(dst []byte, rec *Record, start time.Time, payload []byte, sampleCount uint32) ([]byte, error) {
	if len(rec.SID) > 255 {
		return nil, fmt.Errorf("%w: SID %q longer than 255 bytes", ErrBadRecord, rec.SID)
	}

	if len(rec.ExtraHeaders) > MaxExtraLength {
		return nil, fmt.Errorf("%w: extra headers %d bytes exceed %d",
			ErrBadRecord, len(rec.ExtraHeaders), MaxExtraLength)
	}

	start = start.UTC()

	var hdr [v3FixedHeaderLen]byte

	hdr[0] = 'M'
	hdr[1] = 'S'
	hdr[2] = 3
	hdr[3] = rec.Flags
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(start.Nanosecond()))
	binary.LittleEndian.PutUint16(hdr[8:10], uint16(start.Year()))
	binary.LittleEndian.PutUint16(hdr[10:12], uint16(start.YearDay()))
	hdr[12] = byte(start.Hour())
	hdr[13] = byte(start.Minute())
	hdr[14] = byte(start.Second())
	hdr[15] = byte(rec.Encoding)
	binary.LittleEndian.PutUint64(hdr[16:24], math.Float64bits(rec.SampleRate))
	binary.LittleEndian.PutUint32(hdr[24:28], sampleCount)
	// CRC at 28:32 stays zero until the record is complete.
	hdr[32] = rec.PubVersion
	hdr[33] = byte(len(rec.SID))
	binary.LittleEndian.PutUint16(hdr[34:36], uint16(len(rec.ExtraHeaders)))
	binary.LittleEndian.PutUint32(hdr[36:40], uint32(len(payload)))

	dst = append(dst, hdr[:]...)
	dst = append(dst, rec.SID...)
	dst = append(dst, rec.ExtraHeaders...)
	dst = append(dst, payload...)

	crc := crc32.Checksum(dst, castagnoli)
	binary.LittleEndian.PutUint32(dst[28:32], crc)

	return dst, nil
}

package mseed

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"strings"
	"time"
)

// miniSEED 2.x records have a 48-byte fixed header followed by a chain of
// blockettes and the data payload, all inside one fixed-length record of
// 2^n bytes. The record length, payload encoding, and payload byte order
// come from blockette 1000; blockette 1001 refines the start time with a
// microsecond offset. Header byte order is not declared and is detected
// from the year/day fields.
const v2FixedHeaderLen = 48

// readV2 parses one version 2 record from the reader. The caller has
// sniffed the sequence number and quality byte but consumed nothing.
func readV2(br *bufio.Reader) (*Record, error) {
	buf := make([]byte, v2FixedHeaderLen, 512)
	if _, err := io.ReadFull(br, buf); err != nil {
		return nil, fmt.Errorf("reading v2 fixed header: %w", err)
	}

	order, err := v2HeaderByteOrder(buf)
	if err != nil {
		return nil, err
	}

	// grow the in-memory record prefix to at least n bytes
	ensure := func(n int) error {
		if n <= len(buf) {
			return nil
		}

		grown := append(buf, make([]byte, n-len(buf))...)
		if _, err := io.ReadFull(br, grown[len(buf):]); err != nil {
			return fmt.Errorf("reading v2 record: %w", err)
		}

		buf = grown

		return nil
	}

	numBlockettes := int(buf[39])
	dataOffset := int(order.Uint16(buf[44:46]))
	blocketteOffset := int(order.Uint16(buf[46:48]))

	var (
		haveB1000  bool
		encoding   Encoding
		wordOrder  byte
		recLen     int
		usecOffset int8
	)

	for visited := 0; blocketteOffset != 0; visited++ {
		if visited > numBlockettes+8 || blocketteOffset < v2FixedHeaderLen {
			return nil, fmt.Errorf("%w: malformed v2 blockette chain", ErrBadRecord)
		}

		// Once blockette 1000 has fixed the record length, a chain offset
		// past it would make ensure consume the next record's bytes.
		if recLen != 0 && blocketteOffset+8 > recLen {
			return nil, fmt.Errorf("%w: v2 blockette offset %d past record end %d",
				ErrBadRecord, blocketteOffset, recLen)
		}

		if err := ensure(blocketteOffset + 4); err != nil {
			return nil, err
		}

		blocketteType := int(order.Uint16(buf[blocketteOffset:]))
		next := int(order.Uint16(buf[blocketteOffset+2:]))

		switch blocketteType {
		case 1000:
			if err := ensure(blocketteOffset + 8); err != nil {
				return nil, err
			}

			encoding = Encoding(int8(buf[blocketteOffset+4]))
			wordOrder = buf[blocketteOffset+5]
			recLen = 1 << buf[blocketteOffset+6]
			haveB1000 = true
		case 1001:
			if err := ensure(blocketteOffset + 8); err != nil {
				return nil, err
			}

			usecOffset = int8(buf[blocketteOffset+5])
		}

		blocketteOffset = next
	}

	if !haveB1000 {
		return nil, fmt.Errorf("%w: v2 record without blockette 1000", ErrBadRecord)
	}

	if recLen < 128 || recLen > MaxRecLen {
		return nil, fmt.Errorf("%w: v2 record length %d", ErrBadRecord, recLen)
	}

	if err := ensure(recLen); err != nil {
		return nil, err
	}

	start, err := v2StartTime(buf, order, usecOffset)
	if err != nil {
		return nil, err
	}

	rec := &Record{
		FormatVersion: 2,
		SID:           v2SourceID(buf),
		StartTime:     start,
		Encoding:      encoding,
		SampleRate:    nominalSampleRate(int16(order.Uint16(buf[32:34])), int16(order.Uint16(buf[34:36]))),
		PubVersion:    v2PubVersion(buf[6]),
		Flags:         v2Flags(buf[36], buf[37], buf[38]),
		SampleCount:   int64(order.Uint16(buf[30:32])),
		RecLen:        recLen,
		SwapPayload:   (wordOrder == 1) != bigEndianHost,
	}

	if dataOffset > 0 && dataOffset < recLen && rec.SampleCount > 0 {
		if dataOffset < v2FixedHeaderLen {
			return nil, fmt.Errorf("%w: v2 data offset %d", ErrBadRecord, dataOffset)
		}

		rec.Payload = append([]byte(nil), buf[dataOffset:recLen]...)
	}

	return rec, nil
}

// v2HeaderByteOrder detects the header byte order from year/day sanity.
// Big endian, the SEED standard, is tried first.
func v2HeaderByteOrder(hdr []byte) (binary.ByteOrder, error) {
	if v2ValidYearDay(binary.BigEndian, hdr) {
		return binary.BigEndian, nil
	}

	if v2ValidYearDay(binary.LittleEndian, hdr) {
		return binary.LittleEndian, nil
	}

	return nil, fmt.Errorf("%w: v2 header byte order undeterminable", ErrBadRecord)
}

func v2ValidYearDay(order binary.ByteOrder, hdr []byte) bool {
	year := int(order.Uint16(hdr[20:22]))
	yday := int(order.Uint16(hdr[22:24]))

	return year >= 1900 && year <= 2100 && yday >= 1 && yday <= 366
}

func v2StartTime(hdr []byte, order binary.ByteOrder, usecOffset int8) (time.Time, error) {
	year := int(order.Uint16(hdr[20:22]))
	yday := int(order.Uint16(hdr[22:24]))
	fract := int(order.Uint16(hdr[28:30])) // 0.0001 second units

	start := time.Date(year, time.January, 1,
		int(hdr[24]), int(hdr[25]), int(hdr[26]), fract*100000, time.UTC)
	start = start.AddDate(0, 0, yday-1)

	// Apply the header time correction unless flagged as already applied.
	if hdr[36]&0x02 == 0 {
		correction := int32(order.Uint32(hdr[40:44]))
		start = start.Add(time.Duration(correction) * 100 * time.Microsecond)
	}

	start = start.Add(time.Duration(usecOffset) * time.Microsecond)

	return start, nil
}

// v2SourceID builds the FDSN source identifier from the fixed header's
// network, station, location, and channel fields.
func v2SourceID(hdr []byte) string {
	network := strings.TrimSpace(string(hdr[18:20]))
	station := strings.TrimSpace(string(hdr[8:13]))
	location := strings.TrimSpace(string(hdr[13:15]))
	channel := strings.TrimSpace(string(hdr[15:18]))

	band, source, position := "", "", ""
	if len(channel) == 3 {
		band, source, position = string(channel[0]), string(channel[1]), string(channel[2])
	} else {
		source = channel
	}

	return fmt.Sprintf("FDSN:%s_%s_%s_%s_%s_%s", network, station, location, band, source, position)
}

// v2PubVersion maps the v2 data quality indicator to a publication version.
func v2PubVersion(quality byte) uint8 {
	switch quality {
	case 'R':
		return 1
	case 'D':
		return 2
	case 'Q':
		return 3
	case 'M':
		return 4
	default:
		return 0
	}
}

// v2Flags maps v2 activity/io/quality flag bits onto the v3 flag byte:
// calibration signals present, time tag questionable, clock locked.
func v2Flags(actFlags, ioFlags, dqFlags byte) uint8 {
	var flags uint8

	if actFlags&0x01 != 0 {
		flags |= 0x01
	}

	if dqFlags&0x80 != 0 {
		flags |= 0x02
	}

	if ioFlags&0x20 != 0 {
		flags |= 0x04
	}

	return flags
}

// nominalSampleRate derives the sample rate in Hz from the v2 sample rate
// factor and multiplier.
func nominalSampleRate(factor, multiplier int16) float64 {
	var rate float64

	switch {
	case factor > 0:
		rate = float64(factor)
	case factor < 0:
		rate = -1.0 / float64(factor)
	default:
		return 0
	}

	switch {
	case multiplier > 0:
		rate *= float64(multiplier)
	case multiplier < 0:
		rate /= -float64(multiplier)
	}

	return rate
}

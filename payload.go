package mseed

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

var (
	// ErrUnsupportedEncoding is returned when decoding or encoding a
	// payload format this package has no codec for. Steim compressed
	// payloads are in this set; they can only be carried verbatim.
	ErrUnsupportedEncoding = errors.New("unsupported data encoding")
	// ErrShortPayload is returned when a payload holds fewer bytes than
	// the record's sample count requires.
	ErrShortPayload = errors.New("payload too short for sample count")
	// ErrSampleRange is returned when a sample value does not fit the
	// requested encoding.
	ErrSampleRange = errors.New("sample value exceeds encoding range")
)

// payloadByteOrder returns the byte order of the record's encoded payload.
func payloadByteOrder(rec *Record) binary.ByteOrder {
	if bigEndianHost != rec.SwapPayload {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// DecodePayload decodes the record's raw payload into its sample buffer and
// returns the number of decoded samples. The record's declared sample count
// drives the decode; trailing payload padding is ignored.
func DecodePayload(rec *Record) (int, error) {
	count := int(rec.SampleCount)
	order := payloadByteOrder(rec)

	switch rec.Encoding {
	case EncodingText:
		if len(rec.Payload) < count {
			return 0, fmt.Errorf("%w: text %d of %d bytes", ErrShortPayload, len(rec.Payload), count)
		}

		rec.Samples.SetText(append([]byte(nil), rec.Payload[:count]...))
	case EncodingInt16:
		if len(rec.Payload) < 2*count {
			return 0, fmt.Errorf("%w: int16 %d bytes for %d samples", ErrShortPayload, len(rec.Payload), count)
		}

		out := make([]int32, count)
		for i := range out {
			out[i] = int32(int16(order.Uint16(rec.Payload[2*i:])))
		}

		rec.Samples.SetInt32(out)
	case EncodingInt32:
		if len(rec.Payload) < 4*count {
			return 0, fmt.Errorf("%w: int32 %d bytes for %d samples", ErrShortPayload, len(rec.Payload), count)
		}

		out := make([]int32, count)
		for i := range out {
			out[i] = int32(order.Uint32(rec.Payload[4*i:]))
		}

		rec.Samples.SetInt32(out)
	case EncodingFloat32:
		if len(rec.Payload) < 4*count {
			return 0, fmt.Errorf("%w: float32 %d bytes for %d samples", ErrShortPayload, len(rec.Payload), count)
		}

		out := make([]float32, count)
		for i := range out {
			out[i] = math.Float32frombits(order.Uint32(rec.Payload[4*i:]))
		}

		rec.Samples.SetFloat32(out)
	case EncodingFloat64:
		if len(rec.Payload) < 8*count {
			return 0, fmt.Errorf("%w: float64 %d bytes for %d samples", ErrShortPayload, len(rec.Payload), count)
		}

		out := make([]float64, count)
		for i := range out {
			out[i] = math.Float64frombits(order.Uint64(rec.Payload[8*i:]))
		}

		rec.Samples.SetFloat64(out)
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedEncoding, rec.Encoding)
	}

	return count, nil
}

// encodeSamples encodes the sample range [from, to) into payload bytes for
// the given encoding and byte order. The sample buffer class must already
// match the encoding's required representation.
func encodeSamples(samples *SampleBuffer, enc Encoding, order binary.ByteOrder, from, to int) ([]byte, error) {
	switch enc {
	case EncodingText:
		data := samples.Text()
		if data == nil {
			return nil, &SampleTypeError{From: samples.Class(), To: SampleText}
		}

		return append([]byte(nil), data[from:to]...), nil
	case EncodingInt16:
		data := samples.Int32()
		if data == nil {
			return nil, &SampleTypeError{From: samples.Class(), To: SampleInt32}
		}

		out := make([]byte, 2*(to-from))
		for i, v := range data[from:to] {
			if v > math.MaxInt16 || v < math.MinInt16 {
				return nil, fmt.Errorf("%w: sample %d value %d for int16", ErrSampleRange, from+i, v)
			}

			order.PutUint16(out[2*i:], uint16(int16(v)))
		}

		return out, nil
	case EncodingInt32:
		data := samples.Int32()
		if data == nil {
			return nil, &SampleTypeError{From: samples.Class(), To: SampleInt32}
		}

		out := make([]byte, 4*(to-from))
		for i, v := range data[from:to] {
			order.PutUint32(out[4*i:], uint32(v))
		}

		return out, nil
	case EncodingFloat32:
		data := samples.Float32()
		if data == nil {
			return nil, &SampleTypeError{From: samples.Class(), To: SampleFloat32}
		}

		out := make([]byte, 4*(to-from))
		for i, v := range data[from:to] {
			order.PutUint32(out[4*i:], math.Float32bits(v))
		}

		return out, nil
	case EncodingFloat64:
		data := samples.Float64()
		if data == nil {
			return nil, &SampleTypeError{From: samples.Class(), To: SampleFloat64}
		}

		out := make([]byte, 8*(to-from))
		for i, v := range data[from:to] {
			order.PutUint64(out[8*i:], math.Float64bits(v))
		}

		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedEncoding, enc)
	}
}

// sampleBytes returns the encoded size of one sample for the encoding, or 0
// when the encoding has no fixed sample size.
func sampleBytes(enc Encoding) int {
	switch enc {
	case EncodingText:
		return 1
	case EncodingInt16:
		return 2
	case EncodingInt32, EncodingFloat32:
		return 4
	case EncodingFloat64:
		return 8
	default:
		return 0
	}
}

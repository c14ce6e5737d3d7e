package mseed

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

func TestDecodePayloadInt32BothOrders(t *testing.T) {
	values := []int32{-100000, -1, 0, 1, 100000}

	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		rec := &Record{
			Encoding:    EncodingInt32,
			SampleCount: int64(len(values)),
			Payload:     int32Payload(values, order),
			SwapPayload: (order == binary.BigEndian) != bigEndianHost,
		}

		n, err := DecodePayload(rec)
		if err != nil {
			t.Fatalf("DecodePayload %v: %v", order, err)
		}

		if n != len(values) {
			t.Fatalf("decoded %d samples, want %d", n, len(values))
		}

		for i, v := range rec.Samples.Int32() {
			if v != values[i] {
				t.Fatalf("%v sample %d: got %d, want %d", order, i, v, values[i])
			}
		}
	}
}

func TestDecodePayloadInt16(t *testing.T) {
	values := []int16{-300, 0, 250}

	payload := make([]byte, 2*len(values))
	for i, v := range values {
		binary.BigEndian.PutUint16(payload[2*i:], uint16(v))
	}

	rec := &Record{
		Encoding:    EncodingInt16,
		SampleCount: 3,
		Payload:     payload,
		SwapPayload: !bigEndianHost,
	}

	if _, err := DecodePayload(rec); err != nil {
		t.Fatalf("DecodePayload: %v", err)
	}

	want := []int32{-300, 0, 250}
	for i, v := range rec.Samples.Int32() {
		if v != want[i] {
			t.Fatalf("sample %d: got %d, want %d", i, v, want[i])
		}
	}
}

func TestDecodePayloadFloats(t *testing.T) {
	f32 := []float32{-1.5, 0, 3.25}

	payload := make([]byte, 12)
	for i, v := range f32 {
		binary.LittleEndian.PutUint32(payload[4*i:], math.Float32bits(v))
	}

	rec := &Record{
		Encoding:    EncodingFloat32,
		SampleCount: 3,
		Payload:     payload,
		SwapPayload: bigEndianHost,
	}

	if _, err := DecodePayload(rec); err != nil {
		t.Fatalf("DecodePayload float32: %v", err)
	}

	for i, v := range rec.Samples.Float32() {
		if v != f32[i] {
			t.Fatalf("float32 sample %d: got %g, want %g", i, v, f32[i])
		}
	}

	f64 := []float64{-1.0000001, 12345.6789}

	rec = &Record{
		Encoding:    EncodingFloat64,
		SampleCount: 2,
		Payload:     float64Payload(f64, binary.LittleEndian),
		SwapPayload: bigEndianHost,
	}

	if _, err := DecodePayload(rec); err != nil {
		t.Fatalf("DecodePayload float64: %v", err)
	}

	for i, v := range rec.Samples.Float64() {
		if v != f64[i] {
			t.Fatalf("float64 sample %d: got %g, want %g", i, v, f64[i])
		}
	}
}

func TestDecodePayloadText(t *testing.T) {
	rec := &Record{
		Encoding:    EncodingText,
		SampleCount: 5,
		Payload:     []byte("hello\x00\x00\x00"), // padded
	}

	if _, err := DecodePayload(rec); err != nil {
		t.Fatalf("DecodePayload text: %v", err)
	}

	if got := string(rec.Samples.Text()); got != "hello" {
		t.Fatalf("text samples %q, want %q", got, "hello")
	}
}

func TestDecodePayloadIgnoresPadding(t *testing.T) {
	values := []int32{7, 8}

	payload := append(int32Payload(values, hostOrder()), make([]byte, 24)...)

	rec := &Record{
		Encoding:    EncodingInt32,
		SampleCount: 2,
		Payload:     payload,
	}

	n, err := DecodePayload(rec)
	if err != nil {
		t.Fatalf("DecodePayload: %v", err)
	}

	if n != 2 || rec.Samples.Len() != 2 {
		t.Fatalf("decoded %d samples (buffer %d), want 2", n, rec.Samples.Len())
	}
}

func TestDecodePayloadShort(t *testing.T) {
	rec := &Record{
		Encoding:    EncodingInt32,
		SampleCount: 4,
		Payload:     make([]byte, 8),
	}

	if _, err := DecodePayload(rec); !errors.Is(err, ErrShortPayload) {
		t.Fatalf("DecodePayload err=%v, want ErrShortPayload", err)
	}
}

func TestDecodePayloadUnsupported(t *testing.T) {
	for _, enc := range []Encoding{EncodingSteim1, EncodingSteim2, Encoding(16), Encoding(30)} {
		rec := &Record{Encoding: enc, SampleCount: 1, Payload: make([]byte, 64)}

		if _, err := DecodePayload(rec); !errors.Is(err, ErrUnsupportedEncoding) {
			t.Fatalf("DecodePayload(%v) err=%v, want ErrUnsupportedEncoding", enc, err)
		}
	}
}

func TestEncodeSamplesRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		encoding Encoding
		fill     func(*SampleBuffer)
	}{
		{"int16", EncodingInt16, func(b *SampleBuffer) { b.SetInt32([]int32{-32768, -1, 0, 32767}) }},
		{"int32", EncodingInt32, func(b *SampleBuffer) { b.SetInt32([]int32{-1 << 30, 0, 1 << 30}) }},
		{"float32", EncodingFloat32, func(b *SampleBuffer) { b.SetFloat32([]float32{-0.5, 1e20}) }},
		{"float64", EncodingFloat64, func(b *SampleBuffer) { b.SetFloat64([]float64{-0.5, 1e200}) }},
		{"text", EncodingText, func(b *SampleBuffer) { b.SetText([]byte("station log")) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf SampleBuffer
			tt.fill(&buf)

			count := buf.Len()

			payload, err := encodeSamples(&buf, tt.encoding, hostOrder(), 0, count)
			if err != nil {
				t.Fatalf("encodeSamples: %v", err)
			}

			if len(payload) != count*sampleBytes(tt.encoding) {
				t.Fatalf("payload %d bytes, want %d", len(payload), count*sampleBytes(tt.encoding))
			}

			rec := &Record{
				Encoding:    tt.encoding,
				SampleCount: int64(count),
				Payload:     payload,
			}

			if _, err := DecodePayload(rec); err != nil {
				t.Fatalf("DecodePayload: %v", err)
			}

			if rec.Samples.Len() != count {
				t.Fatalf("round trip returned %d samples, want %d", rec.Samples.Len(), count)
			}
		})
	}
}

func TestEncodeSamplesInt16Range(t *testing.T) {
	var buf SampleBuffer
	buf.SetInt32([]int32{1, 40000})

	if _, err := encodeSamples(&buf, EncodingInt16, binary.LittleEndian, 0, 2); !errors.Is(err, ErrSampleRange) {
		t.Fatalf("encodeSamples err=%v, want ErrSampleRange", err)
	}
}

func TestEncodeSamplesClassMismatch(t *testing.T) {
	var buf SampleBuffer
	buf.SetFloat64([]float64{1})

	if _, err := encodeSamples(&buf, EncodingInt32, binary.LittleEndian, 0, 1); !errors.Is(err, ErrIncompatibleSamples) {
		t.Fatalf("encodeSamples err=%v, want ErrIncompatibleSamples", err)
	}
}

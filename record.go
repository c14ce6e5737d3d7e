package mseed

import (
	"time"
)

// MaxRecLen is the maximum supported miniSEED 3 record length in bytes and
// the default record length ceiling when packing version 3.
const MaxRecLen = 10485760

// MaxExtraLength is the maximum serialized size of the extra header JSON.
// The miniSEED 3 header stores the length in an unsigned 16-bit field.
const MaxExtraLength = 65535

// SampleType identifies the in-memory representation of decoded samples.
type SampleType byte

const (
	// SampleUnknown marks a record without decoded samples.
	SampleUnknown SampleType = 0
	// SampleText marks UTF-8/ASCII text payloads, one byte per sample.
	SampleText SampleType = 't'
	// SampleInt32 marks 32-bit signed integer samples.
	SampleInt32 SampleType = 'i'
	// SampleFloat32 marks 32-bit IEEE float samples.
	SampleFloat32 SampleType = 'f'
	// SampleFloat64 marks 64-bit IEEE float samples.
	SampleFloat64 SampleType = 'd'
)

// String implements the Stringer interface.
func (t SampleType) String() string {
	switch t {
	case SampleText:
		return "text"
	case SampleInt32:
		return "int32"
	case SampleFloat32:
		return "float32"
	case SampleFloat64:
		return "float64"
	default:
		return "unknown"
	}
}

// Size returns the element size in bytes of one sample, or 0 when unknown.
func (t SampleType) Size() int {
	switch t {
	case SampleText:
		return 1
	case SampleInt32, SampleFloat32:
		return 4
	case SampleFloat64:
		return 8
	default:
		return 0
	}
}

// SampleBuffer owns the decoded samples of one record. Exactly one typed
// slice is populated at a time; replacing the representation releases the
// previous slice so two typed views never coexist.
type SampleBuffer struct {
	class SampleType
	text  []byte
	ints  []int32
	f32   []float32
	f64   []float64
}

// Class returns the current sample representation.
func (b *SampleBuffer) Class() SampleType {
	if b == nil {
		return SampleUnknown
	}

	return b.class
}

// Len returns the number of samples held.
func (b *SampleBuffer) Len() int {
	if b == nil {
		return 0
	}

	switch b.class {
	case SampleText:
		return len(b.text)
	case SampleInt32:
		return len(b.ints)
	case SampleFloat32:
		return len(b.f32)
	case SampleFloat64:
		return len(b.f64)
	default:
		return 0
	}
}

// Text returns the text samples, or nil if the buffer holds another class.
func (b *SampleBuffer) Text() []byte {
	if b == nil || b.class != SampleText {
		return nil
	}

	return b.text
}

// Int32 returns the int32 samples, or nil if the buffer holds another class.
func (b *SampleBuffer) Int32() []int32 {
	if b == nil || b.class != SampleInt32 {
		return nil
	}

	return b.ints
}

// Float32 returns the float32 samples, or nil for another class.
func (b *SampleBuffer) Float32() []float32 {
	if b == nil || b.class != SampleFloat32 {
		return nil
	}

	return b.f32
}

// Float64 returns the float64 samples, or nil for another class.
func (b *SampleBuffer) Float64() []float64 {
	if b == nil || b.class != SampleFloat64 {
		return nil
	}

	return b.f64
}

// SetText replaces the buffer content with text samples.
func (b *SampleBuffer) SetText(data []byte) {
	b.release()
	b.class = SampleText
	b.text = data
}

// SetInt32 replaces the buffer content with int32 samples.
func (b *SampleBuffer) SetInt32(data []int32) {
	b.release()
	b.class = SampleInt32
	b.ints = data
}

// SetFloat32 replaces the buffer content with float32 samples.
func (b *SampleBuffer) SetFloat32(data []float32) {
	b.release()
	b.class = SampleFloat32
	b.f32 = data
}

// SetFloat64 replaces the buffer content with float64 samples.
func (b *SampleBuffer) SetFloat64(data []float64) {
	b.release()
	b.class = SampleFloat64
	b.f64 = data
}

// Release drops all samples and resets the class.
func (b *SampleBuffer) Release() {
	if b == nil {
		return
	}

	b.release()
	b.class = SampleUnknown
}

func (b *SampleBuffer) release() {
	b.text = nil
	b.ints = nil
	b.f32 = nil
	b.f64 = nil
}

// Record is one parsed miniSEED record.
type Record struct {
	// FormatVersion is the container version the record was read from, 2 or 3.
	FormatVersion uint8
	// SID is the FDSN source identifier ("FDSN:NET_STA_LOC_B_S_P").
	SID string
	// StartTime is the time of the first sample.
	StartTime time.Time
	// Encoding identifies the payload encoding.
	Encoding Encoding
	// SampleRate is the nominal sample rate in Hz, negative for period.
	SampleRate float64
	// PubVersion is the publication/data quality version.
	PubVersion uint8
	// Flags carries the version 3 flag bits.
	Flags uint8

	// SampleCount is the sample count declared by the record framing.
	SampleCount int64
	// RecLen is the total record length in bytes as read.
	RecLen int

	// Payload holds the raw encoded payload bytes, byte order as on disk.
	Payload []byte
	// SwapPayload reports whether the payload byte order differs from the
	// host byte order.
	SwapPayload bool

	// ExtraHeaders is the extra header JSON object, nil when absent.
	ExtraHeaders []byte

	// Samples holds decoded samples after DecodePayload.
	Samples SampleBuffer
}

// NumSamples returns the count of decoded samples.
func (r *Record) NumSamples() int {
	if r == nil {
		return 0
	}

	return r.Samples.Len()
}

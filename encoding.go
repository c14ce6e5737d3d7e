package mseed

import "fmt"

// Encoding identifies a miniSEED data payload encoding.
type Encoding int8

const (
	// EncodingUnspecified requests that the current encoding be preserved.
	EncodingUnspecified Encoding = -1
	// EncodingText is UTF-8/ASCII text (format 0).
	EncodingText Encoding = 0
	// EncodingInt16 is 16-bit two's complement integers (format 1).
	EncodingInt16 Encoding = 1
	// EncodingInt32 is 32-bit two's complement integers (format 3).
	EncodingInt32 Encoding = 3
	// EncodingFloat32 is IEEE single precision floats (format 4).
	EncodingFloat32 Encoding = 4
	// EncodingFloat64 is IEEE double precision floats (format 5).
	EncodingFloat64 Encoding = 5
	// EncodingSteim1 is Steim-1 compressed integers (format 10).
	EncodingSteim1 Encoding = 10
	// EncodingSteim2 is Steim-2 compressed integers (format 11).
	EncodingSteim2 Encoding = 11
)

// String implements the Stringer interface.
func (e Encoding) String() string {
	switch e {
	case EncodingUnspecified:
		return "unspecified"
	case EncodingText:
		return "text"
	case EncodingInt16:
		return "int16"
	case EncodingInt32:
		return "int32"
	case EncodingFloat32:
		return "float32"
	case EncodingFloat64:
		return "float64"
	case EncodingSteim1:
		return "Steim-1"
	case EncodingSteim2:
		return "Steim-2"
	default:
		if name, ok := RetiredEncodings[e]; ok {
			return name
		}

		return fmt.Sprintf("encoding %d", int8(e))
	}
}

// RetiredEncodings maps encodings that must never be produced as output to
// their historical names. Records using them are still accepted on input.
var RetiredEncodings = map[Encoding]string{
	2:  "24-bit integers",
	12: "GEOSCOPE multiplexed 24-bit integer",
	13: "GEOSCOPE multiplexed 16-bit gain ranged, 3-bit exponent",
	14: "GEOSCOPE multiplexed 16-bit gain ranged, 4-bit exponent",
	15: "US National Network compression",
	16: "CDSN 16-bit gain ranged",
	17: "Graefenberg 16-bit gain ranged",
	18: "IPG-Strasbourg 16-bit gain ranged",
	30: "SRO format",
	31: "HGLP format",
	32: "DWWSSN gain ranged",
	33: "RSTN 16-bit gain ranged",
}

// Retired reports whether the encoding is no longer permitted for packing.
func (e Encoding) Retired() bool {
	_, ok := RetiredEncodings[e]

	return ok
}

// RequiredSampleType returns the sample representation a target encoding
// needs. EncodingUnspecified and unknown encodings preserve the current
// representation.
func RequiredSampleType(target Encoding, current SampleType) SampleType {
	switch target {
	case EncodingText:
		return SampleText
	case EncodingInt16, EncodingInt32, EncodingSteim1, EncodingSteim2:
		return SampleInt32
	case EncodingFloat32:
		return SampleFloat32
	case EncodingFloat64:
		return SampleFloat64
	default:
		return current
	}
}

package mseed

import "encoding/binary"

// bigEndianHost reports the byte order this process runs with.
var bigEndianHost = binary.NativeEndian.Uint16([]byte{0x12, 0x34}) == 0x1234

// VerbatimEligible decides whether a record's encoded payload can be copied
// into miniSEED 3 framing without decoding. Eligibility requires that no
// full repack was forced, the target version is 3, and the requested
// encoding is unspecified or already in effect. Zero-sample records are then
// always eligible; otherwise the payload byte order must match what
// miniSEED 3 mandates for the encoding: big endian for Steim compressed
// payloads, little endian for integer and float payloads. Text payloads
// have no byte order.
func VerbatimEligible(rec *Record, opts Options) bool {
	return verbatimEligible(rec, opts, bigEndianHost)
}

// verbatimEligible takes the host byte order as a parameter so every
// host/payload order combination is testable on any machine.
func verbatimEligible(rec *Record, opts Options, hostBigEndian bool) bool {
	if opts.ForceRepack || opts.Version != 3 {
		return false
	}

	if opts.Encoding != EncodingUnspecified && opts.Encoding != rec.Encoding {
		return false
	}

	if rec.SampleCount == 0 {
		return true
	}

	// SwapPayload is relative to the host, so the on-disk order is the
	// host order flipped when swapping was flagged.
	payloadBigEndian := hostBigEndian != rec.SwapPayload

	switch rec.Encoding {
	case EncodingSteim1, EncodingSteim2:
		return payloadBigEndian
	case EncodingInt16, EncodingInt32, EncodingFloat32, EncodingFloat64:
		return !payloadBigEndian
	case EncodingText:
		return true
	default:
		return false
	}
}

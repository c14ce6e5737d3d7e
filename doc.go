// Package mseed provides miniSEED record reading, conversion, and version 3
// writing utilities for Go.
//
// The package parses miniSEED 2.x (fixed-length records with blockettes) and
// miniSEED 3 records from a stream, and packs records into miniSEED 3. Sample
// payloads in text, 16/32-bit integer, and 32/64-bit IEEE float encodings can
// be decoded, numerically converted between representations, and re-encoded.
// Steim compressed payloads are carried opaquely: they can be re-framed into
// miniSEED 3 verbatim but not decoded.
//
// The Converter orchestrates per-record conversion:
//
//   - verbatim repack of the encoded payload when the target framing and
//     payload byte order allow it
//   - full decode, sample conversion, and re-encode otherwise
//   - RFC 7386 merge-patch edits of the extra header JSON on either path
//
// A failing record stops the conversion; output written for earlier records
// is left as-is.
package mseed

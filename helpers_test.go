package mseed

import (
	"encoding/binary"
	"math"
)

// v2RecordSpec describes a synthetic miniSEED 2 record for tests.
type v2RecordSpec struct {
	sequence   string
	quality    byte
	network    string
	station    string
	location   string
	channel    string
	year       int
	yday       int
	hour       int
	minute     int
	second     int
	fract      uint16
	numSamples uint16
	factor     int16
	multiplier int16
	encoding   Encoding
	wordOrder  byte // payload byte order: 0 little endian, 1 big endian
	recLenExp  byte
	bigEndian  bool // header byte order
	usec       int8
	withB1001  bool
	payload    []byte
}

func defaultV2Spec() v2RecordSpec {
	return v2RecordSpec{
		sequence:   "000001",
		quality:    'D',
		network:    "XX",
		station:    "TEST",
		location:   "",
		channel:    "BHZ",
		year:       2020,
		yday:       100,
		hour:       10,
		minute:     20,
		second:     30,
		factor:     40,
		multiplier: 1,
		encoding:   EncodingInt32,
		recLenExp:  9, // 512 bytes
		bigEndian:  true,
	}
}

// buildV2Record serializes the spec into one fixed-length v2 record.
func buildV2Record(spec v2RecordSpec) []byte {
	recLen := 1 << spec.recLenExp
	buf := make([]byte, recLen)

	var order binary.ByteOrder = binary.LittleEndian
	if spec.bigEndian {
		order = binary.BigEndian
	}

	copy(buf[0:6], padded(spec.sequence, 6))
	buf[6] = spec.quality
	buf[7] = ' '
	copy(buf[8:13], padded(spec.station, 5))
	copy(buf[13:15], padded(spec.location, 2))
	copy(buf[15:18], padded(spec.channel, 3))
	copy(buf[18:20], padded(spec.network, 2))

	order.PutUint16(buf[20:22], uint16(spec.year))
	order.PutUint16(buf[22:24], uint16(spec.yday))
	buf[24] = byte(spec.hour)
	buf[25] = byte(spec.minute)
	buf[26] = byte(spec.second)
	order.PutUint16(buf[28:30], spec.fract)

	order.PutUint16(buf[30:32], spec.numSamples)
	order.PutUint16(buf[32:34], uint16(spec.factor))
	order.PutUint16(buf[34:36], uint16(spec.multiplier))

	numBlockettes := byte(1)
	if spec.withB1001 {
		numBlockettes = 2
	}

	buf[39] = numBlockettes

	dataOffset := 64
	if len(spec.payload) == 0 {
		dataOffset = 0
	}

	order.PutUint16(buf[44:46], uint16(dataOffset))
	order.PutUint16(buf[46:48], 48)

	// blockette 1000
	next := 0
	if spec.withB1001 {
		next = 56
	}

	order.PutUint16(buf[48:50], 1000)
	order.PutUint16(buf[50:52], uint16(next))
	buf[52] = byte(spec.encoding)
	buf[53] = spec.wordOrder
	buf[54] = spec.recLenExp

	if spec.withB1001 {
		order.PutUint16(buf[56:58], 1001)
		order.PutUint16(buf[58:60], 0)
		buf[60] = 100 // timing quality
		buf[61] = byte(spec.usec)
	}

	copy(buf[64:], spec.payload)

	return buf
}

func padded(s string, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = ' '
	}

	copy(out, s)

	return out
}

// float64Payload encodes values as a float64 payload in the given order.
func float64Payload(values []float64, order binary.ByteOrder) []byte {
	out := make([]byte, 8*len(values))
	for i, v := range values {
		order.PutUint64(out[8*i:], math.Float64bits(v))
	}

	return out
}

// int32Payload encodes values as an int32 payload in the given order.
func int32Payload(values []int32, order binary.ByteOrder) []byte {
	out := make([]byte, 4*len(values))
	for i, v := range values {
		order.PutUint32(out[4*i:], uint32(v))
	}

	return out
}

// hostOrder returns the byte order matching the running host.
func hostOrder() binary.ByteOrder {
	if bigEndianHost {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// wordOrderFor returns the blockette 1000 word order byte for an order.
func wordOrderFor(order binary.ByteOrder) byte {
	if order == binary.BigEndian {
		return 1
	}

	return 0
}

package mseed

import "testing"

func shortcutOpts() Options {
	return Options{Version: 3, Encoding: EncodingUnspecified, RecLen: MaxRecLen}
}

// The byte-order compatibility matrix must hold for every combination of
// host order and payload order; an inverted entry either forces spurious
// full decodes or silently emits the wrong byte order.
func TestVerbatimEligibleByteOrderMatrix(t *testing.T) {
	tests := []struct {
		name     string
		encoding Encoding
		// eligibility for payload byte order big endian / little endian
		bigEndianPayload    bool
		littleEndianPayload bool
	}{
		{"steim1", EncodingSteim1, true, false},
		{"steim2", EncodingSteim2, true, false},
		{"int16", EncodingInt16, false, true},
		{"int32", EncodingInt32, false, true},
		{"float32", EncodingFloat32, false, true},
		{"float64", EncodingFloat64, false, true},
		{"text", EncodingText, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, hostBig := range []bool{false, true} {
				for _, payloadBig := range []bool{false, true} {
					rec := &Record{
						FormatVersion: 2,
						Encoding:      tt.encoding,
						SampleCount:   100,
						SwapPayload:   hostBig != payloadBig,
					}

					want := tt.littleEndianPayload
					if payloadBig {
						want = tt.bigEndianPayload
					}

					got := verbatimEligible(rec, shortcutOpts(), hostBig)
					if got != want {
						t.Errorf("host big=%v payload big=%v: eligible=%v, want %v",
							hostBig, payloadBig, got, want)
					}
				}
			}
		})
	}
}

func TestVerbatimEligibleGates(t *testing.T) {
	base := func() *Record {
		return &Record{
			FormatVersion: 2,
			Encoding:      EncodingSteim2,
			SampleCount:   100,
			SwapPayload:   !bigEndianHost, // big-endian payload on any host
		}
	}

	tests := []struct {
		name string
		rec  func() *Record
		opts func() Options
		want bool
	}{
		{"baseline eligible", base, shortcutOpts, true},
		{
			"force repack",
			base,
			func() Options { o := shortcutOpts(); o.ForceRepack = true; return o },
			false,
		},
		{
			"non-3 target version",
			base,
			func() Options { o := shortcutOpts(); o.Version = 2; return o },
			false,
		},
		{
			"encoding change requested",
			base,
			func() Options { o := shortcutOpts(); o.Encoding = EncodingInt32; return o },
			false,
		},
		{
			"matching encoding requested",
			base,
			func() Options { o := shortcutOpts(); o.Encoding = EncodingSteim2; return o },
			true,
		},
		{
			"zero samples bypass byte order",
			func() *Record {
				rec := base()
				rec.SampleCount = 0
				rec.SwapPayload = bigEndianHost // little-endian payload, wrong for Steim

				return rec
			},
			shortcutOpts,
			true,
		},
		{
			"zero samples still gated by force",
			func() *Record {
				rec := base()
				rec.SampleCount = 0

				return rec
			},
			func() Options { o := shortcutOpts(); o.ForceRepack = true; return o },
			false,
		},
		{
			"unknown encoding never eligible",
			func() *Record {
				rec := base()
				rec.Encoding = Encoding(16)

				return rec
			},
			shortcutOpts,
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := tt.rec()

			if got := VerbatimEligible(rec, tt.opts()); got != tt.want {
				t.Fatalf("VerbatimEligible=%v, want %v", got, tt.want)
			}
		})
	}
}

package mseed

import "testing"

func TestRequiredSampleType(t *testing.T) {
	tests := []struct {
		name    string
		target  Encoding
		current SampleType
		want    SampleType
	}{
		{"text", EncodingText, SampleInt32, SampleText},
		{"int16", EncodingInt16, SampleFloat64, SampleInt32},
		{"int32", EncodingInt32, SampleFloat64, SampleInt32},
		{"steim1", EncodingSteim1, SampleFloat32, SampleInt32},
		{"steim2", EncodingSteim2, SampleFloat32, SampleInt32},
		{"float32", EncodingFloat32, SampleInt32, SampleFloat32},
		{"float64", EncodingFloat64, SampleInt32, SampleFloat64},
		{"unspecified preserves", EncodingUnspecified, SampleFloat32, SampleFloat32},
		{"unknown preserves", Encoding(16), SampleInt32, SampleInt32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RequiredSampleType(tt.target, tt.current)
			if got != tt.want {
				t.Fatalf("RequiredSampleType(%v, %v)=%v, want %v", tt.target, tt.current, got, tt.want)
			}
		})
	}
}

func TestRetiredEncodings(t *testing.T) {
	retired := []Encoding{2, 12, 13, 14, 15, 16, 17, 18, 30, 31, 32, 33}
	for _, e := range retired {
		if !e.Retired() {
			t.Errorf("Encoding(%d).Retired()=false, want true", e)
		}
	}

	supported := []Encoding{0, 1, 3, 4, 5, 10, 11}
	for _, e := range supported {
		if e.Retired() {
			t.Errorf("Encoding(%d).Retired()=true, want false", e)
		}
	}
}

func TestEncodingString(t *testing.T) {
	tests := []struct {
		encoding Encoding
		want     string
	}{
		{EncodingUnspecified, "unspecified"},
		{EncodingText, "text"},
		{EncodingSteim2, "Steim-2"},
		{Encoding(30), "SRO format"},
		{Encoding(99), "encoding 99"},
	}

	for _, tt := range tests {
		if got := tt.encoding.String(); got != tt.want {
			t.Errorf("Encoding(%d).String()=%q, want %q", tt.encoding, got, tt.want)
		}
	}
}

func TestSampleTypeSize(t *testing.T) {
	tests := []struct {
		class SampleType
		want  int
	}{
		{SampleText, 1},
		{SampleInt32, 4},
		{SampleFloat32, 4},
		{SampleFloat64, 8},
		{SampleUnknown, 0},
	}

	for _, tt := range tests {
		if got := tt.class.Size(); got != tt.want {
			t.Errorf("SampleType(%v).Size()=%d, want %d", tt.class, got, tt.want)
		}
	}
}

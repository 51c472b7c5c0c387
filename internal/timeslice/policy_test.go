package timeslice_test

import (
	"testing"

	"chronophoto/internal/raster"
	"chronophoto/internal/timeslice"
)

func TestParseSliceLength(t *testing.T) {
	layout := raster.NewLayout(100, 60, 4)

	cases := []struct {
		in        string
		wantBytes int
		wantCount int
	}{
		// One row is width*channels bytes.
		{"rows/1", 400, 60},
		{"rows/8", 3200, 8},
		{"pixels/250", 1000, 24},
		// count divides the full frame, rounded up.
		{"count/7", 3429, 7},
	}
	for _, tc := range cases {
		policy, err := timeslice.ParseSliceLength(tc.in)
		if err != nil {
			t.Fatalf("ParseSliceLength(%q): %v", tc.in, err)
		}
		if got := policy.Bytes(layout); got != tc.wantBytes {
			t.Fatalf("%q: Bytes = %d, want %d", tc.in, got, tc.wantBytes)
		}
		if got := policy.Count(layout); got != tc.wantCount {
			t.Fatalf("%q: Count = %d, want %d", tc.in, got, tc.wantCount)
		}
		if got := policy.String(); got != tc.in {
			t.Fatalf("String = %q, want %q", got, tc.in)
		}
	}
}

func TestParseSliceLengthErrors(t *testing.T) {
	for _, s := range []string{"", "rows", "rows/0", "rows/-2", "cols/3", "rows/x"} {
		if _, err := timeslice.ParseSliceLength(s); err == nil {
			t.Fatalf("ParseSliceLength(%q): expected error", s)
		}
	}
}

func TestParseCompression(t *testing.T) {
	c, err := timeslice.ParseCompression("zlib/9")
	if err != nil {
		t.Fatalf("ParseCompression: %v", err)
	}
	if c.Scheme != timeslice.SchemeZlib || c.Level != 9 {
		t.Fatalf("got %+v", c)
	}

	c, err = timeslice.ParseCompression("gzip")
	if err != nil {
		t.Fatalf("ParseCompression: %v", err)
	}
	if c.Level != timeslice.DefaultLevel {
		t.Fatalf("default level = %d, want %d", c.Level, timeslice.DefaultLevel)
	}

	for _, s := range []string{"", "lz4", "gzip/0", "gzip/10", "gzip/x"} {
		if _, err := timeslice.ParseCompression(s); err == nil {
			t.Fatalf("ParseCompression(%q): expected error", s)
		}
	}
}

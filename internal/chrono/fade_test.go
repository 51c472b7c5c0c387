package chrono_test

import (
	"testing"

	"chronophoto/internal/chrono"
)

func TestFadeClampEdges(t *testing.T) {
	fade, err := chrono.ParseFade("clamp/abs/0:0/10:1")
	if err != nil {
		t.Fatalf("ParseFade: %v", err)
	}
	if !fade.Absolute() {
		t.Fatal("expected absolute indexing")
	}
	cases := []struct {
		frame int
		want  float32
	}{
		{-5, 0},
		{0, 0},
		{5, 0.5},
		{10, 1},
		{15, 1},
	}
	for _, tc := range cases {
		if got := fade.Value(tc.frame); !close32(got, tc.want) {
			t.Fatalf("Value(%d) = %v, want %v", tc.frame, got, tc.want)
		}
	}
}

func TestFadeRepeatWraps(t *testing.T) {
	fade, err := chrono.ParseFade("repeat/rel/0:0/10:1")
	if err != nil {
		t.Fatalf("ParseFade: %v", err)
	}
	// The wrap period is span+1, so frame -1 lands on the last keyframe.
	if got, want := fade.Value(-1), fade.Value(10); got != want {
		t.Fatalf("Value(-1) = %v, want Value(10) = %v", got, want)
	}
	if got, want := fade.Value(11), fade.Value(0); got != want {
		t.Fatalf("Value(11) = %v, want Value(0) = %v", got, want)
	}
	if got, want := fade.Value(14), fade.Value(3); got != want {
		t.Fatalf("Value(14) = %v, want Value(3) = %v", got, want)
	}
}

func TestFadeInterpolatesBetweenInnerKeys(t *testing.T) {
	fade, err := chrono.NewFade(chrono.FadeClamp, false, []chrono.FadeKey{
		{Frame: 0, Value: 1},
		{Frame: 4, Value: 0.5},
		{Frame: 8, Value: 0},
	})
	if err != nil {
		t.Fatalf("NewFade: %v", err)
	}
	if got := fade.Value(2); !close32(got, 0.75) {
		t.Fatalf("Value(2) = %v, want 0.75", got)
	}
	if got := fade.Value(6); !close32(got, 0.25) {
		t.Fatalf("Value(6) = %v, want 0.25", got)
	}
}

func TestFadeRejectsBadCurves(t *testing.T) {
	if _, err := chrono.NewFade(chrono.FadeClamp, true, []chrono.FadeKey{{Frame: 0, Value: 1}}); err == nil {
		t.Fatal("expected error for single keyframe")
	}
	if _, err := chrono.NewFade(chrono.FadeClamp, true, []chrono.FadeKey{
		{Frame: 3, Value: 1}, {Frame: 3, Value: 0},
	}); err == nil {
		t.Fatal("expected error for duplicate keyframe")
	}
	for _, s := range []string{"", "clamp/abs", "bounce/abs/0:0/1:1", "clamp/abs/0:0/x:1"} {
		if _, err := chrono.ParseFade(s); err == nil {
			t.Fatalf("ParseFade(%q): expected error", s)
		}
	}
}

func TestNoFadeIsIdentity(t *testing.T) {
	fade := chrono.NoFade()
	if fade.Defined() {
		t.Fatal("NoFade should be undefined")
	}
	if got := fade.Value(123); got != 1 {
		t.Fatalf("Value = %v, want 1", got)
	}
}

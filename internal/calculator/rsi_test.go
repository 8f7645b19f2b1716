package calculator

import (
	"errors"
	"math"
	"testing"
)

func ramp(start, step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

func TestCalculateRSI_InsufficientData(t *testing.T) {
	for _, mode := range []Mode{ModeWilder, ModeSimple} {
		for n := 0; n <= DefaultRSIPeriod; n++ {
			_, err := CalculateRSI(ramp(100, 1, n), DefaultRSIPeriod, mode)
			if !errors.Is(err, ErrInsufficientData) {
				t.Errorf("%s with %d closes: expected ErrInsufficientData, got %v", mode, n, err)
			}
		}
		if _, err := CalculateRSI(ramp(100, 1, DefaultRSIPeriod+1), DefaultRSIPeriod, mode); err != nil {
			t.Errorf("%s with period+1 closes: unexpected error %v", mode, err)
		}
	}
}

func TestCalculateRSI_Monotonic(t *testing.T) {
	for _, mode := range []Mode{ModeWilder, ModeSimple} {
		up, err := CalculateRSI(ramp(100, 0.5, 250), DefaultRSIPeriod, mode)
		if err != nil {
			t.Fatalf("%s rising: %v", mode, err)
		}
		if up != 100 {
			t.Errorf("%s rising: expected 100, got %.4f", mode, up)
		}

		down, err := CalculateRSI(ramp(200, -0.5, 250), DefaultRSIPeriod, mode)
		if err != nil {
			t.Fatalf("%s falling: %v", mode, err)
		}
		if down != 0 {
			t.Errorf("%s falling: expected 0, got %.4f", mode, down)
		}
	}
}

func TestCalculateRSI_WilderHandComputed(t *testing.T) {
	// period 2 => alpha 0.5
	// gains  1, 0, 1   -> 1, 0.5, 0.75
	// losses 0, .5, 0  -> 0, 0.25, 0.125
	// RS = 6 -> RSI = 100 - 100/7
	rsi, err := CalculateRSI([]float64{10, 11, 10.5, 11.5}, 2, ModeWilder)
	if err != nil {
		t.Fatal(err)
	}
	want := 100 - 100.0/7
	if math.Abs(rsi-want) > 1e-9 {
		t.Errorf("expected %.6f, got %.6f", want, rsi)
	}
}

func TestCalculateRSI_SimpleHandComputed(t *testing.T) {
	// last two gains 0, 1 -> 0.5; last two losses 0.5, 0 -> 0.25; RS = 2
	rsi, err := CalculateRSI([]float64{10, 11, 10.5, 11.5}, 2, ModeSimple)
	if err != nil {
		t.Fatal(err)
	}
	want := 100 - 100.0/3
	if math.Abs(rsi-want) > 1e-9 {
		t.Errorf("expected %.6f, got %.6f", want, rsi)
	}
}

func TestCalculateRSI_ModesDiffer(t *testing.T) {
	closes := make([]float64, 120)
	for i := range closes {
		closes[i] = 100 + 10*math.Sin(float64(i)/5) + float64(i)*0.05
	}
	w, err := CalculateRSI(closes, DefaultRSIPeriod, ModeWilder)
	if err != nil {
		t.Fatal(err)
	}
	s, err := CalculateRSI(closes, DefaultRSIPeriod, ModeSimple)
	if err != nil {
		t.Fatal(err)
	}
	if w == s {
		t.Errorf("expected wilder and simple readings to differ, both %.4f", w)
	}
	for _, v := range []float64{w, s} {
		if v < 0 || v > 100 {
			t.Errorf("rsi out of range: %.4f", v)
		}
	}
}

func TestCalculateRSI_ZeroLossIsHundred(t *testing.T) {
	closes := append(ramp(50, 0, 10), ramp(50, 1, 10)...)
	rsi, err := CalculateRSI(closes, DefaultRSIPeriod, ModeWilder)
	if err != nil {
		t.Fatal(err)
	}
	if rsi != 100 {
		t.Errorf("expected 100 with no losses, got %.4f", rsi)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
		err  bool
	}{
		{"", ModeWilder, false},
		{"Wilder", ModeWilder, false},
		{" simple ", ModeSimple, false},
		{"ema", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.err || got != tt.want {
			t.Errorf("ParseMode(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestCalculateSMA(t *testing.T) {
	got, err := CalculateSMA([]float64{1, 2, 3, 4, 5}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got != 4.5 {
		t.Errorf("expected 4.5, got %v", got)
	}
	if _, err := CalculateSMA([]float64{1}, 2); err == nil {
		t.Error("expected error for short input")
	}
}

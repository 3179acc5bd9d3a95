package voyage

import (
	"math"
	"testing"
)

func uniformWeatherInput(value float64) *WeatherDataInput {
	numTime, numLon, numLat := 2, 4, 3
	values := make([]float64, numTime*numLon*numLat)
	for i := range values {
		values[i] = value
	}
	return &WeatherDataInput{
		StartTimeUnix: 0,
		NumTime:       numTime,
		TimeBinHours:  6,
		StartLon:      0,
		NumLon:        numLon,
		LonBin:        90,
		StartLat:      10,
		NumLat:        numLat,
		LatBin:        5,
		Values:        values,
	}
}

func TestLookupWeatherNilTableContributesZero(t *testing.T) {
	w, err := LookupWeather(WeatherSet{}, 0, 5, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w != (Weather{}) {
		t.Errorf("expected all-zero Weather for an empty set, got %+v", w)
	}
}

func TestLookupWeatherNearestBin(t *testing.T) {
	set := WeatherSet{WindSpd: uniformWeatherInput(12.5)}
	w, err := LookupWeather(set, 3600, 8, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.WindSpd != 12.5 {
		t.Errorf("WindSpd = %v, want 12.5", w.WindSpd)
	}
}

func TestLookupWeatherTimeBeforeRange(t *testing.T) {
	d := uniformWeatherInput(1)
	d.StartTimeUnix = 10000
	_, err := LookupWeather(WeatherSet{WindSpd: d}, 0, 5, 5)
	if err != ErrTimeBeforeRange {
		t.Fatalf("expected ErrTimeBeforeRange, got %v", err)
	}
}

func TestLookupWeatherSentinelAndNaNBecomeZero(t *testing.T) {
	for _, bad := range []float64{-9000.5, -9999, math.NaN(), math.Inf(1), math.Inf(-1)} {
		d := uniformWeatherInput(bad)
		w, err := LookupWeather(WeatherSet{WaveHgt: d}, 0, 10, 0)
		if err != nil {
			t.Fatalf("unexpected error for value %v: %v", bad, err)
		}
		if w.WaveHgt != 0 {
			t.Errorf("value %v: WaveHgt = %v, want 0", bad, w.WaveHgt)
		}
	}
}

func TestLookupWeatherAntiMeridianWraparound(t *testing.T) {
	d := uniformWeatherInput(7)
	w, err := LookupWeather(WeatherSet{CurrSpd: d}, 0, 10, -350) // -350 == 10 mod 360
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.CurrSpd != 7 {
		t.Errorf("CurrSpd = %v, want 7 after wraparound", w.CurrSpd)
	}
}

func TestLookupWeatherTimeIndexWrapsAcrossTable(t *testing.T) {
	d := uniformWeatherInput(3)
	// Far beyond the table's time span; tIdx must wrap modulo NumTime rather
	// than index out of range.
	w, err := LookupWeather(WeatherSet{WavePrd: d}, 3600*24*365, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.WavePrd != 3 {
		t.Errorf("WavePrd = %v, want 3", w.WavePrd)
	}
}

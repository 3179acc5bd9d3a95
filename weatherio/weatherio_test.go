package weatherio

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/oceanrouting/voyage"
)

func writeWeatherFile(t *testing.T, path string, h header, values []float32) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating %s: %v", path, err)
	}
	defer f.Close()
	if err := binary.Write(f, binary.LittleEndian, h); err != nil {
		t.Fatalf("writing header: %v", err)
	}
	if err := binary.Write(f, binary.LittleEndian, values); err != nil {
		t.Fatalf("writing values: %v", err)
	}
}

func TestLoadFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "WindSpd.bin")

	h := header{
		StartTime: 1000,
		NumTime:   2,
		TimeBin:   6,
		StartLon:  0,
		NumLon:    2,
		LonBin:    180,
		StartLat:  10,
		NumLat:    2,
		LatBin:    5,
	}
	values := []float32{1, 2, 3, 4, 5, 6, 7, 8}
	writeWeatherFile(t, path, h, values)

	got, err := loadFile(path)
	if err != nil {
		t.Fatalf("loadFile failed: %v", err)
	}
	if got.StartTimeUnix != 1000 || got.NumTime != 2 || got.NumLon != 2 || got.NumLat != 2 {
		t.Fatalf("unexpected header fields: %+v", got)
	}
	if len(got.Values) != len(values) {
		t.Fatalf("expected %d values, got %d", len(values), len(got.Values))
	}
	for i, v := range values {
		if got.Values[i] != float64(v) {
			t.Errorf("Values[%d] = %v, want %v", i, got.Values[i], v)
		}
	}
}

func TestLoadDirSkipsMissingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "WaveHgt.bin")
	writeWeatherFile(t, path, header{StartTime: 0, NumTime: 1, TimeBin: 1, NumLon: 1, LonBin: 360, NumLat: 1, LatBin: 180}, []float32{2.5})

	set, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}
	if set.WaveHgt == nil {
		t.Fatal("expected WaveHgt to be loaded")
	}
	if set.WindSpd != nil || set.CurrDir != nil || set.WavePrd != nil {
		t.Error("expected absent variable files to leave their field nil")
	}
}

func TestSaveFileLoadFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "CurrSpd.bin")

	in := &voyage.WeatherDataInput{
		StartTimeUnix: 5000,
		NumTime:       1,
		TimeBinHours:  3,
		StartLon:      100,
		NumLon:        2,
		LonBin:        90,
		StartLat:      40,
		NumLat:        2,
		LatBin:        10,
		Values:        []float64{0.5, 1.5, 2.5, 3.5},
	}
	if err := SaveFile(path, in); err != nil {
		t.Fatalf("SaveFile failed: %v", err)
	}
	got, err := loadFile(path)
	if err != nil {
		t.Fatalf("loadFile failed: %v", err)
	}
	if got.StartTimeUnix != in.StartTimeUnix || got.NumLat != in.NumLat || got.LonBin != in.LonBin {
		t.Fatalf("header did not round-trip: %+v", got)
	}
	for i := range in.Values {
		if got.Values[i] != in.Values[i] {
			t.Errorf("Values[%d] = %v, want %v", i, got.Values[i], in.Values[i])
		}
	}
}

func TestTrimLatitude(t *testing.T) {
	d := &voyage.WeatherDataInput{
		NumTime: 1,
		NumLon:  2,
		NumLat:  3,
		// two [lon] slices of three lat bins each
		Values: []float64{1, 2, 3, 4, 5, 6},
	}
	out, err := TrimLatitude(d, 2)
	if err != nil {
		t.Fatalf("TrimLatitude failed: %v", err)
	}
	if out.NumLat != 2 {
		t.Errorf("NumLat = %d, want 2", out.NumLat)
	}
	want := []float64{1, 2, 4, 5}
	if len(out.Values) != len(want) {
		t.Fatalf("trimmed to %d values, want %d", len(out.Values), len(want))
	}
	for i := range want {
		if out.Values[i] != want[i] {
			t.Errorf("Values[%d] = %v, want %v", i, out.Values[i], want[i])
		}
	}
	if d.NumLat != 3 || len(d.Values) != 6 {
		t.Error("TrimLatitude mutated its input")
	}
}

func TestTrimLatitudeRejectsGrowth(t *testing.T) {
	d := &voyage.WeatherDataInput{NumTime: 1, NumLon: 1, NumLat: 2, Values: []float64{1, 2}}
	if _, err := TrimLatitude(d, 3); err == nil {
		t.Error("expected an error trimming to more bins than exist")
	}
}

func TestCheckTablesDetectsShapeMismatch(t *testing.T) {
	a := &voyage.WeatherDataInput{NumTime: 1, NumLon: 2, NumLat: 2, Values: make([]float64, 4)}
	b := &voyage.WeatherDataInput{NumTime: 1, NumLon: 2, NumLat: 3, Values: make([]float64, 6)}

	if err := CheckTables(map[string]*voyage.WeatherDataInput{"WindSpd": a, "WindDir": a}); err != nil {
		t.Errorf("expected matching tables to pass, got %v", err)
	}
	if err := CheckTables(map[string]*voyage.WeatherDataInput{"WindSpd": a, "WaveHgt": b}); err == nil {
		t.Error("expected a shape mismatch error")
	}
}

func TestCheckTablesDetectsTruncatedValues(t *testing.T) {
	short := &voyage.WeatherDataInput{NumTime: 1, NumLon: 2, NumLat: 2, Values: make([]float64, 3)}
	if err := CheckTables(map[string]*voyage.WeatherDataInput{"CurrDir": short}); err == nil {
		t.Error("expected an error for a value array shorter than the header implies")
	}
}

func TestLoadDirEmptyDir(t *testing.T) {
	dir := t.TempDir()
	set, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir failed on empty dir: %v", err)
	}
	if set.WindDir != nil || set.WindSpd != nil {
		t.Error("expected an all-nil WeatherSet for an empty directory")
	}
}

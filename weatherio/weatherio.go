// Package weatherio reads the little-endian binary weather grid files
// consumed by the voyage package's fuel strategy: one file per named
// variable (WindDir.bin, WindSpd.bin, CurrDir.bin, CurrSpd.bin, WaveDir.bin,
// WaveHgt.bin, WavePrd.bin), each a fixed header followed by a flat
// [time][lon][lat] float32 array.
package weatherio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/oceanrouting/voyage"
)

// variableFiles names the expected file for each WeatherSet field, keyed by
// variable name.
var variableFiles = map[string]string{
	"WindDir": "WindDir.bin",
	"WindSpd": "WindSpd.bin",
	"CurrDir": "CurrDir.bin",
	"CurrSpd": "CurrSpd.bin",
	"WaveDir": "WaveDir.bin",
	"WaveHgt": "WaveHgt.bin",
	"WavePrd": "WavePrd.bin",
}

// LoadTables reads every present weather variable file from dir into a map
// keyed by variable name. A variable whose file is absent is simply left
// out of the map.
func LoadTables(dir string) (map[string]*voyage.WeatherDataInput, error) {
	tables := make(map[string]*voyage.WeatherDataInput)
	for name, filename := range variableFiles {
		path := filepath.Join(dir, filename)
		table, err := loadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("weatherio: loading %s: %w", filename, err)
		}
		tables[name] = table
	}
	return tables, nil
}

// LoadDir reads every present weather variable file from dir and assembles
// a voyage.WeatherSet. A variable whose file is absent is left nil, which
// LookupWeather treats as contributing 0.0 to its field.
func LoadDir(dir string) (voyage.WeatherSet, error) {
	tables, err := LoadTables(dir)
	if err != nil {
		return voyage.WeatherSet{}, err
	}
	return voyage.WeatherSet{
		WindDir: tables["WindDir"],
		WindSpd: tables["WindSpd"],
		CurrDir: tables["CurrDir"],
		CurrSpd: tables["CurrSpd"],
		WaveDir: tables["WaveDir"],
		WaveHgt: tables["WaveHgt"],
		WavePrd: tables["WavePrd"],
	}, nil
}

// CheckTables verifies that every loaded table has a value array matching
// its header dimensions and that all tables share the same grid shape. A
// shape mismatch between variables would silently corrupt the linear-index
// lookup, so it is reported as an error rather than a warning.
func CheckTables(tables map[string]*voyage.WeatherDataInput) error {
	var refName string
	var ref *voyage.WeatherDataInput
	for name, d := range tables {
		want := d.NumTime * d.NumLon * d.NumLat
		if len(d.Values) != want {
			return fmt.Errorf("weatherio: %s: %d values, header implies %d", name, len(d.Values), want)
		}
		if ref == nil {
			refName, ref = name, d
			continue
		}
		if d.NumTime != ref.NumTime || d.NumLon != ref.NumLon || d.NumLat != ref.NumLat {
			return fmt.Errorf("weatherio: %s grid [%d x %d x %d] differs from %s [%d x %d x %d]",
				name, d.NumTime, d.NumLon, d.NumLat,
				refName, ref.NumTime, ref.NumLon, ref.NumLat)
		}
	}
	return nil
}

// TrimLatitude returns a copy of d with its latitude axis truncated to
// newNumLat bins, dropping the trailing bins of every [time][lon] slice.
// Weather providers occasionally extend a product's latitude range;
// trimming the extension restores compatibility with consumers expecting
// the older shape.
func TrimLatitude(d *voyage.WeatherDataInput, newNumLat int) (*voyage.WeatherDataInput, error) {
	if newNumLat <= 0 || newNumLat > d.NumLat {
		return nil, fmt.Errorf("weatherio: cannot trim latitude axis from %d to %d bins", d.NumLat, newNumLat)
	}
	out := *d
	out.NumLat = newNumLat
	out.Values = make([]float64, 0, d.NumTime*d.NumLon*newNumLat)
	for t := 0; t < d.NumTime; t++ {
		for lon := 0; lon < d.NumLon; lon++ {
			sliceStart := (t*d.NumLon + lon) * d.NumLat
			out.Values = append(out.Values, d.Values[sliceStart:sliceStart+newNumLat]...)
		}
	}
	return &out, nil
}

// SaveFile writes d to path in the binary layout loadFile reads.
func SaveFile(path string, d *voyage.WeatherDataInput) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("weatherio: creating %s: %w", path, err)
	}
	defer f.Close()

	h := header{
		StartTime: uint32(d.StartTimeUnix),
		NumTime:   uint32(d.NumTime),
		TimeBin:   uint32(d.TimeBinHours),
		StartLon:  float32(d.StartLon),
		NumLon:    uint32(d.NumLon),
		LonBin:    float32(d.LonBin),
		StartLat:  float32(d.StartLat),
		NumLat:    uint32(d.NumLat),
		LatBin:    float32(d.LatBin),
	}
	if err := binary.Write(f, binary.LittleEndian, h); err != nil {
		return fmt.Errorf("weatherio: writing header of %s: %w", path, err)
	}
	raw := make([]float32, len(d.Values))
	for i, v := range d.Values {
		raw[i] = float32(v)
	}
	if err := binary.Write(f, binary.LittleEndian, raw); err != nil {
		return fmt.Errorf("weatherio: writing values of %s: %w", path, err)
	}
	return nil
}

// FileName returns the expected file name for a weather variable, or ""
// if the name is not one of the seven known variables.
func FileName(variable string) string {
	return variableFiles[variable]
}

// header is the fixed little-endian file header, followed in the file by
// NumTime*NumLon*NumLat float32 values ordered [time][lon][lat].
type header struct {
	StartTime uint32
	NumTime   uint32
	TimeBin   uint32
	StartLon  float32
	NumLon    uint32
	LonBin    float32
	StartLat  float32
	NumLat    uint32
	LatBin    float32
}

func loadFile(path string) (*voyage.WeatherDataInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var h header
	if err := binary.Read(f, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	n := int(h.NumTime) * int(h.NumLon) * int(h.NumLat)
	raw := make([]float32, n)
	if err := binary.Read(f, binary.LittleEndian, &raw); err != nil && err != io.EOF {
		return nil, fmt.Errorf("reading values: %w", err)
	}

	values := make([]float64, n)
	for i, v := range raw {
		values[i] = float64(v)
	}

	return &voyage.WeatherDataInput{
		StartTimeUnix: int64(h.StartTime),
		NumTime:       int(h.NumTime),
		TimeBinHours:  float64(h.TimeBin),
		StartLon:      float64(h.StartLon),
		NumLon:        int(h.NumLon),
		LonBin:        float64(h.LonBin),
		StartLat:      float64(h.StartLat),
		NumLat:        int(h.NumLat),
		LatBin:        float64(h.LatBin),
		Values:        values,
	}, nil
}

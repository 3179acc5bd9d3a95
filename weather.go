package voyage

import "math"

// weatherSentinel is the missing-value threshold: source values strictly
// below it are treated as missing.
const weatherSentinel = -9000.0

// WeatherDataInput is one variable's worth of time/lon/lat gridded data,
// indexed as [[t*numLon + lon]*numLat + lat].
type WeatherDataInput struct {
	StartTimeUnix int64
	NumTime       int
	TimeBinHours  float64

	StartLon float64
	NumLon   int
	LonBin   float64

	StartLat float64
	NumLat   int
	LatBin   float64

	Values []float64
}

// WeatherSet holds the seven named weather tables. A nil table contributes
// 0.0 to its field on every lookup.
type WeatherSet struct {
	WindDir *WeatherDataInput
	WindSpd *WeatherDataInput
	CurrDir *WeatherDataInput
	CurrSpd *WeatherDataInput
	WaveDir *WeatherDataInput
	WaveHgt *WeatherDataInput
	WavePrd *WeatherDataInput
}

// Weather is an assembled, per-query weather record.
type Weather struct {
	WindDir float64 `json:"windDir"`
	WindSpd float64 `json:"windSpd"`
	CurrDir float64 `json:"currDir"`
	CurrSpd float64 `json:"currSpd"`
	WaveDir float64 `json:"waveDir"`
	WaveHgt float64 `json:"waveHgt"`
	WavePrd float64 `json:"wavePrd"`
}

// LookupWeather assembles a Weather record for (t, lat, lon) by performing
// seven independent nearest-bin lookups. t is seconds since the Unix
// epoch. It returns ErrTimeBeforeRange if t precedes any configured table's
// start time.
func LookupWeather(set WeatherSet, t int64, lat, lon float64) (Weather, error) {
	var w Weather
	var err error

	if w.WindDir, err = lookupOne(set.WindDir, t, lat, lon); err != nil {
		return Weather{}, err
	}
	if w.WindSpd, err = lookupOne(set.WindSpd, t, lat, lon); err != nil {
		return Weather{}, err
	}
	if w.CurrDir, err = lookupOne(set.CurrDir, t, lat, lon); err != nil {
		return Weather{}, err
	}
	if w.CurrSpd, err = lookupOne(set.CurrSpd, t, lat, lon); err != nil {
		return Weather{}, err
	}
	if w.WaveDir, err = lookupOne(set.WaveDir, t, lat, lon); err != nil {
		return Weather{}, err
	}
	if w.WaveHgt, err = lookupOne(set.WaveHgt, t, lat, lon); err != nil {
		return Weather{}, err
	}
	if w.WavePrd, err = lookupOne(set.WavePrd, t, lat, lon); err != nil {
		return Weather{}, err
	}
	return w, nil
}

func lookupOne(d *WeatherDataInput, t int64, lat, lon float64) (float64, error) {
	if d == nil {
		return 0, nil
	}

	elapsedHours := float64(t-d.StartTimeUnix) / 3600.0
	if elapsedHours < 0 {
		return 0, ErrTimeBeforeRange
	}
	tIdx := int(math.Floor(elapsedHours / d.TimeBinHours))
	tIdx = ((tIdx % d.NumTime) + d.NumTime) % d.NumTime

	lonRel := math.Mod(math.Mod(lon-d.StartLon, 360)+360, 360)
	lonIdx := int(math.Floor(lonRel/d.LonBin + 1e-9))
	lonIdx = clampInt(lonIdx, 0, d.NumLon-1)

	var latIdx int
	if d.LatBin > 0 {
		latIdx = int(math.Floor((d.StartLat-lat)/d.LatBin + 1e-9))
	} else {
		latIdx = int(math.Floor((lat-d.StartLat)/d.LatBin + 1e-9))
	}
	latIdx = clampInt(latIdx, 0, d.NumLat-1)

	idx := (tIdx*d.NumLon+lonIdx)*d.NumLat + latIdx
	if idx < 0 || idx >= len(d.Values) {
		return 0, nil
	}
	v := d.Values[idx]
	if math.IsNaN(v) || math.IsInf(v, 0) || v < weatherSentinel {
		return 0, nil
	}
	return v, nil
}

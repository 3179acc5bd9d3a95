// Package cmd wires the voyage package's routing engine into a cobra/viper
// command-line tool: a Cfg wraps a *viper.Viper, cobra commands read their
// options through it, and a configuration file or VOYAGE_-prefixed
// environment variables can override any flag.
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/lnashier/viper"
	"github.com/spf13/cobra"

	"github.com/oceanrouting/voyage"
	"github.com/oceanrouting/voyage/bathyio"
	"github.com/oceanrouting/voyage/coastio"
	"github.com/oceanrouting/voyage/science/shipdynamics"
	"github.com/oceanrouting/voyage/weatherio"
)

// Cfg holds the command-line configuration.
type Cfg struct {
	*viper.Viper

	Root, routeCmd, checkWeatherCmd, convertWeatherCmd *cobra.Command
}

// InitializeConfig builds the command tree and binds every flag to viper,
// so that flags, a config file, and VOYAGE_-prefixed environment variables
// can all supply the same option.
func InitializeConfig() *Cfg {
	cfg := &Cfg{Viper: viper.New()}
	cfg.SetEnvPrefix("VOYAGE")
	cfg.AutomaticEnv()

	cfg.Root = &cobra.Command{
		Use:   "voyage",
		Short: "A ship-voyage routing engine.",
		Long: `voyage plans ship routes over a navigable grid derived from bathymetry and
coastline sources, using either a shortest-distance or a fuel-optimized A*
search. Configuration can be set with flags, a config file (--config), or
VOYAGE_-prefixed environment variables.`,
		DisableAutoGenTag: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return setConfig(cfg)
		},
	}

	cfg.routeCmd = &cobra.Command{
		Use:   "route lat1,lon1 lat2,lon2 [lat3,lon3 ...]",
		Short: "Plan a route across the given waypoints.",
		Long:  "route builds a navigable grid around the given waypoints and computes the shortest and/or fuel-optimized path between them, printing the result as JSON.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			return runRoute(cfg, args)
		},
		DisableAutoGenTag: true,
	}

	flags := cfg.routeCmd.Flags()
	flags.String("bathymetry", "", "path to a NetCDF bathymetry file")
	flags.String("coastline", "", "path to a coastline shapefile (without extension)")
	flags.String("coastlineFilter", "level == 1", "govaluate expression selecting the coastline polygons treated as land")
	flags.String("weatherDir", "", "directory of WindDir.bin/WindSpd.bin/... weather files (falls back to WEATHER_DATA_PATH)")
	flags.Float64("shipSpeedMps", 8.0, "ship cruising speed in m/s")
	flags.Float64("draftM", 10.0, "ship draft in meters")
	flags.Float64("trimM", 0.0, "ship trim in meters")
	flags.Int64("startTimeUnix", 0, "voyage start time, seconds since epoch")
	flags.Float64("gridCellSizeKm", 5.0, "target navigable-grid cell size in km")
	flags.Int("gridMarginCells", 20, "grid margin around waypoints, in cells")
	flags.Float64("maxSnapRadiusKm", 50.0, "maximum distance to snap a waypoint onto the navigable grid")
	flags.Float64("maxAngleDegrees", 90.0, "maximum turn angle allowed between consecutive A* edges")
	flags.Bool("calculateShortest", true, "compute the shortest-distance path")
	flags.Bool("calculateOptimized", true, "compute the fuel-optimized path")

	for _, name := range []string{
		"bathymetry", "coastline", "coastlineFilter", "weatherDir",
		"shipSpeedMps", "draftM", "trimM", "startTimeUnix", "gridCellSizeKm",
		"gridMarginCells", "maxSnapRadiusKm", "maxAngleDegrees",
		"calculateShortest", "calculateOptimized",
	} {
		cfg.BindPFlag(name, flags.Lookup(name))
	}

	cfg.checkWeatherCmd = &cobra.Command{
		Use:   "checkweather [dir]",
		Short: "Inspect a directory of weather grid files.",
		Long:  "checkweather prints each weather variable's grid header and verifies that all variables share the same grid shape, which the routing engine's linear indexing depends on.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runCheckWeather(cfg, args)
		},
		DisableAutoGenTag: true,
	}

	cfg.convertWeatherCmd = &cobra.Command{
		Use:   "convertweather inDir outDir",
		Short: "Trim weather grids to a smaller latitude extent.",
		Long:  "convertweather rewrites every weather file in inDir to outDir with the latitude axis truncated to --numLat bins, dropping the trailing bins. Files already at or below the target are copied unchanged.",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			return runConvertWeather(cfg, args)
		},
		DisableAutoGenTag: true,
	}
	cfg.convertWeatherCmd.Flags().Int("numLat", 341, "target number of latitude bins")
	cfg.BindPFlag("numLat", cfg.convertWeatherCmd.Flags().Lookup("numLat"))

	cfg.Root.PersistentFlags().String("config", "", "configuration file path")
	cfg.BindPFlag("config", cfg.Root.PersistentFlags().Lookup("config"))

	cfg.Root.AddCommand(cfg.routeCmd, cfg.checkWeatherCmd, cfg.convertWeatherCmd)
	return cfg
}

func runCheckWeather(cfg *Cfg, args []string) error {
	dir := ""
	if len(args) == 1 {
		dir = args[0]
	} else {
		dir = os.Getenv("WEATHER_DATA_PATH")
	}
	if dir == "" {
		return fmt.Errorf("voyage: no weather directory given and WEATHER_DATA_PATH is unset")
	}

	tables, err := weatherio.LoadTables(dir)
	if err != nil {
		return err
	}
	if len(tables) == 0 {
		return fmt.Errorf("voyage: no weather files found in %s", dir)
	}

	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		d := tables[name]
		fmt.Printf("%s (%s)\n", name, weatherio.FileName(name))
		fmt.Printf("  time: start %d, %d bins of %g h\n", d.StartTimeUnix, d.NumTime, d.TimeBinHours)
		fmt.Printf("  lon:  start %g, %d bins of %g deg\n", d.StartLon, d.NumLon, d.LonBin)
		fmt.Printf("  lat:  start %g, %d bins of %g deg\n", d.StartLat, d.NumLat, d.LatBin)
		fmt.Printf("  values: %d\n", len(d.Values))
	}

	if err := weatherio.CheckTables(tables); err != nil {
		return err
	}
	fmt.Println("All weather files share a consistent grid.")
	return nil
}

func runConvertWeather(cfg *Cfg, args []string) error {
	inDir, outDir := args[0], args[1]
	numLat := cfg.GetInt("numLat")

	tables, err := weatherio.LoadTables(inDir)
	if err != nil {
		return err
	}
	if len(tables) == 0 {
		return fmt.Errorf("voyage: no weather files found in %s", inDir)
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("voyage: creating %s: %w", outDir, err)
	}

	for name, d := range tables {
		out := d
		if d.NumLat > numLat {
			out, err = weatherio.TrimLatitude(d, numLat)
			if err != nil {
				return fmt.Errorf("voyage: converting %s: %w", name, err)
			}
		}
		dst := filepath.Join(outDir, weatherio.FileName(name))
		if err := weatherio.SaveFile(dst, out); err != nil {
			return err
		}
		fmt.Printf("%s: %d -> %d latitude bins\n", name, d.NumLat, out.NumLat)
	}
	return nil
}

// setConfig reads the configuration file named by --config, if any.
func setConfig(cfg *Cfg) error {
	if cfgpath := cfg.GetString("config"); cfgpath != "" {
		cfg.SetConfigFile(cfgpath)
		if err := cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("voyage: problem reading configuration file: %v", err)
		}
	}
	return nil
}

func runRoute(cfg *Cfg, args []string) error {
	waypoints := make([]voyage.GeoCoordinate, len(args))
	for i, a := range args {
		coord, err := parseCoordinate(a)
		if err != nil {
			return fmt.Errorf("voyage: waypoint %d: %w", i, err)
		}
		waypoints[i] = coord
	}

	bathyPath := cfg.GetString("bathymetry")
	if bathyPath == "" {
		return fmt.Errorf("voyage: --bathymetry is required")
	}
	bathy, err := bathyio.Open(bathyPath, "lat", "lon", "elevation")
	if err != nil {
		return err
	}

	coastPath := cfg.GetString("coastline")
	if coastPath == "" {
		return fmt.Errorf("voyage: --coastline is required")
	}
	coast, err := coastio.Open(coastPath, cfg.GetString("coastlineFilter"))
	if err != nil {
		return err
	}

	weatherDir := cfg.GetString("weatherDir")
	if weatherDir == "" {
		weatherDir = os.Getenv("WEATHER_DATA_PATH")
	}
	var weather voyage.WeatherSet
	if weatherDir != "" {
		weather, err = weatherio.LoadDir(weatherDir)
		if err != nil {
			return err
		}
	}

	router, err := voyage.NewShipRouter(bathy, coast, coastio.Rasterizer{}, weather, shipdynamics.NewDefaultModel())
	if err != nil {
		return err
	}

	voyageCfg := voyage.DefaultVoyageConfig()
	voyageCfg.ShipSpeedMps = cfg.GetFloat64("shipSpeedMps")
	voyageCfg.DraftM = cfg.GetFloat64("draftM")
	voyageCfg.TrimM = cfg.GetFloat64("trimM")
	voyageCfg.StartTimeUnix = cfg.GetInt64("startTimeUnix")
	voyageCfg.GridCellSizeKm = cfg.GetFloat64("gridCellSizeKm")
	voyageCfg.GridMarginCells = cfg.GetInt("gridMarginCells")
	voyageCfg.MaxSnapRadiusKm = cfg.GetFloat64("maxSnapRadiusKm")
	voyageCfg.MaxAngleDegrees = cfg.GetFloat64("maxAngleDegrees")
	voyageCfg.CalculateShortest = cfg.GetBool("calculateShortest")
	voyageCfg.CalculateOptimized = cfg.GetBool("calculateOptimized")

	result, err := router.CalculateRoute(waypoints, voyageCfg)
	if result != nil {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(result); encErr != nil {
			return encErr
		}
	}
	return err
}

// parseCoordinate parses a "lat,lon" command-line argument.
func parseCoordinate(s string) (voyage.GeoCoordinate, error) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return voyage.GeoCoordinate{}, fmt.Errorf("expected \"lat,lon\", got %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return voyage.GeoCoordinate{}, fmt.Errorf("invalid latitude in %q: %w", s, err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return voyage.GeoCoordinate{}, fmt.Errorf("invalid longitude in %q: %w", s, err)
	}
	return voyage.GeoCoordinate{Latitude: lat, Longitude: lon}, nil
}

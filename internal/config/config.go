package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultConfigFile = "ridestats.ini"
	EnvPrefix         = "RIDESTATS"
	GPXExtension      = ".gpx"
)

// ErrUsage marks command line mistakes, as opposed to runtime failures
var ErrUsage = errors.New("usage error")

// MapConfig holds the [Map] rendering settings
type MapConfig struct {
	PolylineWidth int
	MarkerRadius  int
	ZoomStart     int
	Width         int
	Height        int
}

// Config is resolved once at startup and passed by value afterwards.
type Config struct {
	InputPath  string // the .gpx file read
	BaseName   string // input path minus extension, prefix of every output
	ConfigFile string

	AggregateDistanceKm int
	AggregateTimeMin    int
	ShowRest            bool
	RestMaxSpeed        float64

	Map MapConfig

	Plot      bool
	Profile   bool
	DB        bool
	StatsJSON bool
	ServeAddr string
}

// Aggregated reports whether any lap mode was requested
func (c Config) Aggregated() bool {
	return c.AggregateDistanceKm > 0 || c.AggregateTimeMin > 0
}

// OutputPath returns BaseName with the given suffix appended
func (c Config) OutputPath(suffix string) string {
	return c.BaseName + suffix
}

// NewFlagSet declares the command line flags
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringP("aggregate_distance", "d", "0", "aggregate laps by distance in km (0 = off)")
	fs.StringP("aggregate_time", "t", "0", "aggregate laps by time in minutes (0 = off)")
	fs.BoolP("show_rest", "r", false, "show rest stops")
	fs.StringP("config", "c", DefaultConfigFile, "INI configuration file")
	fs.Bool("plot", false, "also write <base>.png with a scatter of the route")
	fs.Bool("profile", false, "also write <base>_profile.html with speed and elevation charts")
	fs.Bool("db", false, "also write <base>.db with the analysed ride")
	fs.Bool("stats-json", false, "print stats as JSON")
	fs.String("serve", "", "serve the report on this address after writing it")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <file>\n", name)
		fs.PrintDefaults()
	}
	return fs
}

// Load parses args (without the program name), reads the optional INI file
// and applies RIDESTATS_* environment overrides.
func Load(args []string) (Config, error) {
	fs := NewFlagSet("ridestats")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return Config{}, err
		}
		return Config{}, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() != 1 {
		return Config{}, fmt.Errorf("%w: expected exactly one input file, got %d", ErrUsage, fs.NArg())
	}

	cfg := Config{}
	cfg.InputPath, cfg.BaseName = ResolvePaths(fs.Arg(0))
	cfg.AggregateDistanceKm = aggregateFlag(fs, "aggregate_distance")
	cfg.AggregateTimeMin = aggregateFlag(fs, "aggregate_time")
	cfg.ShowRest, _ = fs.GetBool("show_rest")
	cfg.ConfigFile, _ = fs.GetString("config")
	cfg.Plot, _ = fs.GetBool("plot")
	cfg.Profile, _ = fs.GetBool("profile")
	cfg.DB, _ = fs.GetBool("db")
	cfg.StatsJSON, _ = fs.GetBool("stats-json")
	cfg.ServeAddr, _ = fs.GetString("serve")

	if cfg.AggregateDistanceKm < 0 || cfg.AggregateTimeMin < 0 {
		return Config{}, fmt.Errorf("%w: aggregation values must not be negative", ErrUsage)
	}

	v, err := readSettings(cfg.ConfigFile)
	if err != nil {
		return Config{}, err
	}

	cfg.RestMaxSpeed = v.GetFloat64("general.rest_max_speed")
	cfg.Map = MapConfig{
		PolylineWidth: v.GetInt("map.path_polyline_width"),
		MarkerRadius:  v.GetInt("map.interval_marker_radius"),
		ZoomStart:     v.GetInt("map.zoom_start"),
		Width:         v.GetInt("map.width"),
		Height:        v.GetInt("map.height"),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// aggregateFlag reads a lap threshold flag. A value that is not an integer
// disables that lap mode instead of failing the run.
func aggregateFlag(fs *pflag.FlagSet, name string) int {
	raw, _ := fs.GetString(name)
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		log.Printf("[Config] ignoring invalid %s %q", name, raw)
		return 0
	}
	return n
}

// ResolvePaths accepts the file argument with or without the .gpx extension
// and returns the file to read plus the output base name.
func ResolvePaths(arg string) (input, base string) {
	base = strings.TrimSuffix(arg, filepath.Ext(arg))
	return base + GPXExtension, base
}

func readSettings(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault("general.rest_max_speed", 2.0)
	v.SetDefault("map.path_polyline_width", 2)
	v.SetDefault("map.interval_marker_radius", 2)
	v.SetDefault("map.zoom_start", 12)
	v.SetDefault("map.width", 1024)
	v.SetDefault("map.height", 600)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		return v, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		log.Printf("[Config] %s not found, using defaults", path)
		return v, nil
	}

	v.SetConfigFile(path)
	v.SetConfigType("ini")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return v, nil
}

func (c Config) validate() error {
	if c.RestMaxSpeed <= 0 {
		return fmt.Errorf("invalid config: rest_max_speed must be positive, got %v", c.RestMaxSpeed)
	}
	checks := []struct {
		name  string
		value int
	}{
		{"path_polyline_width", c.Map.PolylineWidth},
		{"interval_marker_radius", c.Map.MarkerRadius},
		{"zoom_start", c.Map.ZoomStart},
		{"width", c.Map.Width},
		{"height", c.Map.Height},
	}
	for _, check := range checks {
		if check.value <= 0 {
			return fmt.Errorf("invalid config: %s must be positive, got %d", check.name, check.value)
		}
	}
	return nil
}

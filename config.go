package roadgraph

import (
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultMinRoadLength is the shortest road (or piece of a split road) we accept
	DefaultMinRoadLength = 300.0

	// DefaultMergeDistance is how close two intersections may get before
	// they're considered the same place
	DefaultMergeDistance = 1e-3

	// DefaultHitTolerance is how far from a road a click may land & still hit it
	DefaultHitTolerance = 5.0

	// DefaultRoadWidth is the width roads are drawn with
	DefaultRoadWidth = 10.0
)

// Config holds settings for a RoadSystem & Editor.
// Zero values are replaced with defaults, see DefaultConfig, except
// MinRoadLength where zero turns the check off.
type Config struct {
	// MinRoadLength is the min length of any road segment created by an edit,
	// including both halves of a road that is split by a crossing.
	// Zero means no minimum; DefaultConfig sets DefaultMinRoadLength.
	MinRoadLength float64 `yaml:"minRoadLength"`

	// MergeDistance: crossings & endpoints closer than this to an existing
	// intersection reuse it rather than creating a new one. Crossings closer
	// than this to each other share a single intersection.
	MergeDistance float64 `yaml:"mergeDistance"`

	// SnapDistance is used by the Editor; a press / release this close to
	// an existing intersection starts / ends the road there.
	// Values below MergeDistance are raised to MergeDistance.
	SnapDistance float64 `yaml:"snapDistance"`

	// HitTolerance is the max perpendicular distance from a road for a
	// point to count as "on" it (demolition clicks).
	HitTolerance float64 `yaml:"hitTolerance"`

	// RoadWidth is the width of the strip used to present a road
	RoadWidth float64 `yaml:"roadWidth"`

	// Logger to write to, slog.Default() if not set
	Logger *slog.Logger `yaml:"-"`
}

// DefaultConfig returns a Config with reasonable defaults
func DefaultConfig() *Config {
	return &Config{
		MinRoadLength: DefaultMinRoadLength,
		MergeDistance: DefaultMergeDistance,
		SnapDistance:  DefaultMergeDistance,
		HitTolerance:  DefaultHitTolerance,
		RoadWidth:     DefaultRoadWidth,
		Logger:        slog.Default(),
	}
}

// LoadConfig reads a yaml file over the top of DefaultConfig()
func LoadConfig(fpath string) (*Config, error) {
	data, err := os.ReadFile(fpath)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %s", fpath)
	}

	cfg := DefaultConfig()
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing config %s", fpath)
	}

	return cfg, cfg.init()
}

// init fills in defaults for anything unset & checks what remains is sane
func (c *Config) init() error {
	if c.MinRoadLength < 0 {
		return errors.Wrapf(ErrInvalidConfig, "minRoadLength %f is negative", c.MinRoadLength)
	}
	if c.MergeDistance < 0 || c.SnapDistance < 0 || c.HitTolerance < 0 || c.RoadWidth < 0 {
		return errors.Wrap(ErrInvalidConfig, "distances must not be negative")
	}

	if c.MergeDistance == 0 {
		c.MergeDistance = DefaultMergeDistance
	}
	if c.SnapDistance < c.MergeDistance {
		c.SnapDistance = c.MergeDistance
	}
	if c.HitTolerance == 0 {
		c.HitTolerance = DefaultHitTolerance
	}
	if c.RoadWidth == 0 {
		c.RoadWidth = DefaultRoadWidth
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}

	return nil
}

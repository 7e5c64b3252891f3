package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"3000"`
	Environment string `envconfig:"ENV" default:"development"`

	// Database
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Models
	ModelPath   string `envconfig:"MODEL_PATH" default:"models/facenet.onnx"`
	CascadePath string `envconfig:"CASCADE_PATH" default:"models/facefinder"`
	PuplocPath  string `envconfig:"PUPLOC_PATH" default:"models/puploc"`
	ONNXLibPath string `envconfig:"ONNX_LIB_PATH" default:""`

	// Frames
	FrameSource string `envconfig:"FRAME_SOURCE" default:"stream"`
	FrameImage  string `envconfig:"FRAME_IMAGE" default:""`

	// Pipeline
	MinBoxSize        int           `envconfig:"MIN_BOX_SIZE" default:"400"`
	MinEyeOpenness    float64       `envconfig:"MIN_EYE_OPENNESS" default:"0.6"`
	DistanceThreshold float64       `envconfig:"DISTANCE_THRESHOLD" default:"1.3"`
	StoreTimeout      time.Duration `envconfig:"STORE_TIMEOUT" default:"8s"`

	// Session
	SessionFile string `envconfig:"SESSION_FILE" default:"presence-session.json"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr      string
	LogLevel  string
	LogFormat string

	Geocoder Geocoder
	Submit   Submit
	Device   Device

	// WorkflowIdleTTL evicts abandoned sign-up attempts from memory.
	WorkflowIdleTTL time.Duration
}

// Geocoder configures the reverse-geocoding client.
type Geocoder struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// Submit configures the sign-up submission transport. An empty URL disables submission.
type Submit struct {
	URL     string
	Timeout time.Duration
}

// Device holds the options passed to device capabilities.
type Device struct {
	PositionTimeout time.Duration
	PositionMaxAge  time.Duration
	PickerQuality   float64
}

// FromEnv builds a Server config from environment variables so main stays lean.
// Malformed values are reported rather than silently replaced by defaults.
func FromEnv() (Server, error) {
	return fromLookup(os.Getenv)
}

func fromLookup(getenv func(string) string) (Server, error) {
	get := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}

	cfg := Server{
		Addr:      get("ONBOARD_ADDR", ":8080"),
		LogLevel:  get("LOG_LEVEL", "info"),
		LogFormat: get("LOG_FORMAT", "json"),
		Geocoder: Geocoder{
			BaseURL:   get("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org"),
			UserAgent: get("GEOCODER_USER_AGENT", "onboard/1.0"),
		},
		Submit: Submit{
			URL: getenv("SUBMIT_URL"),
		},
	}

	var err error
	if cfg.Geocoder.Timeout, err = duration(get("GEOCODER_TIMEOUT", "10s"), "GEOCODER_TIMEOUT"); err != nil {
		return Server{}, err
	}
	if cfg.Submit.Timeout, err = duration(get("SUBMIT_TIMEOUT", "30s"), "SUBMIT_TIMEOUT"); err != nil {
		return Server{}, err
	}
	if cfg.Device.PositionTimeout, err = duration(get("POSITION_TIMEOUT", "20s"), "POSITION_TIMEOUT"); err != nil {
		return Server{}, err
	}
	if cfg.Device.PositionMaxAge, err = duration(get("POSITION_MAX_AGE", "10s"), "POSITION_MAX_AGE"); err != nil {
		return Server{}, err
	}
	if cfg.WorkflowIdleTTL, err = duration(get("WORKFLOW_IDLE_TTL", "30m"), "WORKFLOW_IDLE_TTL"); err != nil {
		return Server{}, err
	}

	quality, err := strconv.ParseFloat(get("PICKER_QUALITY", "0.7"), 64)
	if err != nil || quality <= 0 || quality > 1 {
		return Server{}, fmt.Errorf("PICKER_QUALITY must be in (0, 1], got %q", getenv("PICKER_QUALITY"))
	}
	cfg.Device.PickerQuality = quality

	return cfg, nil
}

func duration(raw, key string) (time.Duration, error) {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, raw)
	}
	return d, nil
}

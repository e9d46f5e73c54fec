// Package config holds the run settings shared by the CLI and the MCP
// server: defaults, SYMBOL_DETECT_* environment overrides and validation.
// Command-line flags are applied on top of Load's result.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ironsheep/symbol-detect/internal/detection"
	"github.com/ironsheep/symbol-detect/internal/imaging"
	"github.com/ironsheep/symbol-detect/internal/ocr"
	"github.com/ironsheep/symbol-detect/internal/publish"
)

// Strategy selection values.
const (
	StrategyAuto      = "auto"
	StrategyHeuristic = detection.StrategyHeuristic
	StrategyModel     = detection.StrategyModel
)

// Default thresholds.
const (
	DefaultConfidence = 0.5
	DefaultIoU        = 0.45
)

// Config is the full set of knobs for one run.
type Config struct {
	Confidence float64
	IoU        float64

	// Strategy is auto, heuristic or model. Auto picks model when
	// ModelPath is set.
	Strategy   string
	ModelPath  string
	LabelsPath string

	// Seed for the placeholder scorer; 0 seeds from the clock.
	Seed      int64
	MinArea   int
	Threshold int

	Quality  int
	DataURI  bool
	Clamp    bool
	BoxColor string

	OCR         bool
	OCRLanguage string

	MQTTBroker string
	MQTTTopic  string

	Debug bool
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Confidence:  DefaultConfidence,
		IoU:         DefaultIoU,
		Strategy:    StrategyAuto,
		MinArea:     detection.DefaultMinArea,
		Threshold:   int(detection.DefaultThreshold),
		Quality:     imaging.DefaultJPEGQuality,
		Clamp:       true,
		BoxColor:    imaging.DefaultBoxColor,
		OCRLanguage: ocr.DefaultLanguage,
		MQTTTopic:   publish.DefaultTopic,
	}
}

// Load returns the defaults overridden by SYMBOL_DETECT_* environment
// variables. Malformed numeric or boolean values are an error.
func Load() (*Config, error) {
	c := Default()
	var err error

	c.Strategy = getEnv("SYMBOL_DETECT_STRATEGY", c.Strategy)
	c.ModelPath = getEnv("SYMBOL_DETECT_MODEL", c.ModelPath)
	c.LabelsPath = getEnv("SYMBOL_DETECT_LABELS", c.LabelsPath)
	c.BoxColor = getEnv("SYMBOL_DETECT_BOX_COLOR", c.BoxColor)
	c.OCRLanguage = getEnv("SYMBOL_DETECT_OCR_LANG", c.OCRLanguage)
	c.MQTTBroker = getEnv("SYMBOL_DETECT_MQTT_BROKER", c.MQTTBroker)
	c.MQTTTopic = getEnv("SYMBOL_DETECT_MQTT_TOPIC", c.MQTTTopic)
	c.Debug = strings.EqualFold(getEnv("SYMBOL_DETECT_LOG_LEVEL", ""), "debug")

	if c.Confidence, err = getEnvFloat("SYMBOL_DETECT_CONF", c.Confidence); err != nil {
		return nil, err
	}
	if c.IoU, err = getEnvFloat("SYMBOL_DETECT_IOU", c.IoU); err != nil {
		return nil, err
	}
	if c.MinArea, err = getEnvInt("SYMBOL_DETECT_MIN_AREA", c.MinArea); err != nil {
		return nil, err
	}
	if c.Threshold, err = getEnvInt("SYMBOL_DETECT_THRESHOLD", c.Threshold); err != nil {
		return nil, err
	}
	if c.Quality, err = getEnvInt("SYMBOL_DETECT_QUALITY", c.Quality); err != nil {
		return nil, err
	}
	if c.DataURI, err = getEnvBool("SYMBOL_DETECT_DATA_URI", c.DataURI); err != nil {
		return nil, err
	}
	if c.Clamp, err = getEnvBool("SYMBOL_DETECT_CLAMP", c.Clamp); err != nil {
		return nil, err
	}
	if c.OCR, err = getEnvBool("SYMBOL_DETECT_OCR", c.OCR); err != nil {
		return nil, err
	}
	seed, err := getEnvInt("SYMBOL_DETECT_SEED", int(c.Seed))
	if err != nil {
		return nil, err
	}
	c.Seed = int64(seed)

	return c, nil
}

// Validate reports the first setting that is out of range.
func (c *Config) Validate() error {
	if !(c.Confidence > 0 && c.Confidence <= 1) {
		return fmt.Errorf("confidence threshold must be in (0, 1], got %g", c.Confidence)
	}
	if !(c.IoU > 0 && c.IoU <= 1) {
		return fmt.Errorf("IoU threshold must be in (0, 1], got %g", c.IoU)
	}
	switch c.Strategy {
	case StrategyAuto, StrategyHeuristic:
	case StrategyModel:
		if c.ModelPath == "" {
			return fmt.Errorf("strategy %q requires a model path", c.Strategy)
		}
	default:
		return fmt.Errorf("unknown strategy %q (want auto, heuristic or model)", c.Strategy)
	}
	if c.MinArea < 0 {
		return fmt.Errorf("minimum area must not be negative, got %d", c.MinArea)
	}
	if c.Threshold < 0 || c.Threshold > 255 {
		return fmt.Errorf("threshold must be in [0, 255], got %d", c.Threshold)
	}
	if c.Quality < 1 || c.Quality > 100 {
		return fmt.Errorf("JPEG quality must be in [1, 100], got %d", c.Quality)
	}
	if _, err := imaging.ParseColor(c.BoxColor); err != nil {
		return err
	}
	if c.OCR && c.OCRLanguage == "" {
		return fmt.Errorf("OCR enabled without a language")
	}
	return nil
}

// ResolvedStrategy returns the detector strategy auto resolves to.
func (c *Config) ResolvedStrategy() string {
	if c.Strategy != StrategyAuto {
		return c.Strategy
	}
	if c.ModelPath != "" {
		return StrategyModel
	}
	return StrategyHeuristic
}

// CheckImagePath rejects an empty image path. The format is decided by the
// file content when the image is decoded, not by its name.
func CheckImagePath(path string) error {
	if path == "" {
		return fmt.Errorf("image path is required")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) (float64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", key, val, err)
	}
	return f, nil
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", key, val, err)
	}
	return n, nil
}

func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("invalid %s=%q: %w", key, val, err)
	}
	return b, nil
}

package common

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// RECIPE_OCR_TESSERACT_LANG for ocr.tesseract_lang.
const EnvPrefix = "RECIPE"

// Config holds all application configuration
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	OCR      OCRConfig      `mapstructure:"ocr"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json text"`
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Pdftotext           string `mapstructure:"pdftotext"`
	Pdftoppm            string `mapstructure:"pdftoppm"`
	Tesseract           string `mapstructure:"tesseract"`
	TesseractLang       string `mapstructure:"tesseract_lang" validate:"required"`
	DPI                 int    `mapstructure:"dpi" validate:"min=72,max=1200"`
	MaxPages            int    `mapstructure:"max_pages" validate:"min=0"`
	TessdataDir         string `mapstructure:"tessdata_dir"`
	HeicConverter       string `mapstructure:"heic_converter" validate:"omitempty,oneof=heif-convert magick sips"`
	EnableTSVConfidence bool   `mapstructure:"enable_tsv_confidence"`
	PSM                 int    `mapstructure:"psm" validate:"min=0,max=13"`
	OEM                 int    `mapstructure:"oem" validate:"min=0,max=3"`
	MinTextDensity      int    `mapstructure:"min_text_density" validate:"min=1"`
	ArtifactCacheDir    string `mapstructure:"artifact_cache_dir"`
}

// PipelineConfig controls how files are scheduled and judged.
type PipelineConfig struct {
	Workers         int           `mapstructure:"workers" validate:"min=1,max=64"`
	QueueSize       int           `mapstructure:"queue_size" validate:"min=1"`
	Timeout         time.Duration `mapstructure:"timeout" validate:"min=0"`
	ReviewThreshold float64       `mapstructure:"review_threshold" validate:"min=0,max=1"`
	MaxTextBytes    int64         `mapstructure:"max_text_bytes" validate:"min=1"`
	Debounce        time.Duration `mapstructure:"debounce" validate:"min=0"`
	SkipHidden      bool          `mapstructure:"skip_hidden"`
}

// MetricsConfig configures the Prometheus endpoint of the watch command.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// LoadConfig loads configuration from defaults, an optional YAML file and
// RECIPE_* environment variables, in increasing priority. An empty path looks
// for recipe-extract.yaml in . and ./config; a missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("recipe-extract")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// conventional names used by tesseract and earlier deployments
	_ = v.BindEnv("ocr.tessdata_dir", EnvPrefix+"_OCR_TESSDATA_DIR", "TESSDATA_PREFIX")
	_ = v.BindEnv("ocr.heic_converter", EnvPrefix+"_OCR_HEIC_CONVERTER", "HEIC_CONVERTER")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, NewAppError(CodeConfig, "read config", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, NewAppError(CodeConfig, "unmarshal config", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("ocr.pdftotext", "pdftotext")
	v.SetDefault("ocr.pdftoppm", "pdftoppm")
	v.SetDefault("ocr.tesseract", "tesseract")
	v.SetDefault("ocr.tesseract_lang", "eng")
	v.SetDefault("ocr.dpi", 300)
	v.SetDefault("ocr.max_pages", 0)
	v.SetDefault("ocr.tessdata_dir", "")
	v.SetDefault("ocr.heic_converter", "magick")
	v.SetDefault("ocr.enable_tsv_confidence", false)
	v.SetDefault("ocr.psm", 0)
	v.SetDefault("ocr.oem", 0)
	v.SetDefault("ocr.min_text_density", 50)
	v.SetDefault("ocr.artifact_cache_dir", "./tmp")

	v.SetDefault("pipeline.workers", 4)
	v.SetDefault("pipeline.queue_size", 256)
	v.SetDefault("pipeline.timeout", "3m")
	v.SetDefault("pipeline.review_threshold", 0.6)
	v.SetDefault("pipeline.max_text_bytes", 4<<20)
	v.SetDefault("pipeline.debounce", "500ms")
	v.SetDefault("pipeline.skip_hidden", true)

	v.SetDefault("metrics.addr", "")
}

var configValidator = validator.New()

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s fails %q (got %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return NewAppError(CodeConfig, strings.Join(msgs, "; "), ErrInvalidInput)
		}
		return NewAppError(CodeConfig, "validate config", err)
	}
	return nil
}

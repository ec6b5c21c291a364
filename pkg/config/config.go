package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"BattFit/internal/domain/models"
	"BattFit/pkg/util"
)

type Config struct {
	Input struct {
		FirstCurveFile  string `yaml:"first_curve_file" validate:"required"`
		SecondCurveFile string `yaml:"second_curve_file" validate:"required"`
		SortBySOC       bool   `yaml:"sort_by_soc"`
	} `yaml:"input"`
	Battery struct {
		Capacity           int     `yaml:"capacity" validate:"ne=0"`
		FirstRateMultiple  float64 `yaml:"first_rate_multiple" default:"3"`
		SecondRateMultiple float64 `yaml:"second_rate_multiple" default:"4"`
	} `yaml:"battery"`
	Fit struct {
		GridPoints int `yaml:"grid_points" default:"100" validate:"gte=5"`
	} `yaml:"fit"`
	Output struct {
		Dir          string `yaml:"dir" default:"."`
		Plots        bool   `yaml:"plots" default:"true"`
		ReportFormat string `yaml:"report_format" default:"text" validate:"oneof=text json yaml"`
	} `yaml:"output"`
	Metrics struct {
		Textfile string `yaml:"textfile"`
	} `yaml:"metrics"`
	Log struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=trace debug info warn error fatal panic disabled"`
		Format string `yaml:"format" default:"console" validate:"oneof=console json"`
		Output string `yaml:"output" default:"stderr"`
	} `yaml:"log"`
}

var validate = validator.New()

// Default returns a config holding only default values.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("set defaults: %w", err)
	}
	return &c, nil
}

// Load reads a YAML configuration file on top of the defaults.
// Validation is left to the caller so later layers can fill required fields.
func Load(path string) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, models.FileError(models.StageConfig, path, err)
	}

	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, models.ParseErrorf(models.StageConfig, "%s: invalid yaml", path).WithError(err)
	}

	return c, nil
}

// ApplyEnv overrides config values from BATTFIT_* environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("BATTFIT_FIRST_CURVE_FILE"); v != "" {
		c.Input.FirstCurveFile = v
	}
	if v := getenv("BATTFIT_SECOND_CURVE_FILE"); v != "" {
		c.Input.SecondCurveFile = v
	}
	c.Input.SortBySOC = util.ParseBoolDefault(getenv("BATTFIT_SORT_INPUT"), c.Input.SortBySOC)
	c.Battery.Capacity = util.ParseIntDefault(getenv("BATTFIT_BATTERY_CAPACITY"), c.Battery.Capacity)
	c.Battery.FirstRateMultiple = util.ParseFloatDefault(getenv("BATTFIT_FIRST_RATE_MULTIPLE"), c.Battery.FirstRateMultiple)
	c.Battery.SecondRateMultiple = util.ParseFloatDefault(getenv("BATTFIT_SECOND_RATE_MULTIPLE"), c.Battery.SecondRateMultiple)
	c.Fit.GridPoints = util.ParseIntDefault(getenv("BATTFIT_GRID_POINTS"), c.Fit.GridPoints)
	c.Output.Plots = util.ParseBoolDefault(getenv("BATTFIT_PLOTS"), c.Output.Plots)
	if v := getenv("BATTFIT_REPORT_FORMAT"); v != "" {
		c.Output.ReportFormat = strings.ToLower(v)
	}
	if v := getenv("BATTFIT_OUTPUT_DIR"); v != "" {
		c.Output.Dir = v
	}
	if v := getenv("BATTFIT_METRICS_FILE"); v != "" {
		c.Metrics.Textfile = v
	}
	if v := getenv("BATTFIT_LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fieldMessage(fe))
			}
			return models.InvalidInputErrorf(models.StageConfig, "%s", strings.Join(msgs, "; "))
		}
		return models.InvalidInputErrorf(models.StageConfig, "invalid config").WithError(err)
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Namespace()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "ne":
		if fe.StructField() == "Capacity" {
			return fmt.Sprintf("%s must not be 0: a zero capacity makes both discharge rates equal", field)
		}
		return fmt.Sprintf("%s must not equal %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}

// FromArgs builds the run configuration. Later layers win:
// defaults, then the --config YAML file, then the environment, then explicit flags.
func FromArgs(args []string, getenv func(string) string, stderr io.Writer) (*Config, error) {
	fs := flag.NewFlagSet("battfit", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		configPath   = fs.String("config", "", "optional YAML config file")
		firstFile    = fs.String("first-curve-file", "", "CSV with the digitized discharge curve at the first rate")
		secondFile   = fs.String("second-curve-file", "", "CSV with the digitized discharge curve at a different rate")
		capacity     = fs.Int("battery-capacity", 0, "nominal capacity factor C")
		firstMult    = fs.Float64("first-rate-multiple", 3, "first discharge rate as a multiple of C")
		secondMult   = fs.Float64("second-rate-multiple", 4, "second discharge rate as a multiple of C")
		gridPoints   = fs.Int("grid-points", 100, "number of SOC grid points over [0, 1]")
		sortInput    = fs.Bool("sort-input", false, "sort curve rows by SOC after loading")
		outputDir    = fs.String("output-dir", ".", "directory for rendered plots")
		noPlots      = fs.Bool("no-plots", false, "skip plot rendering")
		reportFormat = fs.String("report-format", "text", "coefficient report format: text, json or yaml")
		metricsFile  = fs.String("metrics-file", "", "write Prometheus metrics textfile after the run")
		logLevel     = fs.String("log-level", "info", "log level")
	)

	if err := fs.Parse(args); err != nil {
		return nil, models.InvalidInputErrorf(models.StageConfig, "parse flags").WithError(err)
	}
	if fs.NArg() > 0 {
		return nil, models.InvalidInputErrorf(models.StageConfig, "unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	var (
		c   *Config
		err error
	)
	if *configPath != "" {
		c, err = Load(*configPath)
	} else {
		c, err = Default()
	}
	if err != nil {
		return nil, err
	}

	if getenv != nil {
		c.ApplyEnv(getenv)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "first-curve-file":
			c.Input.FirstCurveFile = *firstFile
		case "second-curve-file":
			c.Input.SecondCurveFile = *secondFile
		case "battery-capacity":
			c.Battery.Capacity = *capacity
		case "first-rate-multiple":
			c.Battery.FirstRateMultiple = *firstMult
		case "second-rate-multiple":
			c.Battery.SecondRateMultiple = *secondMult
		case "grid-points":
			c.Fit.GridPoints = *gridPoints
		case "sort-input":
			c.Input.SortBySOC = *sortInput
		case "output-dir":
			c.Output.Dir = *outputDir
		case "no-plots":
			c.Output.Plots = !*noPlots
		case "report-format":
			c.Output.ReportFormat = *reportFormat
		case "metrics-file":
			c.Metrics.Textfile = *metricsFile
		case "log-level":
			c.Log.Level = strings.ToLower(*logLevel)
		}
	})

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

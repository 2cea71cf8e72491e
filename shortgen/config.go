package shortgen

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"sigs.k8s.io/yaml"

	"github.com/broady/shortname/shortgen/golang"
)

// Config holds the configuration for code generation.
type Config struct {
	// Packages are the Go package patterns to analyze.
	// e.g. []string{"./internal/shapes", "github.com/myorg/app/..."}
	Packages []string `json:"packages" validate:"required,min=1,dive,required"`

	// Types restricts generation to the named types, looked up in every
	// package. Empty means every type carrying a //shortname:derive directive.
	Types []string `json:"types,omitempty" validate:"dive,required"`

	// OutFile is the name of the file written into each package directory.
	// Default: "shortname_gen.go"
	OutFile string `json:"outFile,omitempty" validate:"required,endswith=.go,excludesall=/\\"`

	// EmitComments adds doc comments to generated methods.
	EmitComments bool `json:"emitComments,omitempty"`

	// Dir is the working directory for resolving Packages and the root that
	// output paths are relative to. Default: the current directory, or the
	// config file's directory when loaded with LoadConfig.
	Dir string `json:"dir,omitempty"`

	// Logger receives warnings and progress. If nil, slog.Default() is used.
	Logger *slog.Logger `json:"-" validate:"-"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// applyConfigDefaults applies default values to Config.
func applyConfigDefaults(cfg *Config) *Config {
	// Copy so the caller's Config is not mutated.
	result := *cfg

	if result.OutFile == "" {
		result.OutFile = golang.DefaultOutFile
	}
	if result.Logger == nil {
		result.Logger = slog.Default()
	}

	return &result
}

// Validate reports every invalid field of cfg. Defaults are applied first,
// so an empty OutFile is valid.
func (cfg *Config) Validate() error {
	err := validate.Struct(applyConfigDefaults(cfg))
	if err == nil {
		return nil
	}

	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return err
	}
	msgs := make([]string, 0, len(valErrs))
	for _, ve := range valErrs {
		msgs = append(msgs, ve.Field()+": "+formatValidationError(ve))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// formatValidationError converts a validator.FieldError to a human-readable message.
func formatValidationError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "required"
	case "min":
		return fmt.Sprintf("must have at least %s entries", ve.Param())
	case "endswith":
		return fmt.Sprintf("must end with %s", ve.Param())
	case "excludesall":
		return "must be a bare file name"
	default:
		if ve.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", ve.Tag(), ve.Param())
		}
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}

// root returns the absolute directory output paths are relative to.
func (cfg *Config) root() (string, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "."
	}
	return filepath.Abs(dir)
}

// LoadConfig reads a YAML config file. Unknown keys are rejected.
// A relative or empty dir is resolved against the file's directory.
//
// Example:
//
//	packages:
//	  - ./internal/shapes
//	outFile: names_gen.go
//	emitComments: true
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if !filepath.IsAbs(cfg.Dir) {
		cfg.Dir = filepath.Join(filepath.Dir(path), cfg.Dir)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

var valuesDecoder = newValuesDecoder()

func newValuesDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.SetAliasTag("json")
	d.IgnoreUnknownKeys(false)
	return d
}

// ApplyValues overlays key=value settings onto cfg, using the same keys as
// the YAML config. A repeated key sets every element of a list field.
//
//	packages=./a&packages=./b&emitComments=true
func ApplyValues(cfg *Config, values url.Values) error {
	if len(values) == 0 {
		return nil
	}
	if err := valuesDecoder.Decode(cfg, values); err != nil {
		return fmt.Errorf("invalid setting: %w", err)
	}
	return nil
}

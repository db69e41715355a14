package doctor

import (
	"context"
	"errors"
	"os"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/stride/internal/core/config"
)

// ConfigCheck validates the loaded configuration. The config may have been
// read without validation so field errors surface here instead of aborting
// startup.
type ConfigCheck struct {
	config     *config.Config
	configPath string
}

// NewConfigCheck creates a new configuration check.
func NewConfigCheck(cfg *config.Config, configPath string) *ConfigCheck {
	return &ConfigCheck{config: cfg, configPath: configPath}
}

func (c *ConfigCheck) Name() string { return "Configuration" }

func (c *ConfigCheck) Run(context.Context) Result {
	result := Result{Name: c.Name()}

	if c.config == nil {
		result.Items = append(result.Items, fail("Config loaded", "configuration not loaded"))
		return result
	}

	if _, err := os.Stat(c.configPath); err != nil {
		result.Items = append(result.Items, warn("Config file", "not found, using defaults"))
	} else {
		result.Items = append(result.Items, pass("Config file", c.configPath))
	}

	result.Items = append(result.Items, validationItems(c.config.Validate())...)
	return result
}

// validationItems yields one failing item per field error, or a single
// passing item.
func validationItems(err error) []CheckItem {
	if err == nil {
		return []CheckItem{pass("Config valid", "")}
	}

	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		return []CheckItem{fail("validation", err.Error())}
	}

	items := make([]CheckItem, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		label := fe.Field
		if label == "" {
			label = "validation"
		}
		items = append(items, fail(label, fe.Err.Error()))
	}
	return items
}

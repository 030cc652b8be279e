package doctor

import (
	"context"
	"fmt"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/proftune/internal/errors"
	"github.com/thoreinstein/proftune/internal/preset"
)

// CatalogueCheck loads the preset catalogue, including the user file.
type CatalogueCheck struct {
	file string
}

var _ Check = (*CatalogueCheck)(nil)

// NewCatalogueCheck creates a catalogue check. file is presets.file from
// the config, possibly empty.
func NewCatalogueCheck(file string) *CatalogueCheck {
	return &CatalogueCheck{file: file}
}

// Name returns the unique identifier for this check.
func (c *CatalogueCheck) Name() string {
	return "preset-catalogue"
}

// Category returns the grouping for this check.
func (c *CatalogueCheck) Category() string {
	return "presets"
}

// Run loads and validates the catalogue.
func (c *CatalogueCheck) Run(_ context.Context) *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details:  make(map[string]any),
	}
	if c.file != "" {
		result.Details["file"] = c.file
	}

	cat, err := preset.LoadCatalogue(c.file)
	if err != nil {
		result.Status = SeverityError
		result.Message = formatCatalogueError(err)
		return result
	}

	result.Details["presets"] = cat.IDs()
	result.Details["rules"] = len(cat.Rules())
	result.Details["schema_version"] = cat.Version()
	result.Status = SeverityPass
	result.Message = fmt.Sprintf("%d presets, schema %s", len(cat.IDs()), cat.Version())
	return result
}

// formatCatalogueError extracts position information from decode errors.
func formatCatalogueError(err error) string {
	// go-toml/v2 DecodeError includes line/column via Position() method
	var decodeErr *toml.DecodeError
	if errors.As(err, &decodeErr) {
		row, col := decodeErr.Position()
		return fmt.Sprintf("TOML syntax error at line %d, column %d: %s", row, col, decodeErr.Error())
	}

	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) {
		return fmt.Sprintf("YAML type error: %v", typeErr.Errors)
	}

	return err.Error()
}

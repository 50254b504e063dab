package config

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/assessor/pkg/domain/model"
	"github.com/secmon-lab/assessor/pkg/domain/types"
	"gopkg.in/yaml.v3"
)

// Format is the serialization of a catalog file
type Format string

const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath detects the catalog format from the file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", goerr.Wrap(ErrUnsupportedFormat, "catalog must be .toml, .json, .yaml or .yml", goerr.V(ConfigPathKey, path))
	}
}

// CatalogFile represents the catalog definition file
type CatalogFile struct {
	Version    string           `toml:"version" json:"version" yaml:"version"`
	Policy     *PolicyConfig    `toml:"policy" json:"policy,omitempty" yaml:"policy,omitempty"`
	Categories []CategoryConfig `toml:"category" json:"categories" yaml:"categories"`
}

// PolicyConfig overrides the default scoring policy. Omitted values keep
// their default.
type PolicyConfig struct {
	LowMin            *float64 `toml:"low_min" json:"low_min,omitempty" yaml:"low_min,omitempty"`
	MediumMin         *float64 `toml:"medium_min" json:"medium_min,omitempty" yaml:"medium_min,omitempty"`
	HighMin           *float64 `toml:"high_min" json:"high_min,omitempty" yaml:"high_min,omitempty"`
	AdequacyRatio     *float64 `toml:"adequacy_ratio" json:"adequacy_ratio,omitempty" yaml:"adequacy_ratio,omitempty"`
	HighSeverityRatio *float64 `toml:"high_severity_ratio" json:"high_severity_ratio,omitempty" yaml:"high_severity_ratio,omitempty"`
}

// CategoryConfig represents a category of the catalog file
type CategoryConfig struct {
	ID        string           `toml:"id" json:"id" yaml:"id"`
	Name      types.Localized  `toml:"name" json:"name" yaml:"name"`
	Weight    float64          `toml:"weight" json:"weight" yaml:"weight"`
	Questions []QuestionConfig `toml:"question" json:"questions" yaml:"questions"`
}

// QuestionConfig represents a question of the catalog file
type QuestionConfig struct {
	ID       string          `toml:"id" json:"id" yaml:"id"`
	Text     types.Localized `toml:"text" json:"text" yaml:"text"`
	Standard []string        `toml:"standard" json:"standard" yaml:"standard"`
	Weight   *float64        `toml:"weight" json:"weight,omitempty" yaml:"weight,omitempty"`
	Options  []OptionConfig  `toml:"option" json:"options" yaml:"options"`
}

// OptionConfig represents an answer option of the catalog file. Value is a
// string or a number in every format; numbers are canonicalised by
// types.OptionValueOf.
type OptionConfig struct {
	Value  any             `toml:"value" json:"value" yaml:"value"`
	Label  types.Localized `toml:"label" json:"label" yaml:"label"`
	Weight float64         `toml:"weight" json:"weight" yaml:"weight"`
	Weak   bool            `toml:"weak" json:"weak,omitempty" yaml:"weak,omitempty"`
}

// Validate checks the file-level requirements. Structural rules of the
// catalog itself are enforced by model.NewCatalog.
func (f *CatalogFile) Validate() error {
	if strings.TrimSpace(f.Version) == "" {
		return goerr.Wrap(ErrInvalidConfig, "catalog version is required")
	}
	if len(f.Categories) == 0 {
		return goerr.Wrap(ErrInvalidConfig, "catalog has no category", goerr.V(model.VersionKey, f.Version))
	}
	return nil
}

// ToPolicy applies the overrides to the default policy
func (p *PolicyConfig) ToPolicy() model.Policy {
	policy := model.DefaultPolicy()
	if p == nil {
		return policy
	}

	for _, o := range []struct {
		src *float64
		dst *float64
	}{
		{p.LowMin, &policy.LowMin},
		{p.MediumMin, &policy.MediumMin},
		{p.HighMin, &policy.HighMin},
		{p.AdequacyRatio, &policy.AdequacyRatio},
		{p.HighSeverityRatio, &policy.HighSeverityRatio},
	} {
		if o.src != nil {
			*o.dst = *o.src
		}
	}
	return policy
}

// ToDomain validates the file and builds the immutable catalog
func (f *CatalogFile) ToDomain() (*model.Catalog, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	categories := make([]model.Category, len(f.Categories))
	for i, cat := range f.Categories {
		questions := make([]model.Question, len(cat.Questions))
		for j, q := range cat.Questions {
			weight := 1.0
			if q.Weight != nil {
				weight = *q.Weight
			}

			options := make([]model.Option, len(q.Options))
			for k, opt := range q.Options {
				value, err := types.OptionValueOf(opt.Value)
				if err != nil {
					return nil, goerr.Wrap(ErrInvalidConfig, err.Error(),
						goerr.V("category_id", cat.ID),
						goerr.V("question_id", q.ID))
				}
				options[k] = model.Option{
					Value:  value,
					Label:  opt.Label,
					Weight: opt.Weight,
					Weak:   opt.Weak,
				}
			}

			questions[j] = model.Question{
				ID:       types.QuestionID(q.ID),
				Text:     q.Text,
				Standard: q.Standard,
				Weight:   weight,
				Options:  options,
			}
		}

		categories[i] = model.Category{
			ID:        types.CategoryID(cat.ID),
			Name:      cat.Name,
			Weight:    cat.Weight,
			Questions: questions,
		}
	}

	catalog, err := model.NewCatalog(f.Version, f.Policy.ToPolicy(), categories)
	if err != nil {
		return nil, goerr.Wrap(err, "catalog validation failed")
	}
	return catalog, nil
}

// ParseCatalogFile decodes a catalog definition. Unknown keys are rejected
// so that typos do not silently drop questions.
func ParseCatalogFile(data []byte, format Format) (*CatalogFile, error) {
	var file CatalogFile

	switch format {
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&file); err != nil {
			return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML catalog: "+err.Error(), goerr.V(FormatKey, format))
		}

	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&file); err != nil {
			return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse JSON catalog: "+err.Error(), goerr.V(FormatKey, format))
		}

	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&file); err != nil {
			return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse YAML catalog: "+err.Error(), goerr.V(FormatKey, format))
		}

	default:
		return nil, goerr.Wrap(ErrUnsupportedFormat, "unknown catalog format", goerr.V(FormatKey, format))
	}

	return &file, nil
}

// LoadCatalog parses and validates a catalog definition
func LoadCatalog(data []byte, format Format) (*model.Catalog, error) {
	file, err := ParseCatalogFile(data, format)
	if err != nil {
		return nil, err
	}
	return file.ToDomain()
}

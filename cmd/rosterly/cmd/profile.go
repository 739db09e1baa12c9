package cmd

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/rosterly/rosterly"
	"github.com/rosterly/rosterly/pkg/errors"
	"github.com/rosterly/rosterly/pkg/match"
	"github.com/rosterly/rosterly/pkg/roster"
	"github.com/rosterly/rosterly/pkg/standardize"
)

// Profile is the YAML run profile: both column mappings, the room-type
// equivalence groups and the matching options for one reconciliation.
type Profile struct {
	Left      MappingConfig       `yaml:"left"`
	Right     MappingConfig       `yaml:"right"`
	Options   OptionsConfig       `yaml:"options"`
	RoomTypes map[string][]string `yaml:"room_types"`
}

// MappingConfig selects the source columns for one side.
type MappingConfig struct {
	Name       string `yaml:"name"`
	StartDate  string `yaml:"start_date"`
	EndDate    string `yaml:"end_date"`
	RoomType   string `yaml:"room_type"`
	RoomNumber string `yaml:"room_number"`
	Price      string `yaml:"price"`
}

// FieldMapping converts the YAML form to the engine's mapping.
func (m MappingConfig) FieldMapping() roster.FieldMapping {
	return roster.FieldMapping{
		Name:       m.Name,
		StartDate:  m.StartDate,
		EndDate:    m.EndDate,
		RoomType:   m.RoomType,
		RoomNumber: m.RoomNumber,
		Price:      m.Price,
	}
}

// OptionsConfig is the YAML form of the engine options. Pointer fields
// distinguish "absent, use the default" from an explicit value.
type OptionsConfig struct {
	CaseInsensitiveNames *bool    `yaml:"case_insensitive_names"`
	MatchMode            string   `yaml:"match_mode"`
	SimilarityThreshold  *int     `yaml:"similarity_threshold"`
	CompareFields        []string `yaml:"compare_fields"`
	DefaultYear          int      `yaml:"default_year"`
}

// LoadProfile reads and parses a run profile file.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	return &p, nil
}

// EngineOptions converts the profile into engine options.
func (p *Profile) EngineOptions() ([]rosterly.Option, error) {
	var opts []rosterly.Option

	if p.Options.CaseInsensitiveNames != nil && !*p.Options.CaseInsensitiveNames {
		opts = append(opts, rosterly.WithCaseSensitiveNames())
	}

	if p.Options.MatchMode != "" {
		mode, err := match.ParseMode(p.Options.MatchMode)
		if err != nil {
			return nil, err
		}
		if mode == match.ModeFuzzy {
			threshold := rosterly.DefaultThreshold
			if p.Options.SimilarityThreshold != nil {
				threshold = *p.Options.SimilarityThreshold
			}
			opts = append(opts, rosterly.WithFuzzyMatching(threshold))
		} else {
			opts = append(opts, rosterly.WithMatchMode(mode))
		}
	}

	if len(p.Options.CompareFields) > 0 {
		fields := make([]roster.Field, 0, len(p.Options.CompareFields))
		for _, raw := range p.Options.CompareFields {
			f, err := roster.ParseField(raw)
			if err != nil {
				return nil, err
			}
			fields = append(fields, f)
		}
		opts = append(opts, rosterly.WithCompareFields(fields...))
	}

	if p.Options.DefaultYear != 0 {
		opts = append(opts, rosterly.WithDefaultYear(p.Options.DefaultYear))
	}

	if len(p.RoomTypes) > 0 {
		opts = append(opts, rosterly.WithEquivalences(standardize.Equivalences(p.RoomTypes)))
	}

	return opts, nil
}

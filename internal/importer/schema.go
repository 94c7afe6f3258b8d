package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// PlanFile is the on-disk definition of a plan, in JSON or YAML.
type PlanFile struct {
	Name         string          `json:"name" yaml:"name"`
	Description  string          `json:"description,omitempty" yaml:"description,omitempty"`
	StartDate    string          `json:"start_date" yaml:"start_date"`
	CompleteDate string          `json:"complete_date" yaml:"complete_date"`
	Conditions   []ConditionFile `json:"conditions" yaml:"conditions"`
}

// ConditionFile defines one plan condition. EstTime is in minutes.
type ConditionFile struct {
	Name     string `json:"name" yaml:"name"`
	Overview string `json:"overview,omitempty" yaml:"overview,omitempty"`
	EstTime  int    `json:"est_time" yaml:"est_time"`
}

// LoadPlanFile reads a plan definition, choosing the decoder by extension:
// .yaml and .yml are YAML, anything else is JSON.
func LoadPlanFile(path string) (*PlanFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParsePlanFile(data, filepath.Ext(path))
}

// ParsePlanFile decodes data using the format implied by ext.
func ParsePlanFile(data []byte, ext string) (*PlanFile, error) {
	var pf PlanFile
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &pf); err != nil {
			return nil, fmt.Errorf("parsing plan file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &pf); err != nil {
			return nil, fmt.Errorf("parsing plan file: %w", err)
		}
	}
	return &pf, nil
}

package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// JobRecord is one job posting as stored in the job table.
type JobRecord struct {
	ID             string    `json:"id" yaml:"id"`
	Title          string    `json:"title" yaml:"title" validate:"required,max=300"`
	Skills         SkillList `json:"skills" yaml:"skills"`
	CompanyName    string    `json:"company_name" yaml:"company_name" validate:"max=200"`
	Country        string    `json:"country" yaml:"country"`
	City           string    `json:"city" yaml:"city"`
	Category       string    `json:"category" yaml:"category"`
	Experience     string    `json:"experience" yaml:"experience"`
	EmploymentType string    `json:"employment_type" yaml:"employment_type"`
	Salary         string    `json:"salary" yaml:"salary"`
	Description    string    `json:"description,omitempty" yaml:"description"`
	ApplyURL       string    `json:"apply_url,omitempty" yaml:"apply_url" validate:"omitempty,url"`
	CreatedAt      time.Time `json:"created_at" yaml:"created_at"`
}

// SkillList is the skill tags of a job. Sources deliver it either as a list
// or as a single comma-joined string; both decode to the same list.
type SkillList []string

// ParseSkills splits a comma-joined skill string.
func ParseSkills(s string) SkillList {
	parts := strings.Split(s, ",")
	out := make(SkillList, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// String renders the comma-joined storage form.
func (s SkillList) String() string {
	return strings.Join(s, ", ")
}

// Normalized returns lower-cased, trimmed, non-empty skills.
func (s SkillList) Normalized() []string {
	out := make([]string, 0, len(s))
	for _, sk := range s {
		sk = strings.ToLower(strings.TrimSpace(sk))
		if sk == "" {
			continue
		}
		out = append(out, sk)
	}
	return out
}

func (s *SkillList) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*s = nil
	case string:
		*s = ParseSkills(v)
	case []any:
		out := make(SkillList, 0, len(v))
		for i, item := range v {
			str, ok := item.(string)
			if !ok {
				return fmt.Errorf("skills[%d]: expected string, got %T", i, item)
			}
			out = append(out, ParseSkills(str)...)
		}
		*s = out
	default:
		return fmt.Errorf("skills: expected string or array, got %T", raw)
	}
	return nil
}

func (s *SkillList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			*s = nil
			return nil
		}
		*s = ParseSkills(value.Value)
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return fmt.Errorf("skills: %w", err)
		}
		out := make(SkillList, 0, len(items))
		for _, item := range items {
			out = append(out, ParseSkills(item)...)
		}
		*s = out
		return nil
	default:
		return fmt.Errorf("skills: line %d: expected string or list", value.Line)
	}
}

// Package ingest decodes job files and cleans records before they are stored.
package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"remotejobs-engine/internal/domain"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the decoder by file extension; anything that is not
// .json is read as YAML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// file accepts both a bare list and {jobs: [...]}.
type file struct {
	Jobs []domain.JobRecord `json:"jobs" yaml:"jobs"`
}

func Decode(r io.Reader, format Format) ([]domain.JobRecord, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return []domain.JobRecord{}, nil
	}

	var jobs []domain.JobRecord
	switch format {
	case FormatJSON:
		if b[0] == '[' {
			err = json.Unmarshal(b, &jobs)
		} else {
			var f file
			err = json.Unmarshal(b, &f)
			jobs = f.Jobs
		}
	case FormatYAML:
		var probe yaml.Node
		if err = yaml.Unmarshal(b, &probe); err != nil {
			break
		}
		if len(probe.Content) > 0 && probe.Content[0].Kind == yaml.SequenceNode {
			err = probe.Decode(&jobs)
		} else {
			var f file
			err = probe.Decode(&f)
			jobs = f.Jobs
		}
	default:
		return nil, fmt.Errorf("unknown job file format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s jobs: %w", format, err)
	}
	if jobs == nil {
		jobs = []domain.JobRecord{}
	}
	return jobs, nil
}

func DecodeFile(path string) ([]domain.JobRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f, FormatFromPath(path))
}

// Rejection explains why one input record was not imported.
type Rejection struct {
	Index  int    `json:"index"`
	ID     string `json:"id,omitempty"`
	Reason string `json:"reason"`
}

type Importer struct {
	validate *validator.Validate
	Now      func() time.Time
	NewID    func() string
}

func NewImporter() *Importer {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Importer{
		validate: v,
		Now:      time.Now,
		NewID:    uuid.NewString,
	}
}

// Prepare cleans every record and splits the batch into records ready for
// storage and per-record rejections. One bad record never fails the batch.
func (im *Importer) Prepare(jobs []domain.JobRecord) ([]domain.JobRecord, []Rejection) {
	ok := make([]domain.JobRecord, 0, len(jobs))
	var rejected []Rejection
	seen := map[string]int{}

	for i, j := range jobs {
		j = im.clean(j)
		if err := im.validate.Struct(j); err != nil {
			rejected = append(rejected, Rejection{Index: i, ID: j.ID, Reason: validationReason(err)})
			continue
		}
		if first, dup := seen[j.ID]; dup {
			rejected = append(rejected, Rejection{Index: i, ID: j.ID, Reason: fmt.Sprintf("duplicate id (first at %d)", first)})
			continue
		}
		seen[j.ID] = i
		ok = append(ok, j)
	}
	return ok, rejected
}

func (im *Importer) clean(j domain.JobRecord) domain.JobRecord {
	j.ID = strings.TrimSpace(j.ID)
	if j.ID == "" {
		j.ID = im.NewID()
	}
	j.Title = CleanText(j.Title)
	j.CompanyName = CleanText(j.CompanyName)
	j.Country = CleanText(j.Country)
	j.City = NormalizeLocation(j.City)
	j.Category = CleanText(j.Category)
	j.Experience = CleanText(j.Experience)
	j.EmploymentType = CleanText(j.EmploymentType)
	j.Salary = CleanText(j.Salary)
	j.Description = HTMLToText(j.Description)
	j.ApplyURL = canonicalizeURL(j.ApplyURL)
	j.Skills = dedupeSkills(j.Skills)
	if j.CreatedAt.IsZero() {
		j.CreatedAt = im.Now()
	}
	j.CreatedAt = j.CreatedAt.UTC().Truncate(time.Second)
	return j
}

func dedupeSkills(in domain.SkillList) domain.SkillList {
	out := make(domain.SkillList, 0, len(in))
	seen := map[string]bool{}
	for _, s := range in {
		s = CleanText(s)
		k := strings.ToLower(s)
		if s == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, s)
	}
	return out
}

func validationReason(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return err.Error()
	}
	parts := make([]string, 0, len(ve))
	for _, fe := range ve {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

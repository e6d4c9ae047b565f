// Package catalog holds the static school configuration: subjects, classes, terms & the grading table.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/grading"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Subject categories
const (
	CategoryLanguages  = "Languages"
	CategorySciences   = "Sciences"
	CategoryHumanities = "Humanities"
	CategoryTechnical  = "Technical"
)

var Categories = []string{CategoryLanguages, CategorySciences, CategoryHumanities, CategoryTechnical}

type Subject struct {
	ID       string `json:"id" yaml:"id" validate:"required"`
	Name     string `json:"name" yaml:"name" validate:"required"`
	Code     string `json:"code" yaml:"code" validate:"required"`
	Category string `json:"category" yaml:"category" validate:"oneof=Languages Sciences Humanities Technical"`
}

type ClassRoom struct {
	ID        string `json:"id" yaml:"id" validate:"required"`
	Name      string `json:"name" yaml:"name" validate:"required"` // grade level, e.g. "Form 1"
	Stream    string `json:"stream" yaml:"stream" validate:"required"`
	TeacherID string `json:"teacher_id" yaml:"teacher_id"`
}

// DisplayName returns e.g. "Form 1 North".
func (c ClassRoom) DisplayName() string {
	return c.Name + " " + c.Stream
}

type Catalog struct {
	Terms    []string       `json:"terms" yaml:"terms" validate:"min=1,dive,required"`
	Subjects []Subject      `json:"subjects" yaml:"subjects" validate:"min=1,dive"`
	Classes  []ClassRoom    `json:"classes" yaml:"classes" validate:"min=1,dive"`
	Grading  grading.Policy `json:"grading" yaml:"grading"`
	bySubj   map[string]int // subject id -> index
	byClass  map[string]int // class id -> index
	byTerm   map[string]int // term -> index
}

// Default returns the embedded catalog.
func Default() *Catalog {
	cat, err := Load(bytes.NewReader(defaultCatalog))
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded catalog is invalid: %v", err))
	}
	return cat
}

// LoadFile loads a catalog from a YAML file; an empty path means the embedded catalog.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening catalog")
	}
	defer func() { _ = f.Close() }()
	return Load(f)
}

// Load parses and validates a YAML catalog.
func Load(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading catalog")
	}
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, errors.Wrap(err, "decoding catalog")
	}
	if err := core.ValidateStruct(cat); err != nil {
		return nil, err
	}
	if cat.Grading, err = grading.NewPolicy(cat.Grading); err != nil {
		return nil, errors.Wrap(err, "grading")
	}
	if err := cat.index(); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (c *Catalog) index() error {
	c.bySubj = make(map[string]int, len(c.Subjects))
	for i, s := range c.Subjects {
		if _, dup := c.bySubj[s.ID]; dup {
			return core.NewValidationError(nil, core.FieldError{Field: "subjects", Error: "duplicate subject " + s.ID})
		}
		c.bySubj[s.ID] = i
	}
	c.byClass = make(map[string]int, len(c.Classes))
	for i, cls := range c.Classes {
		if _, dup := c.byClass[cls.ID]; dup {
			return core.NewValidationError(nil, core.FieldError{Field: "classes", Error: "duplicate class " + cls.ID})
		}
		c.byClass[cls.ID] = i
	}
	c.byTerm = make(map[string]int, len(c.Terms))
	for i, term := range c.Terms {
		if _, dup := c.byTerm[term]; dup {
			return core.NewValidationError(nil, core.FieldError{Field: "terms", Error: "duplicate term " + term})
		}
		c.byTerm[term] = i
	}
	return nil
}

func (c *Catalog) Subject(id string) (Subject, bool) {
	i, ok := c.bySubj[id]
	if !ok {
		return Subject{}, false
	}
	return c.Subjects[i], true
}

// SubjectName returns the subject's display name, or the id if unknown.
func (c *Catalog) SubjectName(id string) string {
	if s, ok := c.Subject(id); ok {
		return s.Name
	}
	return id
}

func (c *Catalog) Class(id string) (ClassRoom, bool) {
	i, ok := c.byClass[id]
	if !ok {
		return ClassRoom{}, false
	}
	return c.Classes[i], true
}

func (c *Catalog) HasTerm(term string) bool {
	_, ok := c.byTerm[term]
	return ok
}

// TermNumber returns the 1-based position of term, 0 if unknown.
func (c *Catalog) TermNumber(term string) int {
	i, ok := c.byTerm[term]
	if !ok {
		return 0
	}
	return i + 1
}

// ReferenceTerm is the term at-risk classification looks at.
func (c *Catalog) ReferenceTerm() string {
	return c.Terms[0]
}

// CompletedTerms returns every term but the most recent one.
func (c *Catalog) CompletedTerms() []string {
	return c.Terms[:len(c.Terms)-1]
}

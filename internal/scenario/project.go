package scenario

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// MasterScenario is the name of the baseline scenario in a project file.
const MasterScenario = "master"

// Project is an ordered set of named scenarios loaded from one file.
type Project struct {
	// Names lists scenarios with MasterScenario first, then the rest sorted.
	Names []string

	// Scenarios maps each name to its record.
	Scenarios map[string]Record

	// Wrapped is true when the file held several scenarios keyed by name.
	Wrapped bool
}

// LoadProject reads a JSON file holding either a single scenario record or an
// object of scenarios keyed by name with a "master" entry.
func LoadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	rec, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ProjectFromRecord(rec, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))), nil
}

// ProjectFromRecord interprets a decoded document as a project. A single
// scenario is named fallbackName.
func ProjectFromRecord(doc Record, fallbackName string) *Project {
	if isProjectDocument(doc) {
		p := &Project{Scenarios: map[string]Record{}, Wrapped: true}
		for name := range doc {
			p.Scenarios[name] = doc.Sub(name)
		}
		p.Names = orderedNames(p.Scenarios)
		return p
	}

	return &Project{
		Names:     []string{fallbackName},
		Scenarios: map[string]Record{fallbackName: doc},
	}
}

// Document returns the project in the shape it was loaded from.
func (p *Project) Document() Record {
	if !p.Wrapped && len(p.Names) == 1 {
		return p.Scenarios[p.Names[0]]
	}
	doc := Record{}
	for name, rec := range p.Scenarios {
		doc[name] = map[string]any(rec)
	}
	return doc
}

func isProjectDocument(doc Record) bool {
	if _, ok := asMap(doc[MasterScenario]); !ok {
		return false
	}
	for _, v := range doc {
		if _, ok := asMap(v); !ok {
			return false
		}
	}
	return true
}

func orderedNames(scenarios map[string]Record) []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		if name != MasterScenario {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if _, ok := scenarios[MasterScenario]; ok {
		names = append([]string{MasterScenario}, names...)
	}
	return names
}

// Package declfile reads procedure declarations from YAML so procedures can be
// called without a Go entity type:
//
//	procedures:
//	  - name: bank.transfer
//	    parameters:
//	      - {name: account, position: 1, type: bigint}
//	      - {name: status, position: 2, direction: out}
//	  - name: bank.balance_of
//	    function: true
//	    parameters:
//	      - {name: amount, position: 1, type: numeric, direction: out}
//	      - {name: account, position: 2, type: bigint}
package declfile

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/ignaciocaff/procmap/internal/core"
)

// File is the YAML document.
type File struct {
	Procedures []Procedure `yaml:"procedures"`
}

// Procedure declares one stored procedure or function.
type Procedure struct {
	Name       string      `yaml:"name"`
	Function   bool        `yaml:"function"`
	Parameters []Parameter `yaml:"parameters"`
}

// Parameter declares one call parameter.
type Parameter struct {
	Name      string `yaml:"name"`
	Position  int    `yaml:"position"`
	Type      string `yaml:"type"`
	Direction string `yaml:"direction"`
}

// Catalog holds validated declarations by procedure name.
type Catalog struct {
	procs map[string]*declared
}

type declared struct {
	proc   core.Procedure
	params []core.Parameter
}

// Load reads and validates a declaration file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cat, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}

// Parse reads and validates a declaration document.
func Parse(r io.Reader) (*Catalog, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, err
	}
	cat := &Catalog{procs: make(map[string]*declared, len(f.Procedures))}
	for _, p := range f.Procedures {
		d, err := compile(p)
		if err != nil {
			return nil, err
		}
		if _, dup := cat.procs[p.Name]; dup {
			return nil, fmt.Errorf("procedure %q declared twice", p.Name)
		}
		cat.procs[p.Name] = d
	}
	return cat, nil
}

func compile(p Procedure) (*declared, error) {
	if p.Name == "" {
		return nil, fmt.Errorf("procedure without a name")
	}
	d := &declared{proc: core.Procedure{Name: p.Name, IsProcedure: !p.Function}}
	names := make(map[string]bool, len(p.Parameters))
	for _, pp := range p.Parameters {
		if pp.Name == "" {
			return nil, fmt.Errorf("%s: parameter at position %d has no name", p.Name, pp.Position)
		}
		if names[pp.Name] {
			return nil, fmt.Errorf("%s: parameter %q declared twice", p.Name, pp.Name)
		}
		names[pp.Name] = true
		if pp.Position < 1 {
			return nil, fmt.Errorf("%s.%s: position must be positive", p.Name, pp.Name)
		}
		typ, err := core.ParseSQLType(pp.Type)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", p.Name, pp.Name, err)
		}
		dir, err := core.ParseDirection(pp.Direction)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", p.Name, pp.Name, err)
		}
		d.params = append(d.params, recordParameter(pp.Name, pp.Position, typ, dir))
	}
	return d, nil
}

// Names returns the declared procedure names, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.procs))
	for n := range c.procs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Record returns an empty record for the named procedure.
func (c *Catalog) Record(name string) (*Record, error) {
	d, ok := c.procs[name]
	if !ok {
		return nil, fmt.Errorf("procedure %q is not declared", name)
	}
	return &Record{decl: d, values: make(map[string]any)}, nil
}

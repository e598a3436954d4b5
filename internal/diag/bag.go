package diag

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"gopkg.in/yaml.v2"

	"github.com/you-not-fish/kestrel/internal/syntax"
)

// Bag is an append-only diagnostic sink. It is safe for concurrent use, so
// several functions may be analyzed in parallel against one Bag.
type Bag struct {
	mu       sync.Mutex
	list     []Diagnostic
	errors   int
	warnings int

	// WarningsAsErrors promotes every reported warning to an error.
	WarningsAsErrors bool
}

// Report adds d to the bag.
func (b *Bag) Report(d Diagnostic) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.WarningsAsErrors && d.Severity == SeverityWarning {
		d.Severity = SeverityError
	}
	if d.IsError() {
		b.errors++
	} else {
		b.warnings++
	}
	b.list = append(b.list, d)
}

// Errorf reports an error.
func (b *Bag) Errorf(stage Stage, code Code, pos syntax.Pos, format string, args ...interface{}) {
	b.Report(Errorf(stage, code, pos, format, args...))
}

// Warningf reports a warning.
func (b *Bag) Warningf(stage Stage, code Code, pos syntax.Pos, format string, args ...interface{}) {
	b.Report(Warningf(stage, code, pos, format, args...))
}

// Errors returns the number of errors reported so far.
func (b *Bag) Errors() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.errors
}

// Warnings returns the number of warnings reported so far.
func (b *Bag) Warnings() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.warnings
}

// Len returns the number of diagnostics in the bag.
func (b *Bag) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.list)
}

// Sorted returns a copy of the diagnostics ordered by position. Diagnostics
// at the same position keep their report order.
func (b *Bag) Sorted() []Diagnostic {
	b.mu.Lock()
	list := make([]Diagnostic, len(b.list))
	copy(list, b.list)
	b.mu.Unlock()

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Pos.Before(list[j].Pos)
	})
	return list
}

// Fprint writes the sorted diagnostics to w, one per line. If max is
// positive, at most max diagnostics are written.
func (b *Bag) Fprint(w io.Writer, max int) {
	list := b.Sorted()
	for i, d := range list {
		if max > 0 && i == max {
			fmt.Fprintf(w, "too many diagnostics (%d more)\n", len(list)-max)
			return
		}
		fmt.Fprintln(w, d)
	}
}

type yamlDiagnostic struct {
	Diagnostic `yaml:",inline"`
	File       string `yaml:"file"`
	Line       uint32 `yaml:"line"`
	Col        uint32 `yaml:"col"`
}

type yamlReport struct {
	Errors      int              `yaml:"errors"`
	Warnings    int              `yaml:"warnings"`
	Diagnostics []yamlDiagnostic `yaml:"diagnostics"`
}

// FprintYAML writes the sorted diagnostics and their counts to w as YAML.
func (b *Bag) FprintYAML(w io.Writer) error {
	list := b.Sorted()
	r := yamlReport{
		Errors:      b.Errors(),
		Warnings:    b.Warnings(),
		Diagnostics: make([]yamlDiagnostic, len(list)),
	}
	for i, d := range list {
		r.Diagnostics[i] = yamlDiagnostic{
			Diagnostic: d,
			File:       d.Pos.Filename(),
			Line:       d.Pos.Line(),
			Col:        d.Pos.Col(),
		}
	}
	out, err := yaml.Marshal(r)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

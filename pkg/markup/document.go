// Package markup loads logical control trees from YAML or JSON documents.
//
// A document describes one element tree:
//
//	version: v1.0.0
//	root:
//	  kind: Border
//	  name: outer
//	  classes: [card]
//	  child:
//	    kind: StackPanel
//	    children:
//	      - kind: Control
//	        name: title
//	        deferInit: true
//
// Building a document creates detached nodes the way a markup loader does:
// each element's initialization scope is opened before its properties and
// children are set and closed afterwards, so styling and name registration
// wait until the element is fully configured. Elements marked deferInit
// keep their scope open until [Result.Close].
package markup

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gojson "github.com/goccy/go-json"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/controls/pkg/errors"
)

// CurrentVersion is the newest document version this package writes.
const CurrentVersion = "v1.0.0"

// supportedMajor is the only major version Parse accepts.
const supportedMajor = "v1"

// Format selects the document encoding.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "yaml"
}

// FormatFromPath picks a format from the file extension. Anything that is
// not .json is treated as YAML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Document is a parsed markup document.
type Document struct {
	Version string   `yaml:"version" json:"version"`
	Root    *Element `yaml:"root" json:"root"`
}

// Element describes one node and its children.
type Element struct {
	Kind        string     `yaml:"kind" json:"kind"`
	Name        string     `yaml:"name,omitempty" json:"name,omitempty"`
	Classes     []string   `yaml:"classes,omitempty" json:"classes,omitempty"`
	InheritFrom string     `yaml:"inheritFrom,omitempty" json:"inheritFrom,omitempty"`
	DeferInit   bool       `yaml:"deferInit,omitempty" json:"deferInit,omitempty"`
	Child       *Element   `yaml:"child,omitempty" json:"child,omitempty"`
	Children    []*Element `yaml:"children,omitempty" json:"children,omitempty"`

	line int
}

// Line returns the source line of the element in YAML documents, or 0.
func (e *Element) Line() int {
	return e.line
}

type rawElement Element

// UnmarshalYAML records the element's source line.
func (e *Element) UnmarshalYAML(value *yaml.Node) error {
	if err := value.Decode((*rawElement)(e)); err != nil {
		return err
	}
	e.line = value.Line
	return nil
}

// Parse decodes and validates a document.
func Parse(data []byte, format Format) (*Document, error) {
	var doc Document
	var err error
	switch format {
	case FormatJSON:
		err = gojson.Unmarshal(data, &doc)
	default:
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, &errors.LifecycleError{
			Op:   "markup.Parse",
			Kind: errors.KindMarkup,
			Err:  fmt.Errorf("decode %s: %w", format, err),
		}
	}
	if err := doc.validate(); err != nil {
		return nil, &errors.LifecycleError{Op: "markup.Parse", Kind: errors.KindMarkup, Err: err}
	}
	return &doc, nil
}

// Load reads and parses the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &errors.LifecycleError{
			Op:   "markup.Load",
			Kind: errors.KindMarkup,
			Err:  fmt.Errorf("failed to read %s: %w", path, err),
		}
	}
	return Parse(data, FormatFromPath(path))
}

func (d *Document) validate() error {
	if d.Version == "" {
		d.Version = CurrentVersion
	}
	if !semver.IsValid(d.Version) {
		return &errors.MarkupError{Path: "version", Reason: fmt.Sprintf("%q is not a semantic version", d.Version)}
	}
	if major := semver.Major(d.Version); major != supportedMajor {
		return &errors.MarkupError{
			Path:   "version",
			Reason: fmt.Sprintf("unsupported major version %s (want %s)", major, supportedMajor),
		}
	}
	if d.Root == nil {
		return &errors.MarkupError{Path: "root", Reason: "document has no root element"}
	}
	return d.Root.validate("root")
}

func (e *Element) validate(path string) error {
	if strings.TrimSpace(e.Kind) == "" {
		return &errors.MarkupError{Path: path, Line: e.line, Reason: "element has no kind"}
	}
	if e.Child != nil && len(e.Children) > 0 {
		return &errors.MarkupError{Path: path, Line: e.line, Reason: "element sets both child and children"}
	}
	if e.Child != nil {
		if err := e.Child.validate(path + ".child"); err != nil {
			return err
		}
	}
	for i, child := range e.Children {
		if child == nil {
			return &errors.MarkupError{Path: fmt.Sprintf("%s.children[%d]", path, i), Reason: "empty element"}
		}
		if err := child.validate(fmt.Sprintf("%s.children[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

// Compatible reports whether a document at version can be read by this
// package: same major version, any minor or patch.
func Compatible(version string) bool {
	return semver.IsValid(version) && semver.Major(version) == supportedMajor
}

// NewerThanCurrent reports whether version is later than CurrentVersion.
func NewerThanCurrent(version string) bool {
	return semver.Compare(version, CurrentVersion) > 0
}

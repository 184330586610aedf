package diagnostics

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	gojson "github.com/goccy/go-json"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/go-drift/controls/pkg/tree"
)

// UpdateSnapshotsEnv names the environment variable that makes
// MatchesFile rewrite golden files instead of comparing against them.
const UpdateSnapshotsEnv = "CONTROLS_UPDATE_SNAPSHOTS"

// TestingT is the subset of *testing.T used by MatchesFile.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Snapshot is a serializable view of one node and its logical subtree.
type Snapshot struct {
	Kind      string      `json:"kind"`
	Name      string      `json:"name,omitempty"`
	Classes   []string    `json:"classes,omitempty"`
	Phase     string      `json:"phase"`
	InitDepth int         `json:"initDepth,omitempty"`
	Inherits  string      `json:"inheritsFrom,omitempty"`
	Children  []*Snapshot `json:"children,omitempty"`
}

// Capture snapshots n and its descendants.
func Capture(n *tree.Node) *Snapshot {
	s := &Snapshot{
		Kind:      n.Kind(),
		Name:      n.Name(),
		Phase:     n.Phase().String(),
		InitDepth: n.InitDepth(),
	}
	if n.Classes().Len() > 0 {
		s.Classes = n.Classes().Items()
	}
	// Only explicit owners are interesting; the logical parent is implied by nesting.
	if ip := n.InheritanceParent(); ip != nil && ip != n.Parent() {
		s.Inherits = ip.String()
	}
	for _, child := range n.Children() {
		s.Children = append(s.Children, Capture(child))
	}
	return s
}

// JSON returns the indented JSON encoding of the snapshot.
func (s *Snapshot) JSON() ([]byte, error) {
	data, err := gojson.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Count returns the number of nodes in the snapshot, including s.
func (s *Snapshot) Count() int {
	n := 1
	for _, c := range s.Children {
		n += c.Count()
	}
	return n
}

// Diff returns a line diff between this snapshot and other, or "" when
// they are equal.
func (s *Snapshot) Diff(other *Snapshot) string {
	a, _ := s.JSON()
	b, _ := other.JSON()
	if bytes.Equal(a, b) {
		return ""
	}
	return lineDiff(string(b), string(a))
}

// MatchesFile compares the snapshot against a golden file. When
// CONTROLS_UPDATE_SNAPSHOTS=1 is set the file is rewritten instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv(UpdateSnapshotsEnv) == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := LoadSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: %s=1 go test -run %s", path, UpdateSnapshotsEnv, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}
	if diff := s.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch: %s\n%s\n\nTo update: %s=1 go test -run %s", path, diff, UpdateSnapshotsEnv, t.Name())
	}
}

// UpdateFile writes the snapshot to path, creating directories as needed.
func (s *Snapshot) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := s.JSON()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadSnapshot reads a snapshot previously written by UpdateFile.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := gojson.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot JSON: %w", err)
	}
	return &snap, nil
}

func lineDiff(expected, actual string) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		B:        difflib.SplitLines(actual),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  2,
	})
	if err != nil {
		return fmt.Sprintf("snapshots differ (diff failed: %v)", err)
	}
	return diff
}

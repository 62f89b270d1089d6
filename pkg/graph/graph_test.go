package graph

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/orbit/pkg/errors"
	"github.com/matzehuels/orbit/pkg/layout/force"
)

func sample() Snapshot {
	return Snapshot{
		Anchor: "root",
		Nodes: []Node{
			{ID: "root", Category: force.CategoryCore, X: 0.5, Y: 0.5},
			{ID: "bob", Category: force.CategoryRule, X: 0.75, Y: 0.25},
			{ID: "alice", Category: force.CategoryHubEntity, X: 0.25, Y: 0.5},
		},
		Edges: []Edge{
			{From: "root", To: "bob"},
			{From: "root", To: "alice"},
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(s *Snapshot)
		wantFields []string
	}{
		{
			name:   "Valid",
			mutate: func(s *Snapshot) {},
		},
		{
			name:   "NoAnchor",
			mutate: func(s *Snapshot) { s.Anchor = "" },
		},
		{
			name:   "UnknownCategoryAllowed",
			mutate: func(s *Snapshot) { s.Nodes[1].Category = "mystery" },
		},
		{
			name:       "EmptyID",
			mutate:     func(s *Snapshot) { s.Nodes[1].ID = "" },
			wantFields: []string{"nodes[1].id", "edges[0].to"},
		},
		{
			name:       "DuplicateID",
			mutate:     func(s *Snapshot) { s.Nodes[2].ID = "bob" },
			wantFields: []string{"nodes[2].id", "edges[1].to"},
		},
		{
			name: "OutOfRangeCoords",
			mutate: func(s *Snapshot) {
				s.Nodes[1].X = 1.5
				s.Nodes[2].Y = math.NaN()
			},
			wantFields: []string{"nodes[1].x", "nodes[2].y"},
		},
		{
			name:       "DanglingEdge",
			mutate:     func(s *Snapshot) { s.Edges = append(s.Edges, Edge{From: "ghost", To: "alice"}) },
			wantFields: []string{"edges[2].from"},
		},
		{
			name:       "UnknownAnchor",
			mutate:     func(s *Snapshot) { s.Anchor = "nobody" },
			wantFields: []string{"anchor"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sample()
			tt.mutate(&s)
			err := s.Validate()

			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, errors.ErrCodeInvalidSnapshot) {
				t.Fatalf("Validate() = %v, want INVALID_SNAPSHOT", err)
			}
			var got []string
			for _, f := range err.(*errors.ValidationError).Fields {
				got = append(got, f.Field)
			}
			if diff := cmp.Diff(tt.wantFields, got); diff != "" {
				t.Errorf("fields mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMarshalSnapshotIsSorted(t *testing.T) {
	a := sample()
	b := sample()
	b.Nodes[0], b.Nodes[2] = b.Nodes[2], b.Nodes[0]
	b.Edges[0], b.Edges[1] = b.Edges[1], b.Edges[0]

	da, err := MarshalSnapshot(a)
	if err != nil {
		t.Fatal(err)
	}
	db, err := MarshalSnapshot(b)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(da, db) {
		t.Errorf("reordered snapshots marshal differently:\n%s\n%s", da, db)
	}
	if strings.Index(string(da), `"alice"`) > strings.Index(string(da), `"bob"`) {
		t.Error("nodes not sorted by id")
	}

	// Sorting must not reorder the caller's slices.
	if a.Nodes[0].ID != "root" {
		t.Errorf("MarshalSnapshot mutated input: first node = %s", a.Nodes[0].ID)
	}
}

func TestSnapshotFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	want := sample()
	if err := WriteSnapshotFile(want, path); err != nil {
		t.Fatalf("WriteSnapshotFile: %v", err)
	}
	got, err := ReadSnapshotFile(path)
	if err != nil {
		t.Fatalf("ReadSnapshotFile: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReadSnapshotErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Malformed", `{"nodes": [`, "decode"},
		{"Invalid", `{"nodes": [{"id": "a", "x": 2, "y": 0}]}`, "INVALID_SNAPSHOT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadSnapshot(strings.NewReader(tt.input))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("ReadSnapshot() error = %v, want containing %q", err, tt.want)
			}
		})
	}

	if _, err := ReadSnapshotFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("ReadSnapshotFile on missing file should fail")
	}
}

func TestToSpecs(t *testing.T) {
	s := sample()
	specs := s.ToSpecs()
	want := []force.NodeSpec{
		{ID: "root", Category: force.CategoryCore, Target: force.Vec{X: 0.5, Y: 0.5}, Anchor: true},
		{ID: "bob", Category: force.CategoryRule, Target: force.Vec{X: 0.75, Y: 0.25}},
		{ID: "alice", Category: force.CategoryHubEntity, Target: force.Vec{X: 0.25, Y: 0.5}},
	}
	if diff := cmp.Diff(want, specs); diff != "" {
		t.Errorf("ToSpecs mismatch (-want +got):\n%s", diff)
	}

	s.Anchor = ""
	for _, spec := range s.ToSpecs() {
		if spec.Anchor {
			t.Errorf("%s flagged as anchor without an anchor set", spec.ID)
		}
	}
}

func TestNodeLookup(t *testing.T) {
	s := sample()
	n, ok := s.Node("bob")
	if !ok || n.Category != force.CategoryRule {
		t.Errorf("Node(bob) = %+v, %v", n, ok)
	}
	if _, ok := s.Node("nobody"); ok {
		t.Error("Node(nobody) should not be found")
	}
	if got := n.DisplayLabel(); got != "bob" {
		t.Errorf("DisplayLabel() = %q, want id fallback", got)
	}
}

func TestFrame(t *testing.T) {
	e := force.New(force.DefaultParams())
	s := sample()
	e.Initialize(s.ToSpecs(), force.Size{Width: 1000, Height: 800})
	e.Tick(1.0 / 60)

	f := NewFrame(e)
	if f.Width != 1000 || f.Height != 800 || f.Tick != 1 {
		t.Errorf("frame header = %gx%g tick %d", f.Width, f.Height, f.Tick)
	}
	if diff := cmp.Diff([]string{"alice", "bob", "root"}, f.IDs()); diff != "" {
		t.Errorf("IDs mismatch (-want +got):\n%s", diff)
	}

	path := filepath.Join(t.TempDir(), "frame.json")
	if err := WriteFrameFile(f, path); err != nil {
		t.Fatal(err)
	}
	got, err := ReadFrameFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(f, got); diff != "" {
		t.Errorf("frame file mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshalFrame(t *testing.T) {
	f, err := UnmarshalFrame([]byte(`{"width": 10, "height": 20}`))
	if err != nil {
		t.Fatal(err)
	}
	if f.Positions == nil {
		t.Error("Positions should be non-nil after unmarshal")
	}
	if _, err := UnmarshalFrame([]byte("nope")); err == nil {
		t.Error("expected error for malformed frame")
	}
}

func TestExampleSnapshots(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "examples", "snapshots", "*.json"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Skip("no example snapshots")
	}
	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			s, err := ReadSnapshotFile(path)
			if err != nil {
				t.Fatalf("ReadSnapshotFile() error: %v", err)
			}
			if len(s.ToSpecs()) != len(s.Nodes) {
				t.Errorf("ToSpecs() = %d specs, want %d", len(s.ToSpecs()), len(s.Nodes))
			}
		})
	}
}

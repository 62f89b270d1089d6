package source

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/orbit/pkg/errors"
	"github.com/matzehuels/orbit/pkg/graph"
)

const snapshotExt = ".json"

// Dir is a [Store] backed by a directory of JSON snapshot files.
type Dir struct {
	root string
}

// NewDir returns a source reading <root>/<name>.json.
func NewDir(root string) *Dir {
	return &Dir{root: root}
}

// Name implements [Source].
func (d *Dir) Name() string { return "dir" }

// Root returns the directory the source reads from.
func (d *Dir) Root() string { return d.root }

// Load implements [Source].
func (d *Dir) Load(ctx context.Context, name string) (graph.Snapshot, error) {
	if err := ValidateName(name); err != nil {
		return graph.Snapshot{}, err
	}
	if err := ctx.Err(); err != nil {
		return graph.Snapshot{}, err
	}

	s, err := graph.ReadSnapshotFile(d.path(name))
	if stderrors.Is(err, fs.ErrNotExist) {
		return graph.Snapshot{}, notFound(name)
	}
	if err != nil {
		return graph.Snapshot{}, err
	}
	if s.Name == "" {
		s.Name = name
	}
	return s, nil
}

// List implements [Source].
func (d *Dir) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(d.root)
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list %s", d.root)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), snapshotExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), snapshotExt))
	}
	slices.Sort(names)
	return names, nil
}

// Save writes s to <root>/<s.Name>.json, creating the directory if needed.
func (d *Dir) Save(ctx context.Context, s graph.Snapshot) error {
	if err := ValidateName(s.Name); err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(d.root, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", d.root)
	}
	return graph.WriteSnapshotFile(s.Sorted(), d.path(s.Name))
}

func (d *Dir) path(name string) string {
	return filepath.Join(d.root, name+snapshotExt)
}

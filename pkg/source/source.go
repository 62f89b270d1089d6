// Package source loads snapshots from where they are stored.
//
// A snapshot is the externally owned node set a layout is computed for. The
// engine never fetches one itself; the CLI and the server ask a [Source]
// and hand the result to a settle run or a live session.
//
// # Backends
//
//   - [Dir]: a directory of <name>.json files
//   - [Mongo]: a MongoDB collection keyed by snapshot name
//
// [Cached] wraps any source with a [cache.Cache] so repeated loads of a
// remote snapshot skip the network.
//
// # Usage
//
//	src := source.NewDir("./snapshots")
//	snap, err := src.Load(ctx, "team")
//	if errors.Is(err, errors.ErrCodeSnapshotNotFound) {
//	    // ...
//	}
package source

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/matzehuels/orbit/pkg/errors"
	"github.com/matzehuels/orbit/pkg/graph"
)

// Source provides snapshots by name.
type Source interface {
	// Name identifies the backend in cache keys and logs.
	Name() string

	// Load returns the validated snapshot called name. A missing snapshot
	// yields an error with code SNAPSHOT_NOT_FOUND.
	Load(ctx context.Context, name string) (graph.Snapshot, error)

	// List returns the names of every stored snapshot, sorted.
	List(ctx context.Context) ([]string, error)
}

// Store is a [Source] that can also persist snapshots.
type Store interface {
	Source
	Save(ctx context.Context, s graph.Snapshot) error
}

// ValidateName rejects names that are not valid snapshot names. Names map
// to file names and document ids, so path separators are refused.
func ValidateName(name string) error {
	if err := errors.ValidateID(name); err != nil {
		return err
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." || filepath.Base(name) != name {
		return errors.New(errors.ErrCodeInvalidInput, "invalid snapshot name %q", name)
	}
	return nil
}

func notFound(name string) error {
	return errors.New(errors.ErrCodeSnapshotNotFound, "snapshot %q not found", name)
}

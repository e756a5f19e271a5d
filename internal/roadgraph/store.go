package roadgraph

import (
	"cmp"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	log "github.com/sirupsen/logrus"
)

const snapshotVersion = 1

type snapshot struct {
	Version int
	Nodes   []Node
	Edges   []Edge
}

// Save persists the graph atomically (write to temp file, then rename).
func Save(path string, g *Graph) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("save road graph: create dir: %w", err)
		}
	}

	nodes := make([]Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		nodes = append(nodes, n)
	}
	slices.SortFunc(nodes, func(a, b Node) int { return cmp.Compare(a.ID, b.ID) })

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("save road graph: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	snap := snapshot{Version: snapshotVersion, Nodes: nodes, Edges: g.edges}
	if err := gob.NewEncoder(tmp).Encode(&snap); err != nil {
		tmp.Close()
		return fmt.Errorf("save road graph: encode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save road graph: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save road graph: rename: %w", err)
	}
	return nil
}

// Load reads a graph written by Save. A missing file yields an error
// matching os.ErrNotExist.
func Load(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load road graph: %w", err)
	}
	defer f.Close()

	var snap snapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return nil, fmt.Errorf("load road graph: decode %q: %w", path, err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("load road graph: unsupported snapshot version %d", snap.Version)
	}
	return New(snap.Nodes, snap.Edges)
}

// LoadOrBuild returns the cached graph at cachePath, or imports osmPath,
// saves the result to cachePath and returns it. A stale cache must be removed
// by hand when the build options change.
func LoadOrBuild(ctx context.Context, cachePath, osmPath string, opts BuildOptions) (*Graph, error) {
	g, err := Load(cachePath)
	if err == nil {
		log.WithFields(log.Fields{"path": cachePath, "nodes": g.NodeCount()}).Info("road graph loaded from cache")
		return g, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	g, err = BuildFromOSMFile(ctx, osmPath, opts)
	if err != nil {
		return nil, err
	}

	if err := Save(cachePath, g); err != nil {
		log.WithError(err).Warn("road graph cache write failed")
	}
	return g, nil
}

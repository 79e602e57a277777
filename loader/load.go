package loader

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/teranos/tsbindgen/diag"
	"github.com/teranos/tsbindgen/errors"
	"github.com/teranos/tsbindgen/logger"
	"github.com/teranos/tsbindgen/model"
)

// Extensions lists the file extensions ExpandInputs picks up from
// directories.
var Extensions = []string{".yaml", ".yml", ".json"}

// ExpandInputs replaces every directory in paths with the graph documents it
// contains (not recursive). The result is sorted and free of duplicates so
// the merge order of Build does not depend on argument order.
func ExpandInputs(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.Wrapf(errors.ErrNotFound, "input %s", p)
			}
			return nil, errors.Wrapf(err, "failed to stat input %s", p)
		}
		if !info.IsDir() {
			add(filepath.Clean(p))
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read input directory %s", p)
		}
		for _, e := range entries {
			if e.IsDir() || !hasGraphExtension(e.Name()) {
				continue
			}
			add(filepath.Join(p, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

func hasGraphExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// LoadFiles reads and decodes paths concurrently, then builds one graph from
// them in the order given.
func LoadFiles(ctx context.Context, paths []string, diags *diag.Collector) (*model.SymbolGraph, error) {
	log := logger.LoggerFromContext(logger.WithComponent(ctx, "loader"))
	if len(paths) == 0 {
		return nil, errors.WithHint(errors.NewInvalidInputf("no graph documents given"),
			"pass one or more .yaml/.json files or directories")
	}

	docs := make([]*Document, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(runtime.GOMAXPROCS(0), len(paths)))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return errors.Wrapf(err, "failed to read graph document %s", path)
			}
			doc, err := Decode(data, path)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Debugw("loaded graph documents", logger.FieldCount, len(docs))
	return Build(docs, diags)
}

package contract

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/teranos/tsbindgen/errors"
)

// metadataView is the part of a namespace metadata document a contract
// needs.
type metadataView struct {
	GeneratorVersion string `json:"generatorVersion"`
	Types            []struct {
		StableID string `json:"stableId"`
		Members  map[string][]struct {
			StableID string `json:"stableId"`
		} `json:"members"`
	} `json:"types"`
}

// FromMetadata builds a contract from the metadata documents of a previous
// build. Every listed type and member identity becomes allowed.
func FromMetadata(paths []string) (*Contract, error) {
	if len(paths) == 0 {
		return nil, errors.NewInvalidInputf("no metadata documents given")
	}
	var (
		version string
		types   []string
		members []string
	)
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read metadata %s", path)
		}
		var doc metadataView
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrapf(err, "failed to decode metadata %s", path)
		}
		if version == "" {
			version = doc.GeneratorVersion
		} else if doc.GeneratorVersion != "" && doc.GeneratorVersion != version {
			return nil, errors.NewInvalidInputf(
				"metadata %s was written by %s, others by %s", path, doc.GeneratorVersion, version)
		}
		for _, t := range doc.Types {
			types = append(types, t.StableID)
			for _, list := range t.Members {
				for _, m := range list {
					members = append(members, m.StableID)
				}
			}
		}
	}
	sort.Strings(types)
	sort.Strings(members)
	return New(version, types, members), nil
}

// MetadataFiles lists the metadata documents under a previous output
// directory.
func MetadataFiles(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*", "metadata.json"))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list metadata in %s", dir)
	}
	sort.Strings(paths)
	return paths, nil
}

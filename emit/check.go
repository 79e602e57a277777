package emit

import (
	"bufio"
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/teranos/tsbindgen/errors"
)

// CheckResult holds the result of an up-to-date check.
type CheckResult struct {
	UpToDate bool
	// Differences lists files whose content differs, or that exist on only
	// one side, by relative path.
	Differences []string
}

// CompareDirectories compares freshly generated output in tempDir with the
// committed output in existingDir. The generator header line is ignored so a
// version bump alone does not count as a difference. Files present only in
// existingDir are reported as stale.
func CompareDirectories(tempDir, existingDir string) (*CheckResult, error) {
	if _, err := os.Stat(tempDir); err != nil {
		return nil, errors.Wrapf(err, "generated output %s not found", tempDir)
	}

	var diffs []string
	generated := make(map[string]bool)
	err := filepath.WalkDir(tempDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(tempDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		generated[rel] = true

		different, err := filesAreDifferent(path, filepath.Join(existingDir, filepath.FromSlash(rel)))
		switch {
		case os.IsNotExist(err):
			diffs = append(diffs, rel+" (missing)")
		case err != nil:
			diffs = append(diffs, rel+" (error: "+err.Error()+")")
		case different:
			diffs = append(diffs, rel)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to walk generated output")
	}

	if _, statErr := os.Stat(existingDir); statErr == nil {
		err = filepath.WalkDir(existingDir, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			rel, err := filepath.Rel(existingDir, path)
			if err != nil {
				return err
			}
			if rel = filepath.ToSlash(rel); !generated[rel] {
				diffs = append(diffs, rel+" (stale)")
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to walk existing output")
		}
	}

	sort.Strings(diffs)
	return &CheckResult{UpToDate: len(diffs) == 0, Differences: diffs}, nil
}

func filesAreDifferent(file1, file2 string) (bool, error) {
	content1, err := os.ReadFile(file1)
	if err != nil {
		return false, err
	}
	content2, err := os.ReadFile(file2)
	if err != nil {
		return false, err
	}
	return filterGeneratorLines(content1) != filterGeneratorLines(content2), nil
}

// filterGeneratorLines drops the "// Generated by" header. An unreadable
// input yields an empty string, which never matches real content.
func filterGeneratorLines(content []byte) string {
	var result strings.Builder
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "// Generated by ") {
			continue
		}
		result.WriteString(line)
		result.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return ""
	}
	return result.String()
}

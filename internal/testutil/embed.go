// Package testutil gives tests of every package access to the shared
// sample documents.
package testutil

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
)

// TestdataFS holds the embedded sample documents.
//
//go:embed testdata
var TestdataFS embed.FS

// ReadTestData reads and returns the content of an embedded sample.
func ReadTestData(name string) ([]byte, error) {
	data, err := fs.ReadFile(TestdataFS, path.Join("testdata", name))
	if err != nil {
		return nil, fmt.Errorf("failed to read test data file '%s': %w", name, err)
	}
	return data, nil
}

// Names returns the sorted names of the embedded samples with the given
// extension, such as ".yaml".
func Names(ext string) []string {
	matches, err := fs.Glob(TestdataFS, "testdata/*"+ext)
	if err != nil {
		panic(err)
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, path.Base(m))
	}
	sort.Strings(names)
	return names
}

// Package loader discovers and reads the node and edge files of a graph
// directory.
//
// Layout:
//
//	<graph-dir>/nodes/**/*.json    one node per file
//	<graph-dir>/edges/**/*.jsonl   one edge per line
//
// Files are always visited in lexical path order so that every command
// sees records in the same order on every run.
package loader

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Directory and extension conventions of a graph tree
const (
	NodesDir = "nodes"
	EdgesDir = "edges"

	NodeExt = ".json"
	EdgeExt = ".jsonl"
)

// maxLineSize bounds a single edge line
const maxLineSize = 4 * 1024 * 1024

// Files lists the record files of a graph directory
type Files struct {
	Root  string
	Nodes []string
	Edges []string
}

// Discover walks graphDir for node and edge files. A missing nodes or
// edges directory yields an empty list.
func Discover(graphDir string) (*Files, error) {
	nodes, err := walk(filepath.Join(graphDir, NodesDir), NodeExt)
	if err != nil {
		return nil, fmt.Errorf("failed to discover node files: %w", err)
	}
	edges, err := walk(filepath.Join(graphDir, EdgesDir), EdgeExt)
	if err != nil {
		return nil, fmt.Errorf("failed to discover edge files: %w", err)
	}

	return &Files{
		Root:  graphDir,
		Nodes: nodes,
		Edges: edges,
	}, nil
}

// Rel returns path relative to the graph root with forward slashes, for
// use in locations and manifests.
func (f *Files) Rel(path string) string {
	rel, err := filepath.Rel(f.Root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func walk(root, ext string) ([]string, error) {
	info, err := os.Stat(root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	var paths []string
	// WalkDir visits entries in lexical order
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), ext) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// ScanLines calls fn for every non-blank line of the file at path.
// Line numbers are 1-based and count blank lines.
func ScanLines(path string, fn func(line int, data []byte)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	for scanner.Scan() {
		line++
		data := bytes.TrimSpace(scanner.Bytes())
		if len(data) == 0 {
			continue
		}
		fn(line, data)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%s: line %d: %w", path, line+1, err)
	}
	return nil
}

// Package codebase keeps the analysis of a directory of Java sources and
// of the documents an editor has open, and serves it over the Language
// Server Protocol.
package codebase

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dhamidi/jfront/java"
	"github.com/dhamidi/jfront/java/diag"
	"github.com/dhamidi/jfront/java/parser"
)

type Codebase struct {
	mu       sync.RWMutex
	rootDir  string
	files    map[string]*FileInfo
	classes  []*java.ClassModel
	analysis []java.Option
}

// FileInfo is the latest analysis of one file.
type FileInfo struct {
	Path        string
	Content     []byte
	Tree        *parser.Node
	Classes     []*java.ClassModel
	Diagnostics diag.List
	Gated       bool

	// Names are the unqualified symbol names the file declares.
	Names []string
}

func New(rootDir string, opts ...java.Option) *Codebase {
	return &Codebase{
		rootDir:  rootDir,
		files:    make(map[string]*FileInfo),
		analysis: opts,
	}
}

func (c *Codebase) RootDir() string {
	return c.rootDir
}

// ScanAll analyzes every .java file below the root directory, skipping
// hidden directories.
func (c *Codebase) ScanAll() error {
	return filepath.WalkDir(c.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != c.rootDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == ".java" {
			c.ScanFile(path)
		}
		return nil
	})
}

func (c *Codebase) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	c.UpdateFile(path, content)
	return nil
}

// UpdateFile analyzes content as the new text of path and returns the
// result.
func (c *Codebase) UpdateFile(path string, content []byte) *FileInfo {
	info := c.analyze(path, content)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.files[path] = info
	c.rebuildClassesLocked()
	return info
}

func (c *Codebase) analyze(path string, content []byte) *FileInfo {
	opts := append([]java.Option{java.WithFile(filepath.Base(path))}, c.analysis...)
	report := java.Check(content, opts...)
	tree, symbols := report.Tree, report.Symbols
	if report.Gated {
		// The outline and completions still want whatever the parser makes
		// of a file the structural scan rejected.
		parsed := java.Parse(content, opts...)
		tree, symbols = parsed.Tree, parsed.Symbols
	}

	info := &FileInfo{
		Path:        path,
		Content:     content,
		Tree:        tree,
		Classes:     java.ClassModelsFromTree(tree),
		Diagnostics: report.Diagnostics,
		Gated:       report.Gated,
	}
	seen := make(map[string]bool)
	for _, row := range symbols {
		name := row.QualifiedName[strings.LastIndex(row.QualifiedName, ".")+1:]
		if !seen[name] {
			seen[name] = true
			info.Names = append(info.Names, name)
		}
	}
	sort.Strings(info.Names)
	return info
}

func (c *Codebase) rebuildClassesLocked() {
	paths := make([]string, 0, len(c.files))
	for path := range c.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var all []*java.ClassModel
	for _, path := range paths {
		all = append(all, c.files[path].Classes...)
	}
	c.classes = all
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
	c.rebuildClassesLocked()
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

// Paths lists the analyzed files in sorted order.
func (c *Codebase) Paths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := make([]string, 0, len(c.files))
	for path := range c.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

func (c *Codebase) AllClasses() []*java.ClassModel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.classes
}

func (c *Codebase) FindClass(name string) *java.ClassModel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, cls := range c.classes {
		if cls.Name == name {
			return cls
		}
	}
	return nil
}

func (c *Codebase) Diagnostics(path string) diag.List {
	if f := c.GetFile(path); f != nil {
		return f.Diagnostics
	}
	return nil
}

// TypeAtPoint returns the declared type of the variable at line and
// column (both 1-based) of path.
func (c *Codebase) TypeAtPoint(path string, line, column int) string {
	f := c.GetFile(path)
	if f == nil || f.Tree == nil {
		return ""
	}
	return java.TypeAtPoint(f.Tree, parser.Position{Line: line, Column: column})
}

// HoverAtPoint describes the variable at line and column as "type name",
// or returns "" when there is no variable there.
func (c *Codebase) HoverAtPoint(path string, line, column int) string {
	f := c.GetFile(path)
	if f == nil || f.Tree == nil {
		return ""
	}
	pos := parser.Position{Line: line, Column: column}
	typ := java.TypeAtPoint(f.Tree, pos)
	if typ == "" {
		return ""
	}
	return typ + " " + java.NodeAtPoint(f.Tree, pos).TokenLiteral()
}

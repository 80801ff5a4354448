package source

import (
	"context"
	"fmt"
	"os"

	"policyrag/internal/adapter/fs"
	"policyrag/internal/domain"
)

// FileSource loads corpus documents from a local file, or from every file
// under a directory that matches the include patterns. Files are visited in
// lexical path order so the corpus order is stable between runs.
type FileSource struct {
	root   string
	walker *fs.Walker
}

func NewFileSource(root string, includes, excludes []string) *FileSource {
	if len(includes) == 0 {
		includes = []string{"**/*.md", "**/*.txt"}
	}
	return &FileSource{
		root:   root,
		walker: fs.NewWalker(includes, excludes),
	}
}

func (s *FileSource) Load(ctx context.Context) ([]domain.Document, error) {
	info, err := os.Stat(s.root)
	if err != nil {
		return nil, fmt.Errorf("stat corpus path: %w", err)
	}

	if !info.IsDir() {
		text, err := fs.ReadFile(s.root)
		if err != nil {
			return nil, fmt.Errorf("read corpus file: %w", err)
		}
		return SectionsToDocuments(SplitSections(text)), nil
	}

	files, err := s.walker.Walk(s.root)
	if err != nil {
		return nil, fmt.Errorf("walk corpus directory: %w", err)
	}

	var docs []domain.Document
	for _, path := range files {
		text, err := fs.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		docs = append(docs, SectionsToDocuments(SplitSections(text))...)
	}
	return docs, nil
}

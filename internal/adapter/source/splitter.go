package source

import (
	"strings"

	"policyrag/internal/domain"
)

// SplitSections cuts text before every "\n##" occurrence, so each section
// after the first starts with its own markdown heading. Every byte of the
// input is preserved across the returned sections.
func SplitSections(text string) []string {
	if text == "" {
		return nil
	}

	var sections []string
	if strings.HasPrefix(text, "\n##") {
		sections = append(sections, "")
	}

	start := 0
	for {
		i := strings.Index(text[start+1:], "\n##")
		if i < 0 {
			break
		}
		cut := start + 1 + i
		sections = append(sections, text[start:cut])
		start = cut
	}
	return append(sections, text[start:])
}

// SectionsToDocuments wraps sections in domain.Document values.
func SectionsToDocuments(sections []string) []domain.Document {
	docs := make([]domain.Document, len(sections))
	for i, s := range sections {
		docs[i] = domain.Document{Content: s}
	}
	return docs
}

package domain

// Document is one section of the policy corpus. It carries no identifier:
// a document is identified by its position in the corpus handed to the
// retriever, and that position is stable for the lifetime of one published
// index.
type Document struct {
	Content string
}

// RankedResult is a single query hit: the original section content plus the
// similarity score computed for it. Results are produced per query and
// never stored.
type RankedResult struct {
	Content    string  `json:"content"`
	Similarity float64 `json:"similarity"`
}

// CorpusStats describes a published index.
type CorpusStats struct {
	Sections  int
	Dimension int
}

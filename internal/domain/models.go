package domain

import "time"

// Document is the raw text extracted from one source file. Built once at
// ingestion time, immutable afterwards.
type Document struct {
	Source     string    `json:"source"`
	Content    string    `json:"content"`
	IngestedAt time.Time `json:"ingested_at"`
}

// Chunk is a contiguous slice of a Document that is embedded and stored
// on its own. Ids follow the doc_<index> scheme so a re-run over the same
// document lands on the same ids.
type Chunk struct {
	ID     string `json:"chunk_id"`
	Index  int    `json:"chunk_index"`
	Text   string `json:"content"`
	Source string `json:"source_doc"`
}

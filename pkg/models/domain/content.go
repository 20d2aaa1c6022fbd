package domain

import "time"

// ContentType identifies which extraction pass produced a fragment. Chunk
// boundaries never straddle content types.
type ContentType string

const (
	ContentText        ContentType = "text"
	ContentTable       ContentType = "table"
	ContentForm        ContentType = "form"
	ContentSpreadsheet ContentType = "spreadsheet"
)

// TextBlock is one extracted text fragment with its page and OCR confidence.
type TextBlock struct {
	Page       int
	Text       string
	Confidence float64
}

// Table is one extracted table. Tables are chunked whole; splitting them
// breaks row/column semantics.
type Table struct {
	ID         string
	Page       int
	Confidence float64
	Rows       [][]string
}

// FormField is one extracted key/value pair.
type FormField struct {
	Page       int
	Key        string
	Value      string
	Confidence float64
}

// Sheet is one spreadsheet tab with its header row and data rows.
type Sheet struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// ExtractedContent is the normalized output of the extraction collaborator
// for one document.
type ExtractedContent struct {
	SourceFile string
	TextBlocks []TextBlock
	Tables     []Table
	FormFields []FormField
	Sheets     []Sheet
}

// SourceRef is chunk provenance: where the aggregated content came from and
// the confidence scores of the fragments it carries, propagated unmodified.
type SourceRef struct {
	File        string
	Pages       []int
	Sheet       string
	TableID     string
	Confidences []float64
}

type ChunkMeta struct {
	Index           int
	Total           int
	EstimatedTokens int
	CreatedAt       time.Time
}

// Chunk is a size-bounded unit of extracted content for a token-limited
// downstream consumer. Produced in one pass; immutable afterwards.
type Chunk struct {
	ID      string
	Type    ContentType
	Content string
	Source  SourceRef
	Meta    ChunkMeta
}

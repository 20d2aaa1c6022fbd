package api

import "time"

type TextBlock struct {
	Page       int     `json:"page"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

type Table struct {
	ID         string     `json:"id"`
	Page       int        `json:"page"`
	Confidence float64    `json:"confidence"`
	Rows       [][]string `json:"rows"`
}

type FormField struct {
	Page       int     `json:"page"`
	Key        string  `json:"key"`
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

type Sheet struct {
	Name    string     `json:"name"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// ChunkRequest is the payload of POST /api/v1/chunks.
type ChunkRequest struct {
	SourceFile string      `json:"source_file"`
	TextBlocks []TextBlock `json:"text_blocks,omitempty"`
	Tables     []Table     `json:"tables,omitempty"`
	FormFields []FormField `json:"form_fields,omitempty"`
	Sheets     []Sheet     `json:"sheets,omitempty"`
}

type SourceRef struct {
	File        string    `json:"file"`
	Pages       []int     `json:"pages,omitempty"`
	Sheet       string    `json:"sheet,omitempty"`
	TableID     string    `json:"table_id,omitempty"`
	Confidences []float64 `json:"confidence_scores,omitempty"`
}

type ChunkMeta struct {
	Index           int       `json:"chunk_index"`
	Total           int       `json:"total_chunks"`
	EstimatedTokens int       `json:"estimated_tokens"`
	CreatedAt       time.Time `json:"created_at"`
}

type Chunk struct {
	ID      string    `json:"chunk_id"`
	Type    string    `json:"type"`
	Content string    `json:"content"`
	Source  SourceRef `json:"source"`
	Meta    ChunkMeta `json:"chunk_metadata"`
}

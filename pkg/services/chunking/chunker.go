package chunking

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/de-tools/invoice-atlas/pkg/models/domain"
)

// Settings contains configurable limits for semantic chunking
type Settings struct {
	// MaxTokens is the soft estimated-token cap per chunk (default: 4000).
	// A single indivisible unit over the cap is still emitted whole.
	MaxTokens int
	// MaxSheetRows caps rows per spreadsheet chunk before row batching (default: 100)
	MaxSheetRows int
	// MinConfidence filters low-confidence source fragments before chunking (default: 0.8)
	MinConfidence float64
}

// DefaultSettings returns the default configuration for chunking
func DefaultSettings() Settings {
	return Settings{
		MaxTokens:     4000,
		MaxSheetRows:  100,
		MinConfidence: 0.8,
	}
}

// Chunker partitions extracted document content into size-bounded chunks for
// a token-limited downstream consumer. Chunking is a pure single pass over
// its input; chunking the same content twice yields identical chunks apart
// from timestamps.
type Chunker struct {
	settings Settings
}

func NewChunker(settings Settings) *Chunker {
	return &Chunker{settings: settings}
}

// Chunk processes each content category independently and concatenates the
// results in text, table, form, spreadsheet order, so one content type's
// boundaries never straddle another's.
func (c *Chunker) Chunk(content domain.ExtractedContent) []domain.Chunk {
	var chunks []domain.Chunk
	chunks = append(chunks, c.chunkText(content)...)
	chunks = append(chunks, c.chunkTables(content)...)
	chunks = append(chunks, c.chunkForms(content)...)
	chunks = append(chunks, c.chunkSheets(content)...)

	now := time.Now().UTC()
	for i := range chunks {
		chunks[i].ID = fmt.Sprintf("%s_%d", sourceName(content.SourceFile), i+1)
		chunks[i].Meta = domain.ChunkMeta{
			Index:           i + 1,
			Total:           len(chunks),
			EstimatedTokens: estimateTokens(chunks[i].Content),
			CreatedAt:       now,
		}
	}
	return chunks
}

// chunkText groups text blocks by page and accumulates pages into one chunk
// until adding the next block would exceed the token cap. An oversized
// single block is emitted alone rather than dropped.
func (c *Chunker) chunkText(content domain.ExtractedContent) []domain.Chunk {
	blocks := make([]domain.TextBlock, 0, len(content.TextBlocks))
	for _, block := range content.TextBlocks {
		if block.Confidence >= c.settings.MinConfidence && strings.TrimSpace(block.Text) != "" {
			blocks = append(blocks, block)
		}
	}
	sort.SliceStable(blocks, func(i, j int) bool { return blocks[i].Page < blocks[j].Page })

	var chunks []domain.Chunk
	var buf strings.Builder
	var pages []int
	var confidences []float64

	flush := func() {
		if buf.Len() == 0 {
			return
		}
		chunks = append(chunks, domain.Chunk{
			Type:    domain.ContentText,
			Content: buf.String(),
			Source: domain.SourceRef{
				File:        content.SourceFile,
				Pages:       append([]int(nil), pages...),
				Confidences: append([]float64(nil), confidences...),
			},
		})
		buf.Reset()
		pages = nil
		confidences = nil
	}

	for _, block := range blocks {
		if buf.Len() > 0 && estimateTokens(buf.String()+block.Text) > c.settings.MaxTokens {
			flush()
		}
		buf.WriteString(block.Text)
		buf.WriteString("\n")
		if len(pages) == 0 || pages[len(pages)-1] != block.Page {
			pages = append(pages, block.Page)
		}
		confidences = append(confidences, block.Confidence)
	}
	flush()

	return chunks
}

// chunkTables emits one chunk per table. Tables are never split; row and
// column semantics do not survive accidental splitting.
func (c *Chunker) chunkTables(content domain.ExtractedContent) []domain.Chunk {
	var chunks []domain.Chunk
	for i, table := range content.Tables {
		if table.Confidence < c.settings.MinConfidence {
			continue
		}

		var buf strings.Builder
		fmt.Fprintf(&buf, "Table %d (Page %d):\n", i+1, table.Page)
		for rowIdx, row := range table.Rows {
			fmt.Fprintf(&buf, "Row %d: %s\n", rowIdx+1, strings.Join(row, " | "))
		}

		chunks = append(chunks, domain.Chunk{
			Type:    domain.ContentTable,
			Content: buf.String(),
			Source: domain.SourceRef{
				File:        content.SourceFile,
				Pages:       []int{table.Page},
				TableID:     table.ID,
				Confidences: []float64{table.Confidence},
			},
		})
	}
	return chunks
}

// chunkForms groups key/value pairs by page and accumulates page sections
// with the same size strategy as text.
func (c *Chunker) chunkForms(content domain.ExtractedContent) []domain.Chunk {
	byPage := make(map[int][]domain.FormField)
	for _, field := range content.FormFields {
		if field.Confidence >= c.settings.MinConfidence {
			byPage[field.Page] = append(byPage[field.Page], field)
		}
	}
	pageNums := make([]int, 0, len(byPage))
	for page := range byPage {
		pageNums = append(pageNums, page)
	}
	sort.Ints(pageNums)

	var chunks []domain.Chunk
	var buf strings.Builder
	var pages []int
	var confidences []float64

	flush := func() {
		if buf.Len() == 0 {
			return
		}
		chunks = append(chunks, domain.Chunk{
			Type:    domain.ContentForm,
			Content: buf.String(),
			Source: domain.SourceRef{
				File:        content.SourceFile,
				Pages:       append([]int(nil), pages...),
				Confidences: append([]float64(nil), confidences...),
			},
		})
		buf.Reset()
		pages = nil
		confidences = nil
	}

	for _, page := range pageNums {
		var section strings.Builder
		fmt.Fprintf(&section, "Form Data (Page %d):\n", page)
		for _, field := range byPage[page] {
			fmt.Fprintf(&section, "%s: %s\n", field.Key, field.Value)
		}

		if buf.Len() > 0 && estimateTokens(buf.String()+section.String()) > c.settings.MaxTokens {
			flush()
		}
		buf.WriteString(section.String())
		pages = append(pages, page)
		for _, field := range byPage[page] {
			confidences = append(confidences, field.Confidence)
		}
	}
	flush()

	return chunks
}

// chunkSheets emits one chunk per sheet when it fits, otherwise row batches
// capped by MaxSheetRows.
func (c *Chunker) chunkSheets(content domain.ExtractedContent) []domain.Chunk {
	var chunks []domain.Chunk
	for _, sheet := range content.Sheets {
		whole := renderSheet(sheet, sheet.Rows, 0, len(sheet.Rows))
		if len(sheet.Rows) <= c.settings.MaxSheetRows && estimateTokens(whole) <= c.settings.MaxTokens {
			chunks = append(chunks, domain.Chunk{
				Type:    domain.ContentSpreadsheet,
				Content: whole,
				Source:  domain.SourceRef{File: content.SourceFile, Sheet: sheet.Name},
			})
			continue
		}

		for start := 0; start < len(sheet.Rows); start += c.settings.MaxSheetRows {
			end := start + c.settings.MaxSheetRows
			if end > len(sheet.Rows) {
				end = len(sheet.Rows)
			}
			chunks = append(chunks, domain.Chunk{
				Type:    domain.ContentSpreadsheet,
				Content: renderSheet(sheet, sheet.Rows[start:end], start, len(sheet.Rows)),
				Source:  domain.SourceRef{File: content.SourceFile, Sheet: sheet.Name},
			})
		}
	}
	return chunks
}

func renderSheet(sheet domain.Sheet, rows [][]string, offset, total int) string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Sheet: %s\n", sheet.Name)
	if offset > 0 || len(rows) < total {
		fmt.Fprintf(&buf, "Rows %d-%d of %d\n", offset+1, offset+len(rows), total)
	}
	if len(sheet.Columns) > 0 {
		fmt.Fprintf(&buf, "Columns: %s\n", strings.Join(sheet.Columns, " | "))
	}
	for i, row := range rows {
		fmt.Fprintf(&buf, "Row %d: %s\n", offset+i+1, strings.Join(row, " | "))
	}
	return buf.String()
}

// estimateTokens is a conservative character-count heuristic, roughly one
// token per four characters.
func estimateTokens(text string) int {
	return len(text) / 4
}

func sourceName(file string) string {
	if file == "" {
		return "unknown"
	}
	return file
}

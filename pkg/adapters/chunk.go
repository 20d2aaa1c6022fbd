package adapters

import (
	"github.com/de-tools/invoice-atlas/pkg/models/api"
	"github.com/de-tools/invoice-atlas/pkg/models/domain"
)

func MapChunkRequestApiToDomain(r api.ChunkRequest) domain.ExtractedContent {
	content := domain.ExtractedContent{SourceFile: r.SourceFile}
	for _, b := range r.TextBlocks {
		content.TextBlocks = append(content.TextBlocks, domain.TextBlock{
			Page:       b.Page,
			Text:       b.Text,
			Confidence: b.Confidence,
		})
	}
	for _, t := range r.Tables {
		content.Tables = append(content.Tables, domain.Table{
			ID:         t.ID,
			Page:       t.Page,
			Confidence: t.Confidence,
			Rows:       t.Rows,
		})
	}
	for _, f := range r.FormFields {
		content.FormFields = append(content.FormFields, domain.FormField{
			Page:       f.Page,
			Key:        f.Key,
			Value:      f.Value,
			Confidence: f.Confidence,
		})
	}
	for _, s := range r.Sheets {
		content.Sheets = append(content.Sheets, domain.Sheet{
			Name:    s.Name,
			Columns: s.Columns,
			Rows:    s.Rows,
		})
	}
	return content
}

func MapChunkDomainToApi(c domain.Chunk) api.Chunk {
	return api.Chunk{
		ID:      c.ID,
		Type:    string(c.Type),
		Content: c.Content,
		Source: api.SourceRef{
			File:        c.Source.File,
			Pages:       c.Source.Pages,
			Sheet:       c.Source.Sheet,
			TableID:     c.Source.TableID,
			Confidences: c.Source.Confidences,
		},
		Meta: api.ChunkMeta{
			Index:           c.Meta.Index,
			Total:           c.Meta.Total,
			EstimatedTokens: c.Meta.EstimatedTokens,
			CreatedAt:       c.Meta.CreatedAt,
		},
	}
}

func MapChunksDomainToApi(chunks []domain.Chunk) []api.Chunk {
	res := make([]api.Chunk, 0, len(chunks))
	for _, c := range chunks {
		res = append(res, MapChunkDomainToApi(c))
	}
	return res
}

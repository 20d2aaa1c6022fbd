package adapters

import (
	"github.com/de-tools/invoice-atlas/pkg/models/api"
	"github.com/de-tools/invoice-atlas/pkg/models/domain"
)

func MapSeverityDomainToApi(s domain.Severity) api.Severity {
	switch s {
	case domain.SeverityLow:
		return api.SeverityLow
	case domain.SeverityMedium:
		return api.SeverityMedium
	case domain.SeverityHigh:
		return api.SeverityHigh
	default:
		return api.SeverityLow
	}
}

func MapSeverityApiToDomain(s api.Severity) domain.Severity {
	switch s {
	case api.SeverityHigh:
		return domain.SeverityHigh
	case api.SeverityMedium:
		return domain.SeverityMedium
	default:
		return domain.SeverityLow
	}
}

func MapLaborEntryApiToDomain(e api.LaborEntry) domain.LaborEntry {
	return domain.LaborEntry{
		Worker:         e.Worker,
		Classification: domain.Classification(e.Classification),
		Hours:          e.Hours,
		Rate:           e.Rate,
		Total:          e.Total,
		Period:         e.Period,
		Location:       e.Location,
	}
}

func MapMaterialEntryApiToDomain(e api.MaterialEntry) domain.MaterialEntry {
	return domain.MaterialEntry{
		Description: e.Description,
		Quantity:    e.Quantity,
		UnitPrice:   e.UnitPrice,
		Total:       e.Total,
		Category:    e.Category,
	}
}

func MapFlagDomainToApi(f domain.Flag) api.Flag {
	return api.Flag{
		Kind:           string(f.Kind),
		Severity:       MapSeverityDomainToApi(f.Severity),
		Subject:        f.Subject,
		Classification: string(f.Classification),
		Period:         f.Period,
		ChargedRate:    f.ChargedRate,
		StandardRate:   f.StandardRate,
		VariancePct:    f.VariancePct,
		VarianceAmount: f.VarianceAmount,
		TotalHours:     f.TotalHours,
		Threshold:      f.Threshold,
		ExcessHours:    f.ExcessHours,
		Count:          f.Count,
		Amount:         f.Amount,
		AnomalyScore:   copyScore(f.AnomalyScore),
		ZScore:         copyScore(f.ZScore),
		Savings:        f.Savings,
		Description:    f.Description,
	}
}

func MapFlagApiToDomain(f api.Flag) domain.Flag {
	return domain.Flag{
		Kind:           domain.FlagKind(f.Kind),
		Severity:       MapSeverityApiToDomain(f.Severity),
		Subject:        f.Subject,
		Classification: domain.Classification(f.Classification),
		Period:         f.Period,
		ChargedRate:    f.ChargedRate,
		StandardRate:   f.StandardRate,
		VariancePct:    f.VariancePct,
		VarianceAmount: f.VarianceAmount,
		TotalHours:     f.TotalHours,
		Threshold:      f.Threshold,
		ExcessHours:    f.ExcessHours,
		Count:          f.Count,
		Amount:         f.Amount,
		AnomalyScore:   copyScore(f.AnomalyScore),
		ZScore:         copyScore(f.ZScore),
		Savings:        f.Savings,
		Description:    f.Description,
	}
}

func MapReportDomainToApi(r domain.DiscrepancyReport) api.DiscrepancyReport {
	res := api.DiscrepancyReport{
		AuditID:   r.AuditID,
		CreatedAt: r.CreatedAt,
		Flags:     make([]api.Flag, 0, len(r.Flags)),
		Summary: api.ReportSummary{
			TotalDiscrepancies: r.Summary.TotalDiscrepancies,
			CountByKind:        map[string]int{},
			TotalSavings:       r.Summary.TotalSavings,
			LaborEntries:       r.Summary.LaborEntries,
			MaterialEntries:    r.Summary.MaterialEntries,
			TotalLaborCost:     r.Summary.TotalLaborCost,
			ExpectedLaborCost:  r.Summary.ExpectedLaborCost,
		},
	}
	for k, v := range r.Summary.CountByKind {
		res.Summary.CountByKind[string(k)] = v
	}
	for _, f := range r.Flags {
		res.Flags = append(res.Flags, MapFlagDomainToApi(f))
	}
	for _, issue := range r.Issues {
		res.Issues = append(res.Issues, api.EntryIssue{Subject: issue.Subject, Reason: issue.Reason})
	}
	return res
}

func MapReportApiToDomain(r api.DiscrepancyReport) domain.DiscrepancyReport {
	res := domain.DiscrepancyReport{
		AuditID:   r.AuditID,
		CreatedAt: r.CreatedAt,
		Flags:     make([]domain.Flag, 0, len(r.Flags)),
		Summary: domain.ReportSummary{
			TotalDiscrepancies: r.Summary.TotalDiscrepancies,
			CountByKind:        map[domain.FlagKind]int{},
			TotalSavings:       r.Summary.TotalSavings,
			LaborEntries:       r.Summary.LaborEntries,
			MaterialEntries:    r.Summary.MaterialEntries,
			TotalLaborCost:     r.Summary.TotalLaborCost,
			ExpectedLaborCost:  r.Summary.ExpectedLaborCost,
		},
	}
	for k, v := range r.Summary.CountByKind {
		res.Summary.CountByKind[domain.FlagKind(k)] = v
	}
	for _, f := range r.Flags {
		res.Flags = append(res.Flags, MapFlagApiToDomain(f))
	}
	for _, issue := range r.Issues {
		res.Issues = append(res.Issues, domain.EntryIssue{Subject: issue.Subject, Reason: issue.Reason})
	}
	return res
}

func copyScore(s *float64) *float64 {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

package service

import (
	"sort"

	"github.com/nurpe/contract-analytics/internal/model"
)

// CountByMethod groups records by procurement method and counts them. Every
// record with the key is counted, whether or not its amount parsed. Ordered
// by descending count, ties by key for determinism.
func CountByMethod(records []model.ContractRecord) []model.CategoryStat {
	stats := groupByMethod(records)
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Key < stats[j].Key
	})
	return stats
}

// AmountByMethod groups records by procurement method and totals their
// amounts (a null amount contributes 0). Ordered by descending sum, ties by
// key.
func AmountByMethod(records []model.ContractRecord) []model.CategoryStat {
	stats := groupByMethod(records)
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Amount != stats[j].Amount {
			return stats[i].Amount > stats[j].Amount
		}
		return stats[i].Key < stats[j].Key
	})
	return stats
}

func groupByMethod(records []model.ContractRecord) []model.CategoryStat {
	index := make(map[string]int)
	stats := make([]model.CategoryStat, 0)
	for _, record := range records {
		pos, ok := index[record.ProcurementMethod]
		if !ok {
			stats = append(stats, model.CategoryStat{Key: record.ProcurementMethod})
			pos = len(stats) - 1
			index[record.ProcurementMethod] = pos
		}
		stats[pos].Count++
		if record.Amount != nil {
			stats[pos].Amount += *record.Amount
		}
	}
	return stats
}

// OngoingByYear groups records by the year of their performance start,
// counting and totalling per year in ascending year order. Records without a
// performance start date are dropped from this breakdown.
func OngoingByYear(records []model.ContractRecord) []model.YearStat {
	index := make(map[int]int)
	stats := make([]model.YearStat, 0)
	for _, record := range records {
		if record.PerformanceStart == nil {
			continue
		}
		year := record.PerformanceStart.Year()
		pos, ok := index[year]
		if !ok {
			stats = append(stats, model.YearStat{Year: year})
			pos = len(stats) - 1
			index[year] = pos
		}
		stats[pos].Count++
		if record.Amount != nil {
			stats[pos].Amount += *record.Amount
		}
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Year < stats[j].Year })
	return stats
}

// Summarize computes the scalar metrics for a record collection. Total and
// mean only consider parseable amounts; count covers every record.
func Summarize(records []model.ContractRecord) model.Summary {
	summary := model.Summary{Count: int64(len(records))}
	priced := int64(0)
	for _, record := range records {
		if record.Amount != nil {
			summary.TotalAmount += *record.Amount
			priced++
		}
	}
	if priced > 0 {
		summary.MeanAmount = summary.TotalAmount / float64(priced)
	}
	return summary
}

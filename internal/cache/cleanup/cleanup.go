// Package cleanup вытесняет устаревшие и лишние записи из персистентного кэша
// по правилам таблицы политик.
package cleanup

import (
	"time"

	"github.com/iudanet/zapsync/internal/cache/policy"
	"github.com/iudanet/zapsync/internal/models"
)

// Report описывает результат одного прохода очистки
type Report struct {
	Removed map[policy.Domain]int // Removed количество удаленных записей по доменам
	Before  int                   // Before количество записей до очистки
	After   int                   // After количество записей после очистки
}

// RemovedTotal возвращает общее количество удаленных записей
func (r *Report) RemovedTotal() int {
	if r == nil {
		return 0
	}
	return r.Before - r.After
}

// Cleanup возвращает новый снимок, из которого удалены:
//  1. записи доменов с Persist = false;
//  2. записи старше MaxAge своего домена (возраст, равный MaxAge, тоже вытесняется);
//  3. записи сверх MaxItems домена (сохраняются первые в текущем порядке).
//
// Записи неизвестных доменов сохраняются всегда. Мутации и прочие поля
// снимка не меняются. Исходный снимок не модифицируется.
func Cleanup(snapshot *models.Snapshot, table *policy.Table, now time.Time) *models.Snapshot {
	cleaned, _ := cleanup(snapshot, table, now)
	return cleaned
}

func cleanup(snapshot *models.Snapshot, table *policy.Table, now time.Time) (*models.Snapshot, *Report) {
	report := &Report{Removed: make(map[policy.Domain]int)}
	if snapshot == nil {
		return nil, report
	}

	result := snapshot.Clone()
	queries := snapshot.ClientState.Queries
	report.Before = len(queries)

	kept := make([]models.QueryRecord, 0, len(queries))
	perDomain := make(map[policy.Domain]int)

	for _, q := range queries {
		class := table.Classify(q.QueryKey)
		if !class.Evictable() {
			kept = append(kept, q)
			continue
		}

		p := class.Policy
		switch {
		case !p.Persist:
			report.Removed[class.Domain]++
		case q.Age(now) >= p.MaxAge:
			report.Removed[class.Domain]++
		case p.HasItemLimit() && perDomain[class.Domain] >= p.MaxItems:
			report.Removed[class.Domain]++
		default:
			perDomain[class.Domain]++
			kept = append(kept, q)
		}
	}

	result.ClientState.Queries = kept
	report.After = len(kept)

	return result, report
}

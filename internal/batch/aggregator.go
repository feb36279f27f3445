package batch

import (
	"sort"
	"strings"

	"trendcli/pkg/contracts/domain"
)

// AggregationContext accumulates per-stock state across processed
// batches. It is owned by the orchestrator and passed explicitly; batch
// parsing itself stays pure so batches can be parsed in parallel while
// merges are serialized.
type AggregationContext struct {
	batches  []*Result
	trends   map[string][]domain.TrendPoint
	concepts map[string]string // first batch's tag wins, never overwritten
	names    map[string]string
}

// NewAggregationContext returns an empty aggregation context.
func NewAggregationContext() *AggregationContext {
	return &AggregationContext{
		trends:   make(map[string][]domain.TrendPoint),
		concepts: make(map[string]string),
		names:    make(map[string]string),
	}
}

// Merge folds one batch result into the context, in processing order.
func (a *AggregationContext) Merge(res *Result) {
	a.batches = append(a.batches, res)
	for _, rec := range res.Records {
		a.trends[rec.Code] = append(a.trends[rec.Code], domain.TrendPoint{Date: rec.Date, Passed: rec.Passed})
		if _, seen := a.names[rec.Code]; !seen {
			a.names[rec.Code] = rec.Name
		}
	}
	for code, concept := range res.Concepts {
		if _, seen := a.concepts[code]; !seen {
			a.concepts[code] = concept
		}
	}
}

// BatchCount returns the number of merged batches.
func (a *AggregationContext) BatchCount() int { return len(a.batches) }

// Warnings returns the accumulated non-fatal warnings from all merged
// batches, in processing order.
func (a *AggregationContext) Warnings() []string {
	var out []string
	for _, b := range a.batches {
		out = append(out, b.Warnings...)
	}
	return out
}

// BatchDates returns the distinct batch dates in ascending order.
func (a *AggregationContext) BatchDates() []string {
	set := make(map[string]struct{}, len(a.batches))
	for _, b := range a.batches {
		set[b.Date] = struct{}{}
	}
	dates := make([]string, 0, len(set))
	for d := range set {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// Records returns all merged batch records in processing order.
func (a *AggregationContext) Records() []domain.BatchRecord {
	var out []domain.BatchRecord
	for _, b := range a.batches {
		out = append(out, b.Records...)
	}
	return out
}

// Trend returns the (date, passed) trajectory recorded for a stock.
func (a *AggregationContext) Trend(code string) []domain.TrendPoint {
	return a.trends[code]
}

// Concept returns the first-seen concept tag for a stock.
func (a *AggregationContext) Concept(code string) string {
	if c, ok := a.concepts[code]; ok {
		return c
	}
	return domain.UnknownConcept
}

// BatchTrend summarizes market heat per batch date: total screened stocks
// and how many passed. Re-uploads of a date keep the latest counts.
func (a *AggregationContext) BatchTrend() []domain.BatchTrendPoint {
	byDate := make(map[string]domain.BatchTrendPoint)
	for _, b := range a.batches {
		point := domain.BatchTrendPoint{
			Date:   b.Date,
			Total:  len(b.Records),
			Passed: b.PassedCount(),
		}
		if point.Total > 0 {
			point.PassRate = float64(point.Passed) / float64(point.Total)
		}
		byDate[b.Date] = point
	}
	out := make([]domain.BatchTrendPoint, 0, len(byDate))
	for _, p := range byDate {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Gains computes each stock's period-over-period price change across
// batches, walking batches in date order and tracking the first and last
// observed closing price per code.
func (a *AggregationContext) Gains() []domain.StockGain {
	ordered := make([]*Result, len(a.batches))
	copy(ordered, a.batches)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Date < ordered[j].Date })

	trackers := make(map[string]*domain.StockGain)
	var codes []string
	for _, b := range ordered {
		for code, series := range b.StockData {
			price, ok := series.LatestClose()
			if !ok {
				continue
			}
			if tracker, seen := trackers[code]; seen {
				tracker.LastPrice = price
				tracker.LastDate = b.Date
			} else {
				trackers[code] = &domain.StockGain{
					Code:       code,
					Concept:    a.Concept(code),
					FirstPrice: price,
					LastPrice:  price,
					FirstDate:  b.Date,
					LastDate:   b.Date,
				}
				codes = append(codes, code)
			}
		}
	}

	gains := make([]domain.StockGain, 0, len(codes))
	for _, code := range codes {
		t := trackers[code]
		if t.FirstPrice == 0 {
			continue
		}
		t.GainPct = (t.LastPrice - t.FirstPrice) / t.FirstPrice * 100
		gains = append(gains, *t)
	}
	return gains
}

// ConceptRanking splits each stock's semicolon-delimited concept string,
// drops blank and unknown tags, and aggregates gains per concept. The
// result is sorted by average gain descending.
func (a *AggregationContext) ConceptRanking() []domain.ConceptStat {
	type acc struct {
		codes map[string]struct{}
		gains []float64
	}
	byConcept := make(map[string]*acc)

	for _, gain := range a.Gains() {
		for _, tag := range strings.Split(gain.Concept, ";") {
			tag = strings.TrimSpace(tag)
			if tag == "" || tag == domain.UnknownConcept || strings.EqualFold(tag, "nan") {
				continue
			}
			entry, ok := byConcept[tag]
			if !ok {
				entry = &acc{codes: make(map[string]struct{})}
				byConcept[tag] = entry
			}
			entry.codes[gain.Code] = struct{}{}
			entry.gains = append(entry.gains, gain.GainPct)
		}
	}

	stats := make([]domain.ConceptStat, 0, len(byConcept))
	for concept, entry := range byConcept {
		stat := domain.ConceptStat{
			Concept:    concept,
			StockCount: len(entry.codes),
			MaxGain:    entry.gains[0],
			MinGain:    entry.gains[0],
		}
		sum := 0.0
		for _, g := range entry.gains {
			sum += g
			if g > stat.MaxGain {
				stat.MaxGain = g
			}
			if g < stat.MinGain {
				stat.MinGain = g
			}
		}
		stat.AvgGain = sum / float64(len(entry.gains))
		stats = append(stats, stat)
	}
	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].AvgGain != stats[j].AvgGain {
			return stats[i].AvgGain > stats[j].AvgGain
		}
		return stats[i].Concept < stats[j].Concept
	})
	return stats
}

// CommonStocks returns the stocks present in every merged batch,
// decorated with the slope from the latest batch date. Requires at least
// two batches; otherwise returns nil.
func (a *AggregationContext) CommonStocks() []domain.CommonStock {
	dates := a.BatchDates()
	if len(dates) < 2 {
		return nil
	}

	seenOn := make(map[string]map[string]struct{})
	for _, b := range a.batches {
		for _, rec := range b.Records {
			if seenOn[rec.Code] == nil {
				seenOn[rec.Code] = make(map[string]struct{})
			}
			seenOn[rec.Code][rec.Date] = struct{}{}
		}
	}

	latest := dates[len(dates)-1]
	slopes := make(map[string]*float64)
	for _, b := range a.batches {
		if b.Date != latest {
			continue
		}
		for _, rec := range b.Records {
			slopes[rec.Code] = rec.Slope
		}
	}

	var out []domain.CommonStock
	for code, days := range seenOn {
		if len(days) != len(dates) {
			continue
		}
		out = append(out, domain.CommonStock{
			Code:    code,
			Name:    a.names[code],
			Concept: a.Concept(code),
			Slope:   slopes[code],
		})
	}
	sort.Slice(out, func(i, j int) bool {
		si, sj := out[i].Slope, out[j].Slope
		switch {
		case si == nil && sj == nil:
			return out[i].Code < out[j].Code
		case si == nil:
			return false
		case sj == nil:
			return true
		case *si != *sj:
			return *si > *sj
		default:
			return out[i].Code < out[j].Code
		}
	})
	return out
}

// PricePoints assembles the cross-batch dated close series for one stock,
// walking batches in date order, deduplicating same-day observations by
// keeping the last, and sorting ascending by date.
func (a *AggregationContext) PricePoints(code string) []domain.PricePoint {
	ordered := make([]*Result, len(a.batches))
	copy(ordered, a.batches)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Date < ordered[j].Date })

	byDay := make(map[string]domain.PricePoint)
	for _, b := range ordered {
		for _, p := range b.PricePoints[code] {
			byDay[p.Date.Format("2006-01-02")] = p
		}
	}

	out := make([]domain.PricePoint, 0, len(byDay))
	for _, p := range byDay {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

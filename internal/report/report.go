// Package report turns parsed performance results into weighted totals.
package report

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sells-group/kinerja-cli/internal/model"
	"github.com/sells-group/kinerja-cli/internal/score"
)

// Weights holds competency weights in percent, keyed by competency name,
// for each position type.
type Weights struct {
	Eselon map[string]float64
	Staff  map[string]float64
}

func (w Weights) forType(t model.PositionType) map[string]float64 {
	if t == model.PositionTypeEselon {
		return w.Eselon
	}
	return w.Staff
}

// Summary is the report line of one employee.
type Summary struct {
	Name                string                       `json:"name"`
	OrganizationalLevel model.OrganizationalCategory `json:"organizational_level"`
	PositionType        model.PositionType           `json:"position_type"`
	Competencies        int                          `json:"competencies"`
	Average             float64                      `json:"average"`
	WeightedTotal       float64                      `json:"weighted_total"`
	Rating              string                       `json:"rating"`
}

// Summarize computes one Summary per employee, in input order.
func Summarize(employees []model.Employee, weights Weights) []Summary {
	out := make([]Summary, 0, len(employees))
	for _, e := range employees {
		pt := e.OrganizationalLevel.PositionType()
		total := WeightedTotal(e.Performance, weights.forType(pt))
		out = append(out, Summary{
			Name:                e.Name,
			OrganizationalLevel: e.OrganizationalLevel,
			PositionType:        pt,
			Competencies:        len(e.Performance),
			Average:             Average(e.Performance),
			WeightedTotal:       total,
			Rating:              Rating(total),
		})
	}
	return out
}

// Average is the plain mean of all competency scores, rounded to two
// decimals.
func Average(scores []model.CompetencyScore) float64 {
	if len(scores) == 0 {
		return 0
	}
	sum := decimal.Zero
	for _, s := range scores {
		sum = sum.Add(decimal.NewFromFloat(s.Score))
	}
	return sum.Div(decimal.NewFromInt(int64(len(scores)))).Round(2).InexactFloat64()
}

// WeightedTotal is the weighted mean of scores. Competencies named in
// weights use their percentage; the others split what is left of 100
// equally. With no usable weights it falls back to Average.
func WeightedTotal(scores []model.CompetencyScore, weights map[string]float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	hundred := decimal.NewFromInt(100)
	listed := decimal.Zero
	unlisted := 0
	for _, s := range scores {
		if w, ok := weightOf(weights, s.Name); ok {
			listed = listed.Add(decimal.NewFromFloat(w))
		} else {
			unlisted++
		}
	}
	share := decimal.Zero
	if unlisted > 0 && listed.LessThan(hundred) {
		share = hundred.Sub(listed).Div(decimal.NewFromInt(int64(unlisted)))
	}

	sum, totalWeight := decimal.Zero, decimal.Zero
	for _, s := range scores {
		w := share
		if v, ok := weightOf(weights, s.Name); ok {
			w = decimal.NewFromFloat(v)
		}
		sum = sum.Add(decimal.NewFromFloat(s.Score).Mul(w))
		totalWeight = totalWeight.Add(w)
	}
	if !totalWeight.IsPositive() {
		return Average(scores)
	}
	return sum.Div(totalWeight).Round(2).InexactFloat64()
}

// weightOf looks a competency up by exact name, then case-insensitively.
// Config keys arrive lowercased.
func weightOf(weights map[string]float64, name string) (float64, bool) {
	if w, ok := weights[name]; ok {
		return w, true
	}
	for k, w := range weights {
		if strings.EqualFold(k, name) {
			return w, true
		}
	}
	return 0, false
}

// Rating buckets a score into the rating vocabulary.
func Rating(v float64) string {
	switch {
	case v >= 85:
		return score.LabelSangatBaik
	case v >= 75:
		return score.LabelBaik
	default:
		return score.LabelKurangBaik
	}
}

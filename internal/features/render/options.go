package render

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go-bi/internal/features/dashboard"
	"go-bi/internal/features/datasource"
)

// Options is the declarative chart description handed to the rendering
// engine. Building it is pure: the same widget and rows always produce
// a structurally identical result.
type Options struct {
	Kind        dashboard.ChartType `json:"kind"`
	Title       string              `json:"title,omitempty"`
	XLabel      string              `json:"x_label,omitempty"`
	YLabel      string              `json:"y_label,omitempty"`
	Categories  []string            `json:"categories"`
	Series      []Series            `json:"series"`
	Placeholder string              `json:"placeholder,omitempty"`
}

type Series struct {
	Name string    `json:"name"`
	Data []float64 `json:"data"`
}

// BuildOptions translates a widget configuration plus a materialized row
// set into chart options. A half-configured widget (missing axes, columns
// absent from the rows) degrades to an empty-series placeholder rather
// than failing: the user may be mid-configuration.
func BuildOptions(w dashboard.Widget, rows []datasource.Row) Options {
	cfg := w.Config
	opts := Options{
		Kind:       w.ChartType,
		Title:      w.Name,
		XLabel:     cfg.XAxis,
		YLabel:     cfg.YAxis,
		Categories: []string{},
		Series:     []Series{},
	}

	agg := cfg.Aggregation
	if agg == "" {
		agg = dashboard.AggregationCount
	}

	xAxis := strings.TrimSpace(cfg.XAxis)
	if xAxis == "" {
		opts.Placeholder = "no x-axis configured"
		return opts
	}
	yAxis := strings.TrimSpace(cfg.YAxis)
	if yAxis == "" && agg != dashboard.AggregationCount {
		opts.Placeholder = "no y-axis configured"
		return opts
	}

	filtered := applyFilters(rows, cfg.Filters)

	// Group by x-axis value, categories in first-appearance order.
	// Rows without the x-axis column contribute nothing.
	var categories []string
	groups := make(map[string][]datasource.Row)
	for _, row := range filtered {
		val, ok := row[xAxis]
		if !ok {
			continue
		}
		key := fmt.Sprintf("%v", val)
		if _, seen := groups[key]; !seen {
			categories = append(categories, key)
		}
		groups[key] = append(groups[key], row)
	}
	if len(categories) == 0 {
		return opts
	}
	opts.Categories = categories

	primaryName := yAxis
	if agg == dashboard.AggregationCount {
		primaryName = "count"
	}
	fields := []string{yAxis}
	names := []string{primaryName}
	for _, extra := range cfg.Series {
		if extra == yAxis {
			continue
		}
		fields = append(fields, extra)
		names = append(names, extra)
	}

	for i, field := range fields {
		s := Series{Name: names[i], Data: make([]float64, len(categories))}
		for j, cat := range categories {
			s.Data[j] = aggregate(groups[cat], field, agg)
		}
		opts.Series = append(opts.Series, s)
	}

	if cfg.Sort != nil {
		sortOptions(&opts, *cfg.Sort, xAxis, fields)
	}
	return opts
}

func applyFilters(rows []datasource.Row, filters []dashboard.Filter) []datasource.Row {
	if len(filters) == 0 {
		return rows
	}
	out := make([]datasource.Row, 0, len(rows))
	for _, row := range rows {
		keep := true
		for _, f := range filters {
			if !matches(row, f) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, row)
		}
	}
	return out
}

// matches applies one filter to one row. A row missing the filtered
// field never matches.
func matches(row datasource.Row, f dashboard.Filter) bool {
	val, ok := row[f.Field]
	if !ok {
		return false
	}

	switch f.Operator {
	case dashboard.OperatorContains:
		if f.Value.Kind != dashboard.FilterValueString {
			return false
		}
		s, ok := val.(string)
		if !ok {
			return false
		}
		return strings.Contains(strings.ToLower(s), strings.ToLower(f.Value.Str))

	case dashboard.OperatorEq, dashboard.OperatorNeq:
		eq := valueEquals(val, f.Value)
		if f.Operator == dashboard.OperatorNeq {
			return !eq
		}
		return eq

	case dashboard.OperatorGt, dashboard.OperatorGte, dashboard.OperatorLt, dashboard.OperatorLte:
		if f.Value.Kind != dashboard.FilterValueNumber {
			return false
		}
		n, ok := asNumber(val)
		if !ok {
			return false
		}
		switch f.Operator {
		case dashboard.OperatorGt:
			return n > f.Value.Num
		case dashboard.OperatorGte:
			return n >= f.Value.Num
		case dashboard.OperatorLt:
			return n < f.Value.Num
		default:
			return n <= f.Value.Num
		}
	}
	return false
}

func valueEquals(val any, fv dashboard.FilterValue) bool {
	switch fv.Kind {
	case dashboard.FilterValueString:
		s, ok := val.(string)
		return ok && s == fv.Str
	case dashboard.FilterValueNumber:
		n, ok := asNumber(val)
		return ok && n == fv.Num
	case dashboard.FilterValueBool:
		b, ok := val.(bool)
		return ok && b == fv.Bool
	}
	return false
}

func aggregate(rows []datasource.Row, field string, agg dashboard.AggregationType) float64 {
	if agg == dashboard.AggregationCount {
		return float64(len(rows))
	}

	var sum, min, max float64
	var count int
	for _, row := range rows {
		val, ok := row[field]
		if !ok {
			continue
		}
		n, ok := asNumber(val)
		if !ok {
			continue
		}
		if count == 0 || n < min {
			min = n
		}
		if count == 0 || n > max {
			max = n
		}
		sum += n
		count++
	}

	switch agg {
	case dashboard.AggregationSum:
		return sum
	case dashboard.AggregationAvg:
		if count > 0 {
			return sum / float64(count)
		}
		return 0
	case dashboard.AggregationMin:
		return min
	case dashboard.AggregationMax:
		return max
	}
	return 0
}

func asNumber(val any) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// sortOptions reorders categories (and every series with them) by the
// sort spec. Sorting on the x-axis compares labels numerically when both
// parse as numbers; sorting on a series field compares its values. The
// spec's field can name either the series or the column it aggregates
// (the count series displays as "count" but aggregates the y-axis field).
func sortOptions(opts *Options, spec dashboard.SortSpec, xAxis string, fields []string) {
	idx := make([]int, len(opts.Categories))
	for i := range idx {
		idx[i] = i
	}

	var less func(a, b int) bool
	if spec.Field == xAxis {
		less = func(a, b int) bool {
			return labelLess(opts.Categories[a], opts.Categories[b])
		}
	} else {
		var data []float64
		for i, s := range opts.Series {
			if s.Name == spec.Field || (i < len(fields) && fields[i] == spec.Field) {
				data = s.Data
				break
			}
		}
		if data == nil {
			return
		}
		less = func(a, b int) bool { return data[a] < data[b] }
	}

	sort.SliceStable(idx, func(a, b int) bool {
		if spec.Direction == dashboard.SortDesc {
			return less(idx[b], idx[a])
		}
		return less(idx[a], idx[b])
	})

	categories := make([]string, len(idx))
	for i, j := range idx {
		categories[i] = opts.Categories[j]
	}
	opts.Categories = categories

	for si, s := range opts.Series {
		data := make([]float64, len(idx))
		for i, j := range idx {
			data[i] = s.Data[j]
		}
		opts.Series[si].Data = data
	}
}

func labelLess(a, b string) bool {
	na, errA := strconv.ParseFloat(a, 64)
	nb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}

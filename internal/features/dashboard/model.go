package dashboard

import (
	"bytes"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

type ChartType string
type AggregationType string
type LayoutMode string
type FilterOperator string
type SortDirection string

const (
	ChartTypeBar     ChartType = "bar"
	ChartTypeLine    ChartType = "line"
	ChartTypePie     ChartType = "pie"
	ChartTypeTable   ChartType = "table"
	ChartTypeScatter ChartType = "scatter"
	ChartTypeArea    ChartType = "area"
)

const (
	AggregationSum   AggregationType = "sum"
	AggregationAvg   AggregationType = "avg"
	AggregationCount AggregationType = "count"
	AggregationMin   AggregationType = "min"
	AggregationMax   AggregationType = "max"
)

const (
	LayoutGrid     LayoutMode = "grid"
	LayoutFlexible LayoutMode = "flexible"
)

const (
	OperatorEq       FilterOperator = "eq"
	OperatorNeq      FilterOperator = "neq"
	OperatorGt       FilterOperator = "gt"
	OperatorGte      FilterOperator = "gte"
	OperatorLt       FilterOperator = "lt"
	OperatorLte      FilterOperator = "lte"
	OperatorContains FilterOperator = "contains"
)

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

func (t ChartType) Valid() bool {
	switch t {
	case ChartTypeBar, ChartTypeLine, ChartTypePie, ChartTypeTable, ChartTypeScatter, ChartTypeArea:
		return true
	}
	return false
}

func (a AggregationType) Valid() bool {
	switch a {
	case AggregationSum, AggregationAvg, AggregationCount, AggregationMin, AggregationMax:
		return true
	}
	return false
}

func (l LayoutMode) Valid() bool {
	return l == LayoutGrid || l == LayoutFlexible
}

func (o FilterOperator) Valid() bool {
	switch o {
	case OperatorEq, OperatorNeq, OperatorGt, OperatorGte, OperatorLt, OperatorLte, OperatorContains:
		return true
	}
	return false
}

func (d SortDirection) Valid() bool {
	return d == SortAsc || d == SortDesc
}

type FilterValueKind int

const (
	FilterValueNone FilterValueKind = iota
	FilterValueString
	FilterValueNumber
	FilterValueBool
)

// FilterValue is a tagged variant: exactly one of string, number or bool.
// Nulls, objects and arrays are rejected at decode time.
type FilterValue struct {
	Kind FilterValueKind
	Str  string
	Num  float64
	Bool bool
}

func StringValue(s string) FilterValue  { return FilterValue{Kind: FilterValueString, Str: s} }
func NumberValue(n float64) FilterValue { return FilterValue{Kind: FilterValueNumber, Num: n} }
func BoolValue(b bool) FilterValue      { return FilterValue{Kind: FilterValueBool, Bool: b} }

func (v FilterValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case FilterValueString:
		return json.Marshal(v.Str)
	case FilterValueNumber:
		return json.Marshal(v.Num)
	case FilterValueBool:
		return json.Marshal(v.Bool)
	}
	return nil, fmt.Errorf("filter value has no kind")
}

func (v *FilterValue) UnmarshalJSON(data []byte) error {
	// Decoding null into a string is a no-op, not an error, so it has
	// to be rejected before the string attempt.
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return fmt.Errorf("filter value must be string, number or bool, got null")
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = StringValue(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*v = NumberValue(n)
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*v = BoolValue(b)
		return nil
	}
	return fmt.Errorf("filter value must be string, number or bool, got %s", string(data))
}

type Filter struct {
	Field    string         `json:"field"`
	Operator FilterOperator `json:"operator"`
	Value    FilterValue    `json:"value"`
}

type SortSpec struct {
	Field     string        `json:"field"`
	Direction SortDirection `json:"direction"`
}

type WidgetConfig struct {
	XAxis       string          `json:"x_axis,omitempty"`
	YAxis       string          `json:"y_axis,omitempty"`
	Series      []string        `json:"series,omitempty"`
	Aggregation AggregationType `json:"aggregation,omitempty"`
	Filters     []Filter        `json:"filters,omitempty"`
	Sort        *SortSpec       `json:"sort,omitempty"`
}

// WidgetPosition is in layout units. X and Y are unbounded; Width and
// Height are always positive.
type WidgetPosition struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type Widget struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	ChartType    ChartType      `json:"chart_type"`
	DataSourceID string         `json:"data_source_id"`
	Config       WidgetConfig   `json:"config"`
	Position     WidgetPosition `json:"position"`
	CreatedAt    time.Time      `json:"created_at"`
}

type Dashboard struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Layout      LayoutMode `json:"layout"`
	Charts      []Widget   `json:"charts"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Clone returns a deep copy so callers can hand widgets out without
// exposing engine-owned state.
func (w Widget) Clone() Widget {
	out := w
	out.Config = w.Config.Clone()
	return out
}

func (c WidgetConfig) Clone() WidgetConfig {
	out := c
	if c.Series != nil {
		out.Series = append([]string(nil), c.Series...)
	}
	if c.Filters != nil {
		out.Filters = append([]Filter(nil), c.Filters...)
	}
	if c.Sort != nil {
		sort := *c.Sort
		out.Sort = &sort
	}
	return out
}

func (d Dashboard) Clone() Dashboard {
	out := d
	out.Charts = make([]Widget, len(d.Charts))
	for i, w := range d.Charts {
		out.Charts[i] = w.Clone()
	}
	return out
}

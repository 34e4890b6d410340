package dashboard

import (
	"reflect"
	"strings"

	"go-bi/internal/common/apperrors"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DashboardDraft is the payload for creating a dashboard.
type DashboardDraft struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// DashboardPatch carries partial dashboard metadata updates. Nil fields
// are left untouched.
type DashboardPatch struct {
	Name        *string     `json:"name,omitempty"`
	Description *string     `json:"description,omitempty"`
	Layout      *LayoutMode `json:"layout,omitempty"`
}

// WidgetDraft is the payload for adding a widget. Position is optional;
// the engine assigns a default when absent.
type WidgetDraft struct {
	Name         string          `json:"name"`
	ChartType    ChartType       `json:"chart_type" validate:"required"`
	DataSourceID string          `json:"data_source_id" validate:"required"`
	Config       WidgetConfig    `json:"config"`
	Position     *WidgetPosition `json:"position,omitempty"`
}

// WidgetPatch carries partial widget updates. Config is merged shallowly
// at the top level: supplying x_axis alone does not clear y_axis.
type WidgetPatch struct {
	Name     *string         `json:"name,omitempty"`
	Config   *ConfigPatch    `json:"config,omitempty"`
	Position *WidgetPosition `json:"position,omitempty"`
}

type ConfigPatch struct {
	XAxis       *string          `json:"x_axis,omitempty"`
	YAxis       *string          `json:"y_axis,omitempty"`
	Series      *[]string        `json:"series,omitempty"`
	Aggregation *AggregationType `json:"aggregation,omitempty"`
	Filters     *[]Filter        `json:"filters,omitempty"`
	Sort        *SortSpec        `json:"sort,omitempty"`
}

// Validate checks the draft against the widget invariants.
func (d *WidgetDraft) Validate() error {
	if err := validate.Struct(d); err != nil {
		if ferrs, ok := err.(validator.ValidationErrors); ok && len(ferrs) > 0 {
			return apperrors.NewValidation(ferrs[0].Field(), "is required")
		}
		return err
	}
	if !d.ChartType.Valid() {
		return apperrors.NewValidation("chart_type", "unknown chart type "+string(d.ChartType))
	}
	if strings.TrimSpace(d.DataSourceID) == "" {
		return apperrors.NewValidation("data_source_id", "must not be blank")
	}
	if d.Position != nil {
		if err := d.Position.validate(); err != nil {
			return err
		}
	}
	return d.Config.validate()
}

func (p WidgetPosition) validate() error {
	if p.Width <= 0 {
		return apperrors.NewValidation("position.width", "must be positive")
	}
	if p.Height <= 0 {
		return apperrors.NewValidation("position.height", "must be positive")
	}
	return nil
}

func (c WidgetConfig) validate() error {
	for _, s := range c.Series {
		if s == "" {
			return apperrors.NewValidation("config.series", "must not contain empty field names")
		}
	}
	if c.Aggregation != "" && !c.Aggregation.Valid() {
		return apperrors.NewValidation("config.aggregation", "unknown aggregation "+string(c.Aggregation))
	}
	for _, f := range c.Filters {
		if strings.TrimSpace(f.Field) == "" {
			return apperrors.NewValidation("config.filters.field", "must not be blank")
		}
		if !f.Operator.Valid() {
			return apperrors.NewValidation("config.filters.operator", "unknown operator "+string(f.Operator))
		}
		if f.Value.Kind == FilterValueNone {
			return apperrors.NewValidation("config.filters.value", "must be a string, number or bool")
		}
	}
	if c.Sort != nil {
		if strings.TrimSpace(c.Sort.Field) == "" {
			return apperrors.NewValidation("config.sort.field", "must not be blank")
		}
		if !c.Sort.Direction.Valid() {
			return apperrors.NewValidation("config.sort.direction", "must be asc or desc")
		}
	}
	return nil
}

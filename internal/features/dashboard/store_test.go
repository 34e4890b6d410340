package dashboard

import (
	"context"
	"reflect"
	"testing"
	"time"

	"go-bi/internal/common/apperrors"
)

func sampleDashboards() []Dashboard {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return []Dashboard{
		{
			ID:        "dash-1",
			Name:      "Sales",
			Layout:    LayoutGrid,
			CreatedAt: created,
			UpdatedAt: created.Add(time.Minute),
			Charts: []Widget{
				{
					ID:           "widget-1",
					Name:         "Revenue by month",
					ChartType:    ChartTypeBar,
					DataSourceID: "ds1",
					Config: WidgetConfig{
						XAxis:       "month",
						YAxis:       "revenue",
						Series:      []string{"units"},
						Aggregation: AggregationSum,
						Filters: []Filter{
							{Field: "region", Operator: OperatorEq, Value: StringValue("north")},
							{Field: "revenue", Operator: OperatorGt, Value: NumberValue(1000)},
							{Field: "active", Operator: OperatorEq, Value: BoolValue(true)},
						},
						Sort: &SortSpec{Field: "month", Direction: SortAsc},
					},
					Position:  WidgetPosition{X: 10, Y: 20, Width: 400, Height: 300},
					CreatedAt: created,
				},
				{
					ID:           "widget-2",
					ChartType:    ChartTypePie,
					DataSourceID: "ds2",
					Position:     WidgetPosition{Width: 1, Height: 1},
					CreatedAt:    created,
				},
			},
		},
		{
			ID:        "dash-2",
			Name:      "Ops",
			Layout:    LayoutFlexible,
			CreatedAt: created,
			UpdatedAt: created,
		},
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	want := sampleDashboards()

	if err := store.SaveAll(context.Background(), want); err != nil {
		t.Fatalf("SaveAll() error = %v", err)
	}
	got, err := store.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip changed data:\n got %+v\nwant %+v", got, want)
	}

	// A second cycle through the same bytes must be stable.
	if err := store.SaveAll(context.Background(), got); err != nil {
		t.Fatalf("second SaveAll() error = %v", err)
	}
	again, err := store.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("second LoadAll() error = %v", err)
	}
	if !reflect.DeepEqual(again, want) {
		t.Errorf("second round trip changed data")
	}
}

func TestMemoryStoreEmpty(t *testing.T) {
	store := NewMemoryStore()
	got, err := store.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll() on empty store error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("empty store returned %d dashboards", len(got))
	}
}

func TestMemoryStoreCorruption(t *testing.T) {
	base := sampleDashboards()

	mutate := func(fn func(*Dashboard)) []byte {
		ds := sampleDashboards()
		fn(&ds[0])
		data, err := encodeCollection(ds)
		if err != nil {
			t.Fatalf("encodeCollection() error = %v", err)
		}
		return data
	}

	tests := []struct {
		name string
		blob []byte
	}{
		{name: "Not JSON", blob: []byte("{not json")},
		{name: "Wrong Version", blob: []byte(`{"version":99,"dashboards":[]}`)},
		{name: "Missing Dashboard ID", blob: mutate(func(d *Dashboard) { d.ID = "" })},
		{name: "Missing Dashboard Name", blob: mutate(func(d *Dashboard) { d.Name = "" })},
		{name: "Unknown Layout", blob: mutate(func(d *Dashboard) { d.Layout = "stacked" })},
		{name: "UpdatedAt Before CreatedAt", blob: mutate(func(d *Dashboard) {
			d.UpdatedAt = d.CreatedAt.Add(-time.Hour)
		})},
		{name: "Duplicate Widget ID", blob: mutate(func(d *Dashboard) {
			d.Charts[1].ID = d.Charts[0].ID
		})},
		{name: "Unknown Chart Type", blob: mutate(func(d *Dashboard) {
			d.Charts[0].ChartType = "gauge"
		})},
		{name: "Blank Data Source", blob: mutate(func(d *Dashboard) {
			d.Charts[0].DataSourceID = ""
		})},
		{name: "Zero Width", blob: mutate(func(d *Dashboard) {
			d.Charts[0].Position.Width = 0
		})},
		{name: "Empty Series Entry", blob: mutate(func(d *Dashboard) {
			d.Charts[0].Config.Series = []string{"units", ""}
		})},
		{name: "Unknown Aggregation", blob: mutate(func(d *Dashboard) {
			d.Charts[0].Config.Aggregation = "median"
		})},
		{name: "Unknown Filter Operator", blob: mutate(func(d *Dashboard) {
			d.Charts[0].Config.Filters[0].Operator = "like"
		})},
		{name: "Bad Sort Direction", blob: mutate(func(d *Dashboard) {
			d.Charts[0].Config.Sort.Direction = "up"
		})},
		// Raw blobs: a missing or null filter value cannot be produced
		// through the encoder.
		{name: "Filter Without Value", blob: []byte(`{"version":1,"dashboards":[{"id":"d1","name":"Sales","layout":"grid","charts":[{"id":"w1","name":"","chart_type":"bar","data_source_id":"ds1","config":{"filters":[{"field":"region","operator":"eq"}]},"position":{"x":0,"y":0,"width":10,"height":10},"created_at":"2026-03-01T10:00:00Z"}],"created_at":"2026-03-01T10:00:00Z","updated_at":"2026-03-01T10:00:00Z"}]}`)},
		{name: "Null Filter Value", blob: []byte(`{"version":1,"dashboards":[{"id":"d1","name":"Sales","layout":"grid","charts":[{"id":"w1","name":"","chart_type":"bar","data_source_id":"ds1","config":{"filters":[{"field":"region","operator":"eq","value":null}]},"position":{"x":0,"y":0,"width":10,"height":10},"created_at":"2026-03-01T10:00:00Z"}],"created_at":"2026-03-01T10:00:00Z","updated_at":"2026-03-01T10:00:00Z"}]}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStore()
			if err := store.SaveAll(context.Background(), base); err != nil {
				t.Fatalf("SaveAll() error = %v", err)
			}
			store.Corrupt(tt.blob)

			if _, err := store.LoadAll(context.Background()); !apperrors.IsCorruption(err) {
				t.Fatalf("expected corruption error, got %v", err)
			}
		})
	}
}

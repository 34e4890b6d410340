package dashboard

import (
	"fmt"
	"testing"
	"time"

	"go-bi/internal/common/apperrors"
)

// testEngine returns an engine with a stepping clock and predictable ids
// so assertions on timestamps and identity are stable.
func testEngine() (*Engine, *time.Time) {
	e := NewEngine()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	e.now = func() time.Time {
		now = now.Add(time.Second)
		return now
	}
	seq := 0
	e.newID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}
	return e, &now
}

func validDraft() WidgetDraft {
	return WidgetDraft{
		Name:         "Revenue by month",
		ChartType:    ChartTypeBar,
		DataSourceID: "ds1",
		Position:     &WidgetPosition{X: 0, Y: 0, Width: 400, Height: 300},
	}
}

func TestCreateDashboard(t *testing.T) {
	tests := []struct {
		name      string
		draft     DashboardDraft
		wantErr   bool
		wantField string
	}{
		{name: "Valid", draft: DashboardDraft{Name: "Sales"}},
		{name: "Trimmed Name", draft: DashboardDraft{Name: "  Sales  "}},
		{name: "Empty Name", draft: DashboardDraft{Name: ""}, wantErr: true, wantField: "name"},
		{name: "Whitespace Name", draft: DashboardDraft{Name: "   "}, wantErr: true, wantField: "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := testEngine()
			d, err := e.CreateDashboard(tt.draft)
			if tt.wantErr {
				if !apperrors.IsValidation(err) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateDashboard() error = %v", err)
			}
			if d.Name != "Sales" {
				t.Errorf("Name = %q, want %q", d.Name, "Sales")
			}
			if d.Layout != LayoutGrid {
				t.Errorf("Layout = %q, want grid", d.Layout)
			}
			if len(d.Charts) != 0 {
				t.Errorf("new dashboard has %d widgets", len(d.Charts))
			}
			if !d.UpdatedAt.Equal(d.CreatedAt) {
				t.Errorf("UpdatedAt = %v, want CreatedAt %v", d.UpdatedAt, d.CreatedAt)
			}
		})
	}
}

func TestAddWidgetScenario(t *testing.T) {
	e, _ := testEngine()

	d, err := e.CreateDashboard(DashboardDraft{Name: "Sales"})
	if err != nil {
		t.Fatalf("CreateDashboard() error = %v", err)
	}

	w, err := e.AddWidget(d.ID, WidgetDraft{
		ChartType:    ChartTypeBar,
		DataSourceID: "ds1",
		Position:     &WidgetPosition{X: 0, Y: 0, Width: 400, Height: 300},
	})
	if err != nil {
		t.Fatalf("AddWidget() error = %v", err)
	}
	if w.ID == "" || w.CreatedAt.IsZero() {
		t.Errorf("widget missing id or created_at: %+v", w)
	}

	got, err := e.GetDashboard(d.ID)
	if err != nil {
		t.Fatalf("GetDashboard() error = %v", err)
	}
	if len(got.Charts) != 1 {
		t.Fatalf("Charts length = %d, want 1", len(got.Charts))
	}
	if got.UpdatedAt.Before(got.CreatedAt) {
		t.Errorf("UpdatedAt %v before CreatedAt %v", got.UpdatedAt, got.CreatedAt)
	}
	if !got.UpdatedAt.After(got.CreatedAt) {
		t.Errorf("UpdatedAt %v not refreshed past CreatedAt %v", got.UpdatedAt, got.CreatedAt)
	}
}

func TestAddWidgetValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*WidgetDraft)
		ok     bool
	}{
		{name: "Valid", mutate: func(d *WidgetDraft) {}, ok: true},
		{name: "Width One", mutate: func(d *WidgetDraft) { d.Position.Width = 1 }, ok: true},
		{name: "Width Zero", mutate: func(d *WidgetDraft) { d.Position.Width = 0 }},
		{name: "Negative Height", mutate: func(d *WidgetDraft) { d.Position.Height = -10 }},
		{name: "Unknown Chart Type", mutate: func(d *WidgetDraft) { d.ChartType = "gauge" }},
		{name: "Missing Data Source", mutate: func(d *WidgetDraft) { d.DataSourceID = "" }},
		{name: "Blank Data Source", mutate: func(d *WidgetDraft) { d.DataSourceID = "  " }},
		{name: "Empty Series Entry", mutate: func(d *WidgetDraft) { d.Config.Series = []string{"units", ""} }},
		{name: "Unknown Aggregation", mutate: func(d *WidgetDraft) { d.Config.Aggregation = "median" }},
		{name: "Unknown Operator", mutate: func(d *WidgetDraft) {
			d.Config.Filters = []Filter{{Field: "region", Operator: "like", Value: StringValue("north")}}
		}},
		{name: "Filter Without Value", mutate: func(d *WidgetDraft) {
			d.Config.Filters = []Filter{{Field: "region", Operator: OperatorEq}}
		}},
		{name: "Bad Sort Direction", mutate: func(d *WidgetDraft) {
			d.Config.Sort = &SortSpec{Field: "month", Direction: "up"}
		}},
		{name: "No Position Uses Default", mutate: func(d *WidgetDraft) { d.Position = nil }, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := testEngine()
			d, _ := e.CreateDashboard(DashboardDraft{Name: "Sales"})

			draft := validDraft()
			tt.mutate(&draft)

			w, err := e.AddWidget(d.ID, draft)
			if tt.ok {
				if err != nil {
					t.Fatalf("AddWidget() error = %v", err)
				}
				if draft.Position == nil && (w.Position.Width <= 0 || w.Position.Height <= 0) {
					t.Errorf("default position not applied: %+v", w.Position)
				}
				return
			}
			if !apperrors.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestAddWidgetUnknownDashboard(t *testing.T) {
	e, _ := testEngine()
	if _, err := e.AddWidget("nope", validDraft()); !apperrors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteWidgetPreservesOrder(t *testing.T) {
	e, _ := testEngine()
	d, _ := e.CreateDashboard(DashboardDraft{Name: "Sales"})

	first, _ := e.AddWidget(d.ID, validDraft())
	second, _ := e.AddWidget(d.ID, validDraft())
	third, _ := e.AddWidget(d.ID, validDraft())

	if err := e.DeleteWidget(d.ID, first.ID); err != nil {
		t.Fatalf("DeleteWidget() error = %v", err)
	}

	got, _ := e.GetDashboard(d.ID)
	if len(got.Charts) != 2 {
		t.Fatalf("Charts length = %d, want 2", len(got.Charts))
	}
	if got.Charts[0].ID != second.ID || got.Charts[1].ID != third.ID {
		t.Errorf("order after delete = [%s %s], want [%s %s]",
			got.Charts[0].ID, got.Charts[1].ID, second.ID, third.ID)
	}

	if err := e.DeleteWidget(d.ID, first.ID); !apperrors.IsNotFound(err) {
		t.Errorf("deleting removed widget: expected not found, got %v", err)
	}
}

func TestUpdateWidgetShallowMerge(t *testing.T) {
	e, _ := testEngine()
	d, _ := e.CreateDashboard(DashboardDraft{Name: "Sales"})

	draft := validDraft()
	draft.Config.XAxis = "month"
	draft.Config.Aggregation = AggregationSum
	w, _ := e.AddWidget(d.ID, draft)

	yAxis := "revenue"
	got, err := e.UpdateWidget(d.ID, w.ID, WidgetPatch{
		Config: &ConfigPatch{YAxis: &yAxis},
	})
	if err != nil {
		t.Fatalf("UpdateWidget() error = %v", err)
	}

	if got.Config.XAxis != "month" {
		t.Errorf("XAxis cleared by merge: %q", got.Config.XAxis)
	}
	if got.Config.YAxis != "revenue" {
		t.Errorf("YAxis = %q, want revenue", got.Config.YAxis)
	}
	if got.Config.Aggregation != AggregationSum {
		t.Errorf("Aggregation cleared by merge: %q", got.Config.Aggregation)
	}
	if got.ID != w.ID || !got.CreatedAt.Equal(w.CreatedAt) {
		t.Errorf("identity changed by update")
	}
}

func TestUpdateWidgetNotFound(t *testing.T) {
	e, _ := testEngine()
	d, _ := e.CreateDashboard(DashboardDraft{Name: "Sales"})
	w, _ := e.AddWidget(d.ID, validDraft())

	if _, err := e.UpdateWidget("nope", w.ID, WidgetPatch{}); !apperrors.IsNotFound(err) {
		t.Errorf("unknown dashboard: expected not found, got %v", err)
	}
	if _, err := e.UpdateWidget(d.ID, "nope", WidgetPatch{}); !apperrors.IsNotFound(err) {
		t.Errorf("unknown widget: expected not found, got %v", err)
	}
}

func TestSetWidgetPosition(t *testing.T) {
	e, _ := testEngine()
	d, _ := e.CreateDashboard(DashboardDraft{Name: "Sales"})
	w, _ := e.AddWidget(d.ID, validDraft())

	pos := WidgetPosition{X: -50, Y: 120, Width: 640, Height: 480}
	got, err := e.SetWidgetPosition(d.ID, w.ID, pos)
	if err != nil {
		t.Fatalf("SetWidgetPosition() error = %v", err)
	}
	if got.Position != pos {
		t.Errorf("Position = %+v, want %+v", got.Position, pos)
	}

	if _, err := e.SetWidgetPosition(d.ID, w.ID, WidgetPosition{Width: 0, Height: 100}); !apperrors.IsValidation(err) {
		t.Errorf("zero width: expected validation error, got %v", err)
	}
}

func TestUpdateDashboard(t *testing.T) {
	e, _ := testEngine()
	d, _ := e.CreateDashboard(DashboardDraft{Name: "Sales"})
	e.AddWidget(d.ID, validDraft())

	name := "Quarterly Sales"
	layout := LayoutFlexible
	got, err := e.UpdateDashboard(d.ID, DashboardPatch{Name: &name, Layout: &layout})
	if err != nil {
		t.Fatalf("UpdateDashboard() error = %v", err)
	}
	if got.Name != name || got.Layout != layout {
		t.Errorf("patch not applied: %+v", got)
	}
	if len(got.Charts) != 1 {
		t.Errorf("metadata update touched charts")
	}

	empty := " "
	if _, err := e.UpdateDashboard(d.ID, DashboardPatch{Name: &empty}); !apperrors.IsValidation(err) {
		t.Errorf("blank name: expected validation error, got %v", err)
	}
	if _, err := e.UpdateDashboard("nope", DashboardPatch{}); !apperrors.IsNotFound(err) {
		t.Errorf("unknown id: expected not found, got %v", err)
	}
}

func TestDeleteDashboard(t *testing.T) {
	e, _ := testEngine()
	d, _ := e.CreateDashboard(DashboardDraft{Name: "Sales"})
	e.AddWidget(d.ID, validDraft())

	if err := e.DeleteDashboard(d.ID); err != nil {
		t.Fatalf("DeleteDashboard() error = %v", err)
	}
	if _, err := e.GetDashboard(d.ID); !apperrors.IsNotFound(err) {
		t.Errorf("dashboard still resolvable after delete")
	}
	// Deletion is not idempotent: the second call must fail.
	if err := e.DeleteDashboard(d.ID); !apperrors.IsNotFound(err) {
		t.Errorf("second delete: expected not found, got %v", err)
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	e, _ := testEngine()
	d, _ := e.CreateDashboard(DashboardDraft{Name: "Sales"})
	draft := validDraft()
	draft.Config.Series = []string{"units"}
	e.AddWidget(d.ID, draft)

	snap := e.Snapshot()
	snap[0].Name = "mutated"
	snap[0].Charts[0].Config.Series[0] = "mutated"

	got, _ := e.GetDashboard(d.ID)
	if got.Name == "mutated" || got.Charts[0].Config.Series[0] == "mutated" {
		t.Errorf("snapshot shares state with engine")
	}
}

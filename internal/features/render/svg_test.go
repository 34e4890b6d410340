package render

import (
	"bytes"
	"strings"
	"testing"

	"go-bi/internal/common/apperrors"
	"go-bi/internal/features/dashboard"
)

func barOptions() Options {
	return Options{
		Kind:       dashboard.ChartTypeBar,
		Title:      "Revenue <Q1>",
		Categories: []string{"Jan", "Feb", "Mar"},
		Series:     []Series{{Name: "revenue", Data: []float64{250, 200, 200}}},
	}
}

func TestSVGEngineInit(t *testing.T) {
	e := NewSVGEngine()

	if _, err := e.Init(Surface{ID: "s1", Width: 0, Height: 600}); !apperrors.IsValidation(err) {
		t.Errorf("zero width surface: expected validation error, got %v", err)
	}
	if _, err := e.Init(Surface{ID: "s1", Width: 800, Height: 600}); err != nil {
		t.Errorf("Init() error = %v", err)
	}
}

func TestSVGExport(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{name: "Bar", opts: barOptions(), want: []string{"<rect", "Revenue &lt;Q1&gt;", "Jan"}},
		{
			name: "Line",
			opts: Options{Kind: dashboard.ChartTypeLine, Categories: []string{"a", "b"}, Series: []Series{{Name: "v", Data: []float64{1, 2}}}},
			want: []string{"<polyline"},
		},
		{
			name: "Pie",
			opts: Options{Kind: dashboard.ChartTypePie, Categories: []string{"a", "b"}, Series: []Series{{Name: "v", Data: []float64{1, 3}}}},
			want: []string{"<path"},
		},
		{
			name: "Table",
			opts: Options{Kind: dashboard.ChartTypeTable, Categories: []string{"a"}, Series: []Series{{Name: "v", Data: []float64{7}}}},
			want: []string{"<text"},
		},
		{
			name: "Placeholder",
			opts: Options{Kind: dashboard.ChartTypeBar, Placeholder: "no x-axis configured"},
			want: []string{"no x-axis configured"},
		},
		{
			name: "Empty Series",
			opts: Options{Kind: dashboard.ChartTypeBar, Categories: []string{}, Series: []Series{}},
			want: []string{"no data"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst, err := NewSVGEngine().Init(Surface{ID: "s1", Width: 800, Height: 600})
			if err != nil {
				t.Fatalf("Init() error = %v", err)
			}
			if err := inst.Apply(tt.opts); err != nil {
				t.Fatalf("Apply() error = %v", err)
			}

			img, err := inst.Export("svg")
			if err != nil {
				t.Fatalf("Export() error = %v", err)
			}
			out := string(img)
			if !strings.HasPrefix(out, "<svg") || !strings.HasSuffix(out, "</svg>") {
				t.Fatalf("not an svg document: %.60s...", out)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q", want)
				}
			}
		})
	}
}

func TestSVGExportDeterministic(t *testing.T) {
	render := func() []byte {
		inst, err := NewSVGEngine().Init(Surface{ID: "s1", Width: 800, Height: 600})
		if err != nil {
			t.Fatalf("Init() error = %v", err)
		}
		if err := inst.Apply(barOptions()); err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
		img, err := inst.Export("svg")
		if err != nil {
			t.Fatalf("Export() error = %v", err)
		}
		return img
	}

	if !bytes.Equal(render(), render()) {
		t.Errorf("identical options produced different images")
	}
}

func TestSVGExportErrors(t *testing.T) {
	inst, err := NewSVGEngine().Init(Surface{ID: "s1", Width: 800, Height: 600})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	if _, err := inst.Export("svg"); err == nil {
		t.Errorf("export before apply succeeded")
	}

	if err := inst.Apply(barOptions()); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if _, err := inst.Export("png"); !apperrors.IsValidation(err) {
		t.Errorf("unsupported format: expected validation error, got %v", err)
	}

	if err := inst.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := inst.Apply(barOptions()); err == nil {
		t.Errorf("apply after close succeeded")
	}
	if _, err := inst.Export("svg"); err == nil {
		t.Errorf("export after close succeeded")
	}
}

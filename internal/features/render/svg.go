package render

import (
	"fmt"
	"math"
	"strings"

	"go-bi/internal/common/apperrors"
	"go-bi/internal/features/dashboard"
)

// SVGEngine is the built-in rendering engine: a minimal, deterministic
// SVG writer. Deployments embedding a full chart library plug their own
// Engine; this one keeps export working out of the box.
type SVGEngine struct{}

func NewSVGEngine() *SVGEngine {
	return &SVGEngine{}
}

func (e *SVGEngine) Init(surface Surface) (Instance, error) {
	if surface.Width <= 0 || surface.Height <= 0 {
		return nil, apperrors.NewValidation("surface", "must have positive dimensions")
	}
	return &svgInstance{width: surface.Width, height: surface.Height}, nil
}

type svgInstance struct {
	width, height float64
	opts          Options
	applied       bool
	closed        bool
}

var seriesColors = []string{"#4e79a7", "#f28e2b", "#e15759", "#76b7b4", "#59a14f", "#edc948"}

func (i *svgInstance) Apply(opts Options) error {
	if i.closed {
		return fmt.Errorf("chart instance is closed")
	}
	i.opts = opts
	i.applied = true
	return nil
}

func (i *svgInstance) Resize(width, height float64) error {
	if i.closed {
		return fmt.Errorf("chart instance is closed")
	}
	i.width = width
	i.height = height
	return nil
}

func (i *svgInstance) Close() error {
	i.closed = true
	return nil
}

func (i *svgInstance) Export(format string) ([]byte, error) {
	if i.closed {
		return nil, fmt.Errorf("chart instance is closed")
	}
	if format != "svg" {
		return nil, apperrors.NewValidation("format", "only svg is supported")
	}
	if !i.applied {
		return nil, fmt.Errorf("no options applied")
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f">`, i.width, i.height)
	fmt.Fprintf(&b, `<rect width="%.0f" height="%.0f" fill="#ffffff"/>`, i.width, i.height)
	if i.opts.Title != "" {
		fmt.Fprintf(&b, `<text x="%.0f" y="18" text-anchor="middle" font-size="14">%s</text>`, i.width/2, escape(i.opts.Title))
	}

	switch {
	case i.opts.Placeholder != "" || len(i.opts.Series) == 0:
		msg := i.opts.Placeholder
		if msg == "" {
			msg = "no data"
		}
		fmt.Fprintf(&b, `<text x="%.0f" y="%.0f" text-anchor="middle" font-size="12" fill="#888888">%s</text>`, i.width/2, i.height/2, escape(msg))
	case i.opts.Kind == dashboard.ChartTypePie:
		i.drawPie(&b)
	case i.opts.Kind == dashboard.ChartTypeTable:
		i.drawTable(&b)
	default:
		i.drawCartesian(&b)
	}

	b.WriteString(`</svg>`)
	return []byte(b.String()), nil
}

// plot area insets
const (
	padTop    = 30.0
	padBottom = 30.0
	padSide   = 40.0
)

func (i *svgInstance) drawCartesian(b *strings.Builder) {
	opts := i.opts
	plotW := i.width - 2*padSide
	plotH := i.height - padTop - padBottom
	if plotW <= 0 || plotH <= 0 {
		return
	}

	maxVal := 0.0
	for _, s := range opts.Series {
		for _, v := range s.Data {
			if v > maxVal {
				maxVal = v
			}
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}

	n := len(opts.Categories)
	if n == 0 {
		return
	}
	step := plotW / float64(n)
	baseline := padTop + plotH

	fmt.Fprintf(b, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#333333"/>`, padSide, baseline, padSide+plotW, baseline)

	for si, s := range opts.Series {
		color := seriesColors[si%len(seriesColors)]
		switch opts.Kind {
		case dashboard.ChartTypeBar:
			barW := step / float64(len(opts.Series)+1)
			for j, v := range s.Data {
				h := plotH * v / maxVal
				x := padSide + float64(j)*step + barW*float64(si)
				fmt.Fprintf(b, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`, x, baseline-h, barW, h, color)
			}
		case dashboard.ChartTypeScatter:
			for j, v := range s.Data {
				x := padSide + (float64(j)+0.5)*step
				y := baseline - plotH*v/maxVal
				fmt.Fprintf(b, `<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>`, x, y, color)
			}
		default: // line, area and everything cartesian-shaped
			points := make([]string, len(s.Data))
			for j, v := range s.Data {
				x := padSide + (float64(j)+0.5)*step
				y := baseline - plotH*v/maxVal
				points[j] = fmt.Sprintf("%.1f,%.1f", x, y)
			}
			if opts.Kind == dashboard.ChartTypeArea {
				first := padSide + 0.5*step
				last := padSide + (float64(len(s.Data))-0.5)*step
				fmt.Fprintf(b, `<polygon points="%.1f,%.1f %s %.1f,%.1f" fill="%s" fill-opacity="0.4"/>`,
					first, baseline, strings.Join(points, " "), last, baseline, color)
			} else {
				fmt.Fprintf(b, `<polyline points="%s" fill="none" stroke="%s" stroke-width="2"/>`, strings.Join(points, " "), color)
			}
		}
	}

	for j, cat := range opts.Categories {
		x := padSide + (float64(j)+0.5)*step
		fmt.Fprintf(b, `<text x="%.1f" y="%.1f" text-anchor="middle" font-size="10">%s</text>`, x, baseline+14, escape(cat))
	}
}

func (i *svgInstance) drawPie(b *strings.Builder) {
	opts := i.opts
	data := opts.Series[0].Data
	total := 0.0
	for _, v := range data {
		total += v
	}
	if total == 0 {
		return
	}

	cx, cy := i.width/2, (i.height+padTop)/2
	r := math.Min(i.width, i.height-padTop)/2 - 10
	angle := -math.Pi / 2

	for j, v := range data {
		share := v / total
		next := angle + share*2*math.Pi
		x1, y1 := cx+r*math.Cos(angle), cy+r*math.Sin(angle)
		x2, y2 := cx+r*math.Cos(next), cy+r*math.Sin(next)
		large := 0
		if share > 0.5 {
			large = 1
		}
		color := seriesColors[j%len(seriesColors)]
		fmt.Fprintf(b, `<path d="M%.1f,%.1f L%.1f,%.1f A%.1f,%.1f 0 %d 1 %.1f,%.1f Z" fill="%s"/>`,
			cx, cy, x1, y1, r, r, large, x2, y2, color)
		angle = next
	}
}

func (i *svgInstance) drawTable(b *strings.Builder) {
	opts := i.opts
	y := padTop + 14
	for j, cat := range opts.Categories {
		cells := make([]string, 0, len(opts.Series)+1)
		cells = append(cells, cat)
		for _, s := range opts.Series {
			cells = append(cells, fmt.Sprintf("%g", s.Data[j]))
		}
		fmt.Fprintf(b, `<text x="%.1f" y="%.1f" font-size="11">%s</text>`, padSide, y, escape(strings.Join(cells, "  |  ")))
		y += 16
		if y > i.height-padBottom {
			break
		}
	}
}

func escape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}

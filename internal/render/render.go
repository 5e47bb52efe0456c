// 包 render：将几何集合栅格化为无边框的方形 PNG 画布
package render

import (
	"bytes"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/paulmach/orb"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
)

const defaultSize = 1000

// TextStyle：标注样式；位置为归一化坐标，原点在左下，(0.01, 0.99) 即左上角
type TextStyle struct {
	X     float64
	Y     float64
	Size  float64
	Color color.Color
}

// DefaultTextStyle：左上角加粗大号黑字
func DefaultTextStyle() TextStyle {
	return TextStyle{X: 0.01, Y: 0.99, Size: 60, Color: color.Black}
}

// Renderer：固定尺寸画布渲染器
// 背景：画布不带坐标轴、刻度与边框；全部几何使用同一默认填充样式
// 约束：输出为内存中的完整 PNG 字节切片，不落盘；标注样式只影响文字，不影响几何
type Renderer struct {
	size int
	fill color.Color
	line color.Color
	text TextStyle
	face font.Face
}

// New：按默认标注样式构造渲染器
func New() (*Renderer, error) {
	return NewWithStyle(DefaultTextStyle())
}

// NewWithStyle：构造渲染器并装载标注字体
func NewWithStyle(ts TextStyle) (*Renderer, error) {
	ft, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(ft, &opentype.FaceOptions{Size: ts.Size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, err
	}
	return &Renderer{
		size: defaultSize,
		fill: color.RGBA{R: 31, G: 119, B: 180, A: 255},
		line: color.RGBA{R: 21, G: 83, B: 125, A: 255},
		text: ts,
		face: face,
	}, nil
}

// Render：绘制几何集合与可选标注，返回 PNG 字节
// 约束：空几何合法，输出仅含标注的空白画布；调用方需容忍空图
func (r *Renderer) Render(geoms []orb.Geometry, caption string) ([]byte, error) {
	dc := gg.NewContext(r.size, r.size)
	dc.SetColor(color.White)
	dc.Clear()

	if b, ok := combinedBound(geoms); ok {
		cx, cy, scale := projection(b, float64(r.size))
		for _, g := range geoms {
			r.drawGeometry(dc, g, cx, cy, scale)
		}
	}

	if caption != "" {
		dc.SetFontFace(r.face)
		dc.SetColor(r.text.Color)
		x := r.text.X * float64(r.size)
		y := (1 - r.text.Y) * float64(r.size)
		dc.DrawStringAnchored(caption, x, y, 0, 1)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawGeometry(dc *gg.Context, g orb.Geometry, cx, cy, scale float64) {
	switch v := g.(type) {
	case orb.Polygon:
		r.drawPolygon(dc, v, cx, cy, scale)
	case orb.MultiPolygon:
		for _, p := range v {
			r.drawPolygon(dc, p, cx, cy, scale)
		}
	}
}

// drawPolygon：外环与洞并入同一路径，用奇偶规则一次填充
func (r *Renderer) drawPolygon(dc *gg.Context, p orb.Polygon, cx, cy, scale float64) {
	half := float64(r.size) / 2
	drew := false
	for _, ring := range p {
		if len(ring) < 3 {
			continue
		}
		for i, pt := range ring {
			x := half + (pt[0]-cx)*scale
			y := half - (pt[1]-cy)*scale
			if i == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		dc.ClosePath()
		drew = true
	}
	if !drew {
		return
	}
	dc.SetFillRule(gg.FillRuleEvenOdd)
	dc.SetColor(r.fill)
	dc.FillPreserve()
	dc.SetColor(r.line)
	dc.SetLineWidth(2)
	dc.Stroke()
}

// projection：等比缩放并居中，四周预留 5% 留白
func projection(b orb.Bound, size float64) (cx, cy, scale float64) {
	cx = (b.Min[0] + b.Max[0]) / 2
	cy = (b.Min[1] + b.Max[1]) / 2
	ext := math.Max(b.Max[0]-b.Min[0], b.Max[1]-b.Min[1])
	scale = 1
	if ext > 0 {
		scale = size * 0.9 / ext
	}
	return cx, cy, scale
}

// combinedBound：全部非空几何的包围盒并集；无可绘制内容时返回 false
func combinedBound(geoms []orb.Geometry) (orb.Bound, bool) {
	var b orb.Bound
	found := false
	for _, g := range geoms {
		if isEmpty(g) {
			continue
		}
		gb := g.Bound()
		if !found {
			b = gb
			found = true
		} else {
			b = b.Union(gb)
		}
	}
	return b, found
}

func isEmpty(g orb.Geometry) bool {
	switch v := g.(type) {
	case nil:
		return true
	case orb.Polygon:
		return len(v) == 0
	case orb.MultiPolygon:
		return len(v) == 0
	}
	return false
}

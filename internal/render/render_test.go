package render

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/paulmach/orb"
)

func TestRenderProducesPNG(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatal(err)
	}
	poly := orb.Polygon{orb.Ring{{0, 40}, {10, 40}, {10, 50}, {0, 50}, {0, 40}}}
	data, err := r.Render([]orb.Geometry{poly}, "sovereignt: France")
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Fatal("rendered image is empty")
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not valid PNG: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != defaultSize || b.Dy() != defaultSize {
		t.Fatalf("canvas size: expected %dx%d, got %dx%d", defaultSize, defaultSize, b.Dx(), b.Dy())
	}
}

func TestRenderEmptyGeometry(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatal(err)
	}
	// 退化输入：空几何合法，输出空白画布而不报错
	data, err := r.Render([]orb.Geometry{orb.MultiPolygon{}}, "economy: empty")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("blank canvas is not valid PNG: %v", err)
	}
}

func TestRenderWithoutCaption(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatal(err)
	}
	poly := orb.Polygon{orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}}
	data, err := r.Render([]orb.Geometry{poly}, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Fatal("rendered image is empty")
	}
}

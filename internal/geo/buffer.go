package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// Buffer：对多边形做近似缓冲（正值外扩、负值内缩）
// 背景：纯 Go 生态没有免 cgo 的精确缓冲实现；按顶点斜接偏移构造偏移环，再以布尔并集清理自交
// 约束：面向小距离平滑场景；极小图形在缓冲后可能塌缩为空，空输出合法
func Buffer(p orb.Polygon, dist float64) orb.MultiPolygon {
	if dist == 0 {
		return selfUnion(orb.MultiPolygon{p})
	}
	var out orb.Polygon
	for i, ring := range p {
		d := dist
		if i > 0 {
			d = -dist // 正缓冲下洞收缩
		}
		r := offsetRing(ring, d)
		if i == 0 && len(r) < 4 {
			return nil
		}
		if len(r) >= 4 {
			out = append(out, r)
		}
	}
	return selfUnion(orb.MultiPolygon{out})
}

// offsetRing：沿环的外法线方向按斜接方式平移各顶点
// 约束：输入环按 GeoJSON 约定首尾闭合；退化环返回 nil
func offsetRing(r orb.Ring, d float64) orb.Ring {
	n := len(r)
	if n < 4 {
		return nil
	}
	pts := r
	if pts[0] == pts[n-1] {
		pts = pts[:n-1]
	}
	m := len(pts)
	if m < 3 {
		return nil
	}
	sign := 1.0
	if r.Orientation() == orb.CW {
		sign = -1.0
	}
	out := make(orb.Ring, 0, m+1)
	for i := 0; i < m; i++ {
		p0 := pts[(i+m-1)%m]
		p1 := pts[i]
		p2 := pts[(i+1)%m]
		n1x, n1y, ok1 := edgeNormal(p0, p1, sign)
		n2x, n2y, ok2 := edgeNormal(p1, p2, sign)
		if !ok1 && !ok2 {
			continue
		}
		if !ok1 {
			n1x, n1y = n2x, n2y
		}
		if !ok2 {
			n2x, n2y = n1x, n1y
		}
		mx := n1x + n2x
		my := n1y + n2y
		ml := math.Hypot(mx, my)
		if ml < 1e-12 {
			// 近 180° 折返时退化为沿后一条边的法线平移
			mx, my, ml = n2x, n2y, 1
		}
		mx /= ml
		my /= ml
		// 斜接长度 d/cos(θ/2)，并限制尖角外飞
		den := mx*n1x + my*n1y
		l := d * 4
		if den > 0.25 {
			l = d / den
		}
		out = append(out, orb.Point{p1[0] + mx*l, p1[1] + my*l})
	}
	if len(out) < 3 {
		return nil
	}
	out = append(out, out[0])
	return out
}

// edgeNormal：环方向意义下的单位外法线；零长度边返回 ok=false
func edgeNormal(p, q orb.Point, sign float64) (nx, ny float64, ok bool) {
	dx := q[0] - p[0]
	dy := q[1] - p[1]
	l := math.Hypot(dx, dy)
	if l < 1e-12 {
		return 0, 0, false
	}
	return sign * dy / l, -sign * dx / l, true
}

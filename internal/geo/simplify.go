package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"
)

// Simplify：先缓冲后削点
// 背景：缓冲是顶点削减前抹平碎细边界的主要手段，顺序不可颠倒；多面逐部分处理后必须并集合并，
// 否则相邻部分因缓冲扩张而交叠处会残留内部接缝
// 约束：距离与容差单位与数据坐标系一致（全球数据集为度）；同一输入输出确定
func Simplify(g orb.Geometry, bufferDist, tolerance float64) orb.Geometry {
	switch v := g.(type) {
	case orb.Polygon:
		return mergeParts(simplifyPart(v, bufferDist, tolerance))
	case orb.MultiPolygon:
		var parts orb.MultiPolygon
		for _, p := range v {
			parts = append(parts, simplifyPart(p, bufferDist, tolerance)...)
		}
		return mergeParts(parts)
	default:
		return g
	}
}

// simplifyPart：单个多边形的缓冲 + Douglas–Peucker 削点
// 约束：削点可能引入自交，结束前再并集一次恢复有效性
func simplifyPart(p orb.Polygon, bufferDist, tolerance float64) orb.MultiPolygon {
	buffered := Buffer(p, bufferDist)
	if len(buffered) == 0 {
		return nil
	}
	reduced := simplify.DouglasPeucker(tolerance).MultiPolygon(buffered)
	return selfUnion(reduced)
}

package geo

import (
	"github.com/engelsjk/polygol"
	"github.com/paulmach/orb"

	"showme/internal/logger"
)

// Merge：对多边形几何求并集并合并为单一几何
// 背景：分类轴查询可命中多个国家，渲染前合并为一个整体
func Merge(geoms ...orb.Geometry) orb.Geometry {
	var mp orb.MultiPolygon
	for _, g := range geoms {
		switch v := g.(type) {
		case orb.Polygon:
			mp = append(mp, v)
		case orb.MultiPolygon:
			mp = append(mp, v...)
		}
	}
	return mergeParts(mp)
}

// mergeParts：并集后折叠为最紧凑的几何表达
func mergeParts(mp orb.MultiPolygon) orb.Geometry {
	u := selfUnion(mp)
	if len(u) == 0 {
		return orb.MultiPolygon{}
	}
	if len(u) == 1 {
		return u[0]
	}
	return u
}

// selfUnion：Martinez 布尔并集，顺带消除自交与部分间交叠
// 约束：求解失败时退回原始输入并记日志，不中断渲染链路
func selfUnion(mp orb.MultiPolygon) orb.MultiPolygon {
	if len(mp) == 0 {
		return nil
	}
	res, err := polygol.Union(toGeom(mp))
	if err != nil {
		logger.L().Warn("geometry_union_error", "err", err)
		return mp
	}
	return fromGeom(res)
}

func toGeom(mp orb.MultiPolygon) polygol.Geom {
	g := make(polygol.Geom, 0, len(mp))
	for _, poly := range mp {
		pg := make([][][]float64, 0, len(poly))
		for _, ring := range poly {
			rg := make([][]float64, 0, len(ring))
			for _, pt := range ring {
				rg = append(rg, []float64{pt[0], pt[1]})
			}
			pg = append(pg, rg)
		}
		g = append(g, pg)
	}
	return g
}

func fromGeom(g polygol.Geom) orb.MultiPolygon {
	var mp orb.MultiPolygon
	for _, pg := range g {
		var poly orb.Polygon
		for _, rg := range pg {
			var ring orb.Ring
			for _, pt := range rg {
				if len(pt) >= 2 {
					ring = append(ring, orb.Point{pt[0], pt[1]})
				}
			}
			if len(ring) >= 3 {
				if ring[0] != ring[len(ring)-1] {
					ring = append(ring, ring[0])
				}
				poly = append(poly, ring)
			}
		}
		if len(poly) > 0 {
			mp = append(mp, poly)
		}
	}
	return mp
}

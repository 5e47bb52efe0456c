package country

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"

	"showme/internal/geo"
	"showme/internal/render"
)

// ErrNotFound：查询零命中
// 背景：唯一预期内的业务错误，批处理据此跳过条目；其余故障按未分类错误上抛
var ErrNotFound = errors.New("no matching features")

// Service：组合要素库与渲染器的图像服务
// 背景：除构造时注入的只读要素库外无状态，可并发使用
type Service struct {
	store *geo.FeatureStore
	rend  *render.Renderer
}

func NewService(store *geo.FeatureStore, rend *render.Renderer) *Service {
	return &Service{store: store, rend: rend}
}

// EntityImage：解析命名实体并渲染为 PNG 字节
// 背景：多命中（经济带/收入组轴）时先化简各要素再并集为一个整体出图
// 返回：零命中返回可 errors.Is 判定的 ErrNotFound；几何与渲染故障原样上抛
func (s *Service) EntityImage(axis Axis, value string, bufferDist, tolerance float64) ([]byte, error) {
	v := axis.CanonicalValue(value)
	feats, ok := s.store.Find(axis.Attribute, v)
	if !ok {
		return nil, fmt.Errorf("%w: %s=%s", ErrNotFound, axis.Attribute, v)
	}
	geoms := make([]orb.Geometry, 0, len(feats))
	for _, f := range feats {
		geoms = append(geoms, geo.Simplify(f.Geometry, bufferDist, tolerance))
	}
	if len(geoms) > 1 {
		geoms = []orb.Geometry{geo.Merge(geoms...)}
	}
	caption := axis.Attribute + ": " + v
	return s.rend.Render(geoms, caption)
}

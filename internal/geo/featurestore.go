// 包 geo：世界矢量要素集的加载、属性检索与几何化简
package geo

import (
	"os"

	"github.com/paulmach/orb/geojson"

	"showme/internal/logger"
)

// FeatureStore：进程生命周期内只读共享的要素集合
// 背景：数据集在启动时一次性载入，此后只读，多协程免锁共享
// 约束：属性匹配为精确相等；不提供模糊或范围查询
type FeatureStore struct {
	feats []*geojson.Feature
}

// Load：从 GeoJSON 文件载入要素集合
// 返回：只读句柄；文件缺失或解析失败返回 error
func Load(path string) (*FeatureStore, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fc, err := geojson.UnmarshalFeatureCollection(b)
	if err != nil {
		return nil, err
	}
	logger.L().Info("featurestore_loaded", "path", path, "features", len(fc.Features))
	return &FeatureStore{feats: fc.Features}, nil
}

// Find：按属性精确匹配要素
// 返回：全部命中与命中标记；零命中返回 false，错误语义由调用方决定
func (s *FeatureStore) Find(attribute, value string) ([]*geojson.Feature, bool) {
	var out []*geojson.Feature
	for _, f := range s.feats {
		if v, ok := f.Properties[attribute].(string); ok && v == value {
			out = append(out, f)
		}
	}
	return out, len(out) > 0
}

// Len：要素总数
func (s *FeatureStore) Len() int { return len(s.feats) }

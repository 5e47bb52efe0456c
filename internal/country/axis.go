// 包 country：实体解析、几何化简与渲染的编排层
package country

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// 缓冲与容差默认值：按经纬度全球数据集调校；其他坐标系由调用方换算
const (
	DefaultBuffer    = 0.1
	DefaultTolerance = 0.01
)

// Axis：分类轴 —— 对外轴名与数据集属性列的映射
// 约束：仅名称轴做首字母归一化，制品键因此跨进程重启位级一致
type Axis struct {
	Name      string
	Attribute string
	Normalize bool
}

var (
	AxisByName        = Axis{Name: "by-name", Attribute: "sovereignt", Normalize: true}
	AxisByEconomy     = Axis{Name: "by-economy", Attribute: "economy"}
	AxisByIncomeGroup = Axis{Name: "by-income-group", Attribute: "income_grp"}
)

// LookupAxis：解析对外轴名
func LookupAxis(name string) (Axis, bool) {
	switch name {
	case AxisByName.Name:
		return AxisByName, true
	case AxisByEconomy.Name:
		return AxisByEconomy, true
	case AxisByIncomeGroup.Name:
		return AxisByIncomeGroup, true
	}
	return Axis{}, false
}

// CanonicalValue：轴内取值归一化；幂等，多层重复调用安全
func (a Axis) CanonicalValue(raw string) string {
	if !a.Normalize {
		return raw
	}
	return NormalizeName(raw)
}

// NormalizeName：小写后首字母大写（tunisia → Tunisia）
func NormalizeName(s string) string {
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	r, size := utf8.DecodeRuneInString(lower)
	return string(unicode.ToUpper(r)) + lower[size:]
}

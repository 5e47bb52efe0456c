// 包 geoip：IP → 国家名解析，复用 GeoLite2 数据库
package geoip

import (
	"net"

	"github.com/oschwald/geoip2-golang"
)

// Resolver：mmdb 读取器的薄封装；并发安全，只读
type Resolver struct {
	db *geoip2.Reader
}

func Open(path string) (*Resolver, error) {
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, err
	}
	return &Resolver{db: db}, nil
}

// CountryName：返回英文国家名；解析失败或无记录返回 false
func (r *Resolver) CountryName(ip string) (string, bool) {
	p := net.ParseIP(ip)
	if p == nil {
		return "", false
	}
	rec, err := r.db.Country(p)
	if err != nil {
		return "", false
	}
	name := rec.Country.Names["en"]
	return name, name != ""
}

func (r *Resolver) Close() error { return r.db.Close() }

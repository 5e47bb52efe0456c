package utils

import (
	"os"
	"path/filepath"

	"showme/internal/geoip"
	"showme/internal/logger"
)

// OpenGeoIPFromEnv：装载 GeoLite2 国家库；文件缺失时返回 nil，/locate 降级为不可用
func OpenGeoIPFromEnv() *geoip.Resolver {
	path := os.Getenv("GEOIP_DB")
	if path == "" {
		path = filepath.Join("data", "GeoLite2-Country.mmdb")
	}
	if _, err := os.Stat(path); err != nil {
		logger.L().Info("geoip_disabled", "path", path)
		return nil
	}
	r, err := geoip.Open(path)
	if err != nil {
		logger.L().Error("geoip_open_error", "path", path, "err", err)
		return nil
	}
	logger.L().Info("geoip_ready", "path", path)
	return r
}

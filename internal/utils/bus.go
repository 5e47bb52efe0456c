package utils

import (
	"os"

	"showme/internal/bus"
	"showme/internal/logger"
)

// OpenBusFromEnv：NATS 未配置或连接失败时返回 nil，发布端点降级为不可用
func OpenBusFromEnv() *bus.Producer {
	url := os.Getenv("NATS_URL")
	if url == "" {
		return nil
	}
	p, err := bus.Connect(url)
	if err != nil {
		logger.L().Error("bus_connect_error", "url", url, "err", err)
		return nil
	}
	return p
}

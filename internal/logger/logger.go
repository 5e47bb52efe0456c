// 包 logger：统一初始化与获取日志器；渲染与批处理链路共用一个配置入口
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// 默认日志器：进程级复用，避免各模块重复初始化导致输出不一致
var defaultLogger *slog.Logger

// Setup：初始化默认日志器
// 背景：级别与格式由环境变量控制，便于容器部署时统一调整
// 约束：输出目标固定为标准错误；不在此处接入文件或外部聚合通道
func Setup() *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	format := strings.ToLower(os.Getenv("LOG_FORMAT"))
	var h slog.Handler
	if format == "json" {
		h = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	} else {
		h = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	}
	defaultLogger = slog.New(h)
	return defaultLogger
}

// L：获取默认日志器；未初始化时回退到 Setup
func L() *slog.Logger {
	if defaultLogger == nil {
		return Setup()
	}
	return defaultLogger
}

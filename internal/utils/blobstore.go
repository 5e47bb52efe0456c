package utils

import (
	"context"
	"os"

	"showme/internal/blob"
	"showme/internal/blob/mem"
	"showme/internal/blob/s3"
	"showme/internal/logger"
)

// OpenBlobFromEnv：按环境变量构造制品存储
// 背景：未配置对象存储端点时退回内存后端，便于本地联调与测试环境起服务
func OpenBlobFromEnv(ctx context.Context) (blob.Store, error) {
	bucket := os.Getenv("BLOB_BUCKET")
	if bucket == "" {
		bucket = "showme"
	}
	base := os.Getenv("BLOB_PUBLIC_BASE")
	endpoint := os.Getenv("BLOB_ENDPOINT")
	if endpoint == "" {
		if base == "" {
			base = "http://127.0.0.1:9000"
		}
		logger.L().Info("blob_mem_fallback", "bucket", bucket)
		return mem.New(base, bucket), nil
	}
	secure := os.Getenv("BLOB_SECURE") == "true"
	return s3.New(ctx, endpoint, os.Getenv("BLOB_ACCESS_KEY"), os.Getenv("BLOB_SECRET_KEY"), bucket, base, secure)
}

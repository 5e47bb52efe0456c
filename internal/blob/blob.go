// 包 blob：内容寻址的制品存储 —— 幂等上传、存在性探测与公开地址解析
package blob

import (
	"context"
	"errors"
)

// ErrNotFound：请求的键不存在
var ErrNotFound = errors.New("artifact not found")

// Store：制品存储接口
// 背景：同一逻辑请求的键确定不变，重复发布同键同内容无害，幂等性由 UploadIfAbsent 承担；
// 制品一经写入不再覆盖（键已存在时跳过而非替换）
// 约束：UploadIfAbsent 为先查后写，并发同键写入存在窗口期；内容寻址下该竞态可接受，
// 需要强互斥时由调用方按键加外部锁
type Store interface {
	Exists(ctx context.Context, key string) (bool, error)
	UploadIfAbsent(ctx context.Context, key string, data []byte) (bool, error)
	Delete(ctx context.Context, key string) (bool, error)
	Get(ctx context.Context, key string) ([]byte, error)
	URL(key string) string
}

// Key：由分类属性与取值构造确定性制品键
// 约束：格式跨进程重启保持位级一致，幂等发布依赖于此
func Key(attribute, value string) string {
	return attribute + "_" + value + ".png"
}

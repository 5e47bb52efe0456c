// 包 s3：MinIO/S3 后端的制品存储
package s3

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"showme/internal/blob"
	"showme/internal/logger"
)

type Store struct {
	client *minio.Client
	bucket string
	base   string
}

// New：构造存储并确保桶存在
// 背景：建桶是一次性的启动副作用，不进入请求路径
func New(ctx context.Context, endpoint, accessKey, secretKey, bucket, publicBase string, secure bool) (*Store, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, err
	}
	ok, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !ok {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
		logger.L().Info("bucket_created", "bucket", bucket)
	} else {
		logger.L().Debug("bucket_exists", "bucket", bucket)
	}
	if publicBase == "" {
		scheme := "http"
		if secure {
			scheme = "https"
		}
		publicBase = scheme + "://" + endpoint
	}
	return &Store{client: client, bucket: bucket, base: strings.TrimRight(publicBase, "/")}, nil
}

func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// UploadIfAbsent：先查后写
// 约束：并发同键写入时两个写方都可能观测到缺席并上传，后写覆盖先写；内容寻址下结果等价
func (s *Store) UploadIfAbsent(ctx context.Context, key string, data []byte) (bool, error) {
	ok, err := s.Exists(ctx, key)
	if err != nil {
		return false, err
	}
	if ok {
		return false, nil
	}
	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "image/png"})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) Delete(ctx context.Context, key string) (bool, error) {
	ok, err := s.Exists(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()
	b, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, blob.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// URL：返回稳定公开地址；不校验键是否存在
func (s *Store) URL(key string) string {
	return s.base + "/" + s.bucket + "/" + key
}

var _ blob.Store = (*Store)(nil)

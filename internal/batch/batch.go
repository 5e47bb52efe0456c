// 包 batch：批量名称的异步编排 —— 扇出渲染/发布流水线并聚合成功结果
package batch

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"showme/internal/blob"
	"showme/internal/country"
	"showme/internal/logger"
	"showme/internal/metrics"
)

// Imager：单实体出图契约（由 country.Service 实现）
type Imager interface {
	EntityImage(axis country.Axis, value string, bufferDist, tolerance float64) ([]byte, error)
}

// Runner：有界并发的批处理执行器
// 背景：批内条目彼此独立，单条故障只终止自身；全部条目汇合后才返回
// 约束：结果顺序为完成序而非提交序；重复名称不去重，重复上传由幂等存储吸收
type Runner struct {
	img     Imager
	store   blob.Store
	workers int
}

func NewRunner(img Imager, store blob.Store, workers int) *Runner {
	if workers <= 0 {
		workers = 4
	}
	return &Runner{img: img, store: store, workers: workers}
}

// Run：逐名渲染并幂等发布，返回成功条目的公开地址
// 返回：未命中与故障条目跳过并记日志；全部失败返回空列表而非错误
func (r *Runner) Run(ctx context.Context, names []string, axis country.Axis, bufferDist, tolerance float64) []string {
	urls := make([]string, 0, len(names))
	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(r.workers)
	for _, name := range names {
		name := name
		g.Go(func() error {
			if u, ok := r.runOne(ctx, name, axis, bufferDist, tolerance); ok {
				mu.Lock()
				urls = append(urls, u)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	metrics.BatchRunsTotal.Inc()
	logger.L().Info("batch_done", "axis", axis.Name, "submitted", len(names), "succeeded", len(urls))
	return urls
}

// runOne：单条流水线；panic 就地回收，避免殃及同批其他条目
func (r *Runner) runOne(ctx context.Context, name string, axis country.Axis, bufferDist, tolerance float64) (url string, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.L().Error("batch_item_panic", "name", name, "panic", rec)
			metrics.BatchItemsTotal.WithLabelValues("panic").Inc()
			url, ok = "", false
		}
	}()
	value := axis.CanonicalValue(name)
	data, err := r.img.EntityImage(axis, value, bufferDist, tolerance)
	if err != nil {
		if errors.Is(err, country.ErrNotFound) {
			logger.L().Warn("batch_item_skipped", "name", name, "axis", axis.Name, "reason", "not_found")
			metrics.BatchItemsTotal.WithLabelValues("not_found").Inc()
			return "", false
		}
		logger.L().Error("batch_item_error", "name", name, "err", err)
		metrics.BatchItemsTotal.WithLabelValues("error").Inc()
		return "", false
	}
	key := blob.Key(axis.Attribute, value)
	uploaded, err := r.store.UploadIfAbsent(ctx, key, data)
	if err != nil {
		logger.L().Error("batch_item_upload_error", "name", name, "key", key, "err", err)
		metrics.BatchItemsTotal.WithLabelValues("error").Inc()
		return "", false
	}
	if uploaded {
		metrics.UploadsTotal.Inc()
	} else {
		metrics.UploadSkipsTotal.Inc()
	}
	metrics.BatchItemsTotal.WithLabelValues("ok").Inc()
	return r.store.URL(key), true
}

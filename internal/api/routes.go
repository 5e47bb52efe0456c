// 包 api：集中注册 HTTP API 路由以解耦主入口
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"showme/internal/batch"
	"showme/internal/blob"
	"showme/internal/bus"
	"showme/internal/country"
	"showme/internal/geoip"
	"showme/internal/logger"
	"showme/internal/metrics"
	"showme/internal/store"
)

// Deps：路由依赖集合
// 约束：Redis/Stats/Bus/GeoIP 允许为空，对应能力按降级处理；其余为必填
type Deps struct {
	Stats   *store.Store
	Redis   *redis.Client
	Service *country.Service
	Blob    blob.Store
	Batch   *batch.Runner
	Bus     *bus.Producer
	GeoIP   *geoip.Resolver
}

// 出图字节缓存的键前缀与有效期
const (
	imageCachePrefix = "img:"
	imageCacheTTL    = 24 * time.Hour
)

// BuildRoutes：构建并返回 API 路由
// 背景：独立 ServeMux 便于在主入口挂载到 /api 前缀
func BuildRoutes(d Deps) *http.ServeMux {
	apiMux := http.NewServeMux()

	apiMux.HandleFunc("GET /country/{name}", func(w http.ResponseWriter, r *http.Request) {
		metrics.RequestsTotal.Inc()
		serveEntityPNG(w, r, d, r.PathValue("name"))
	})

	apiMux.HandleFunc("POST /batch", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Names     []string `json:"names"`
			Axis      string   `json:"axis"`
			Buffer    *float64 `json:"buffer"`
			Tolerance *float64 `json:"tolerance"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request body", http.StatusBadRequest)
			return
		}
		if len(req.Names) == 0 {
			http.Error(w, "names required", http.StatusBadRequest)
			return
		}
		axisName := req.Axis
		if axisName == "" {
			axisName = country.AxisByName.Name
		}
		axis, ok := country.LookupAxis(axisName)
		if !ok {
			http.Error(w, "unknown axis", http.StatusBadRequest)
			return
		}
		bufferDist := country.DefaultBuffer
		if req.Buffer != nil {
			bufferDist = *req.Buffer
		}
		tolerance := country.DefaultTolerance
		if req.Tolerance != nil {
			tolerance = *req.Tolerance
		}
		urls := d.Batch.Run(r.Context(), req.Names, axis, bufferDist, tolerance)
		w.Header().Set("content-type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(map[string]any{"urls": urls})
	})

	apiMux.HandleFunc("GET /artifact/{key}", func(w http.ResponseWriter, r *http.Request) {
		data, err := d.Blob.Get(r.Context(), r.PathValue("key"))
		if err != nil {
			if errors.Is(err, blob.ErrNotFound) {
				http.Error(w, "artifact not found", http.StatusNotFound)
				return
			}
			logger.L().Error("artifact_get_error", "key", r.PathValue("key"), "err", err)
			http.Error(w, "storage error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("content-type", "image/png")
		_, _ = w.Write(data)
	})

	apiMux.HandleFunc("DELETE /artifact/{key}", func(w http.ResponseWriter, r *http.Request) {
		ok, err := d.Blob.Delete(r.Context(), r.PathValue("key"))
		if err != nil {
			logger.L().Error("artifact_delete_error", "key", r.PathValue("key"), "err", err)
			http.Error(w, "storage error", http.StatusInternalServerError)
			return
		}
		if !ok {
			http.Error(w, "artifact not found", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	apiMux.HandleFunc("GET /stats", func(w http.ResponseWriter, r *http.Request) {
		var t store.Totals
		if d.Stats != nil {
			if tt, err := d.Stats.GetTotals(r.Context()); err == nil && tt != nil {
				t = *tt
			}
		}
		w.Header().Set("content-type", "application/json; charset=utf-8")
		w.Header().Set("cache-control", "no-store")
		_ = json.NewEncoder(w).Encode(map[string]any{"total": t.Total, "today": t.Today})
	})

	apiMux.HandleFunc("POST /publish", func(w http.ResponseWriter, r *http.Request) {
		if d.Bus == nil {
			http.Error(w, "bus unavailable", http.StatusServiceUnavailable)
			return
		}
		var msg struct {
			Subject string `json:"subject"`
			Message string `json:"message"`
		}
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil || msg.Subject == "" {
			http.Error(w, "subject required", http.StatusBadRequest)
			return
		}
		if err := d.Bus.Publish(msg.Subject, []byte(msg.Message)); err != nil {
			logger.L().Error("bus_publish_error", "subject", msg.Subject, "err", err)
			http.Error(w, "publish failed", http.StatusBadGateway)
			return
		}
		metrics.BusPublishTotal.Inc()
		w.WriteHeader(http.StatusNoContent)
	})

	apiMux.HandleFunc("GET /locate", func(w http.ResponseWriter, r *http.Request) {
		if d.GeoIP == nil {
			http.Error(w, "geoip unavailable", http.StatusServiceUnavailable)
			return
		}
		metrics.LocateTotal.Inc()
		ip := r.URL.Query().Get("ip")
		if ip == "" {
			http.Error(w, "ip required", http.StatusBadRequest)
			return
		}
		name, ok := d.GeoIP.CountryName(ip)
		if !ok {
			http.Error(w, "ip not located", http.StatusNotFound)
			return
		}
		serveEntityPNG(w, r, d, name)
	})

	return apiMux
}

// serveEntityPNG：单实体出图主路径
// 背景：命中缓存直接回写字节，未命中走 解析→化简→渲染 后回填缓存（与出图同键，24h 过期）
func serveEntityPNG(w http.ResponseWriter, r *http.Request, d Deps, rawName string) {
	ctx := r.Context()
	q := r.URL.Query()
	axisName := q.Get("by")
	if axisName == "" {
		axisName = country.AxisByName.Name
	}
	axis, ok := country.LookupAxis(axisName)
	if !ok {
		http.Error(w, "unknown axis", http.StatusBadRequest)
		return
	}
	bufferDist := parseFloat(q.Get("buffer"), country.DefaultBuffer)
	tolerance := parseFloat(q.Get("tolerance"), country.DefaultTolerance)
	value := axis.CanonicalValue(rawName)
	key := blob.Key(axis.Attribute, value)

	if d.Redis != nil {
		if b, err := d.Redis.Get(ctx, imageCachePrefix+key).Bytes(); err == nil && len(b) > 0 {
			metrics.RedisHitsTotal.Inc()
			writePNG(w, b)
			incrStats(ctx, d)
			return
		}
		metrics.RedisMissesTotal.Inc()
	}

	start := time.Now()
	data, err := d.Service.EntityImage(axis, value, bufferDist, tolerance)
	if err != nil {
		if errors.Is(err, country.ErrNotFound) {
			metrics.NotFoundTotal.Inc()
			http.Error(w, "entity not found", http.StatusNotFound)
			return
		}
		logger.L().Error("render_error", "axis", axis.Name, "value", value, "err", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	metrics.RenderDurationMs.Observe(float64(time.Since(start).Milliseconds()))

	if d.Redis != nil {
		d.Redis.Set(ctx, imageCachePrefix+key, data, imageCacheTTL)
	}
	writePNG(w, data)
	incrStats(ctx, d)
}

func writePNG(w http.ResponseWriter, data []byte) {
	w.Header().Set("content-type", "image/png")
	w.Header().Set("cache-control", "no-store")
	w.Header().Set("content-disposition", "attachment; filename=country.png")
	_, _ = w.Write(data)
}

func incrStats(ctx context.Context, d Deps) {
	if d.Stats != nil {
		_ = d.Stats.IncrRender(ctx)
	}
}

func parseFloat(s string, def float64) float64 {
	if s == "" {
		return def
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	return def
}

// 程序入口：仅负责读取配置、初始化依赖并启动服务；API 注册在 internal/api 以便扩展
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"showme/internal/api"
	"showme/internal/batch"
	"showme/internal/country"
	"showme/internal/geo"
	"showme/internal/logger"
	"showme/internal/metrics"
	"showme/internal/middleware"
	"showme/internal/migrate"
	"showme/internal/render"
	"showme/internal/store"
	"showme/internal/utils"
	"showme/internal/version"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
	l := logger.Setup()
	l.Info("service_start", "commit", version.Commit)

	apiBase := os.Getenv("API_BASE")
	if apiBase == "" {
		apiBase = "/api"
	}
	l.Debug("config_api_base", "base", apiBase)

	// 世界数据集一次性载入；缺失即退出，服务无本体数据无法工作
	worldPath := os.Getenv("WORLD_GEOJSON")
	if worldPath == "" {
		worldPath = filepath.Join("data", "world.geojson")
	}
	fs, err := geo.Load(worldPath)
	if err != nil {
		l.Error("featurestore_load_error", "path", worldPath, "err", err)
		os.Exit(1)
	}

	rend, err := render.New()
	if err != nil {
		l.Error("renderer_init_error", "err", err)
		os.Exit(1)
	}
	svc := country.NewService(fs, rend)

	// 统计库可缺席：连接失败只丢失 /stats 计数，不影响渲染主链路
	var st *store.Store
	if db, err := utils.OpenPostgresFromEnv(); err != nil {
		l.Warn("db_open_error", "err", err)
	} else if err := db.Ping(); err != nil {
		l.Warn("db_ping_error", "err", err)
		_ = db.Close()
	} else if err := migrate.EnsureSchema(db); err != nil {
		l.Error("schema_error", "err", err)
		_ = db.Close()
	} else {
		st = store.AttachDB(db)
		defer db.Close()
		l.Info("db_ready")
	}

	rc := utils.OpenRedisFromEnv()
	if rc == nil {
		l.Info("redis_disabled")
	} else if err := rc.Ping(context.Background()).Err(); err != nil {
		l.Error("redis_ping_error", "err", err)
	} else {
		l.Info("redis_ping_ok")
	}

	bs, err := utils.OpenBlobFromEnv(context.Background())
	if err != nil {
		l.Error("blob_init_error", "err", err)
		os.Exit(1)
	}

	workers := 4
	if s := os.Getenv("BATCH_WORKERS"); s != "" {
		if n, e := strconv.Atoi(s); e == nil && n > 0 {
			workers = n
		}
	}
	runner := batch.NewRunner(svc, bs, workers)

	prod := utils.OpenBusFromEnv()
	if prod != nil {
		defer prod.Close()
	}
	res := utils.OpenGeoIPFromEnv()
	if res != nil {
		defer res.Close()
	}

	apiMux := api.BuildRoutes(api.Deps{
		Stats:   st,
		Redis:   rc,
		Service: svc,
		Blob:    bs,
		Batch:   runner,
		Bus:     prod,
		GeoIP:   res,
	})
	mux := http.NewServeMux()
	mux.Handle(apiBase+"/", http.StripPrefix(apiBase, apiMux))
	mux.Handle(apiBase+"/metrics", metrics.Handler())

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
	}
	handler := logger.AccessMiddleware(l)(mux)
	handler = middleware.Wrap(handler)
	s := &http.Server{Addr: addr, Handler: handler}

	go func() {
		l.Info("listening", "addr", addr)
		if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Error("server_error", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = s.Shutdown(ctx)
	l.Info("server_stopped")
}

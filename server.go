package main

import (
	"context"
	"fmt"
	"time"

	"github.com/carpeta/organizer/handlers"
	"github.com/carpeta/organizer/internal/config"
	"github.com/carpeta/organizer/internal/database"
	notehandler "github.com/carpeta/organizer/internal/note/handler"
	noteservice "github.com/carpeta/organizer/internal/note/service"
	"github.com/carpeta/organizer/internal/persistence"
	snaphandler "github.com/carpeta/organizer/internal/snapshot/handler"
	snapservice "github.com/carpeta/organizer/internal/snapshot/service"
	"github.com/carpeta/organizer/internal/storage"
	"github.com/carpeta/organizer/pkg/logger"
	"github.com/carpeta/organizer/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// server is the wired sync server: router plus the resources to release.
type server struct {
	router  *gin.Engine
	closers []func()
}

func (s *server) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func newServer(ctx context.Context, cfg *config.Config) (*server, error) {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &server{router: gin.New()}
	r := srv.router
	started := time.Now()
	checks := map[string]handlers.Check{}

	// Lightweight CORS middleware: the browser client is served from another origin in development.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})
	r.Use(gin.Logger(), gin.Recovery())

	var rdb *redis.Client
	if addr := cfg.Redis.Addr(); addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		srv.closers = append(srv.closers, func() { _ = rdb.Close() })
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s): %v", addr, err)
		} else {
			logger.Infof("Connected to Redis: %s", addr)
		}
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && rdb != nil {
			r.Use(middleware.RedisRateLimitMiddleware(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.Window))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	var opts []snapservice.Option
	opts = append(opts, snapservice.WithKey(cfg.Sync.LocalKey))
	if cfg.MinIO.Endpoint != "" {
		backup, err := storage.NewMinIOStorage(&cfg.MinIO)
		if err != nil {
			logger.Warnf("snapshot backups disabled: %v", err)
		} else {
			opts = append(opts, snapservice.WithBackup(backup))
			logger.Infof("snapshot backups enabled: bucket=%s", cfg.MinIO.Bucket)
		}
	}

	var (
		snapSvc snapservice.Service
		noteSvc noteservice.Service
	)
	switch store := cfg.ResolvedStore(); store {
	case "mongo":
		client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5)
		if err != nil {
			srv.Close()
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		srv.closers = append(srv.closers, func() { _ = client.Disconnect(context.Background()) })
		db := client.Database(cfg.MongoDB.Database)
		snapSvc = snapservice.NewMongoService(db.Collection("snapshots"), opts...)
		noteSvc = noteservice.NewMongoService(db.Collection("notes"))
		checks["mongo"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }
	case "redis":
		if rdb == nil {
			srv.Close()
			return nil, fmt.Errorf("redis store selected but REDIS_HOST is empty")
		}
		snapSvc = snapservice.NewKVService(persistence.NewRedisKV(rdb, ""), opts...)
		noteSvc = noteservice.NewMemoryService()
	case "sqlite":
		kv, err := persistence.OpenSQLiteKV(cfg.Server.SQLitePath)
		if err != nil {
			srv.Close()
			return nil, err
		}
		srv.closers = append(srv.closers, func() { _ = kv.Close() })
		snapSvc = snapservice.NewKVService(kv, opts...)
		noteSvc = noteservice.NewMemoryService()
	default:
		snapSvc = snapservice.NewMemoryService(opts...)
		noteSvc = noteservice.NewMemoryService()
	}
	logger.Infof("snapshot store: %s", cfg.ResolvedStore())

	handlers.RegisterHealth(r, started, checks)
	handlers.RegisterSwagger(r)
	snaphandler.RegisterSnapshotRoutes(r, snapSvc)
	notehandler.RegisterNoteRoutes(r, noteSvc)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return srv, nil
}

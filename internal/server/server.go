package server

import (
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	v1 "github.com/MaxiE97/homologation-vehicle/internal/api/v1"
	"github.com/MaxiE97/homologation-vehicle/internal/config"
	"github.com/MaxiE97/homologation-vehicle/internal/controller"
	"github.com/MaxiE97/homologation-vehicle/internal/ingest"
	"github.com/MaxiE97/homologation-vehicle/internal/store"
)

// Server HTTP服务器
type Server struct {
	router *gin.Engine
	store  *store.Store
	v1     *v1.Handler
}

// NewServer 创建服务器
func NewServer(cfg *config.AppConfig) *Server {
	devMode := cfg.Server.DevMode
	if !devMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化 SQLite Store
	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		dataDir = cfg.Data.DataDir
	}
	dbPath := filepath.Join(dataDir, "homologation.db")

	sqliteStore, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	bootstrapAdmin(sqliteStore, cfg)

	// 摄取客户端：未配置外部服务时使用占位数据生成器
	var client ingest.Client
	if cfg.Ingest.UseMock || cfg.Ingest.ServiceURL == "" {
		client = ingest.NewMockClient(cfg.Ingest.MockSeed)
	} else {
		timeout := time.Duration(cfg.Ingest.TimeoutSeconds) * time.Second
		client = ingest.NewHTTPClient(cfg.Ingest.ServiceURL, timeout)
	}

	registry := controller.NewRegistry(sqliteStore, client, cfg.Auth.TrialDownloadLimit)
	v1Handler := v1.NewHandler(sqliteStore, registry, cfg)

	s := &Server{
		router: gin.Default(),
		store:  sqliteStore,
		v1:     v1Handler,
	}

	s.setupRoutes(devMode)

	return s
}

// bootstrapAdmin 用户表为空时按配置创建初始管理员
func bootstrapAdmin(st *store.Store, cfg *config.AppConfig) {
	if cfg.Auth.BootstrapAdmin == "" || cfg.Auth.BootstrapPassword == "" {
		return
	}
	count, err := st.CountUsers()
	if err != nil || count > 0 {
		return
	}
	username := cfg.Auth.BootstrapAdmin
	if _, err := st.CreateUser(username, username+"@localhost", cfg.Auth.BootstrapPassword, "admin"); err != nil {
		log.Printf("Failed to create bootstrap admin: %v", err)
		return
	}
	log.Printf("Created bootstrap admin account %q", username)
}

// setupRoutes 设置路由
func (s *Server) setupRoutes(devMode bool) {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// V1 API 路由
	api := s.router.Group("/api/v1")
	{
		s.v1.RegisterRoutes(api)
	}

	// 健康检查
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	if devMode {
		// 开发模式：代理到前端开发服务器
		s.router.NoRoute(func(c *gin.Context) {
			c.Redirect(http.StatusTemporaryRedirect, "http://localhost:5173"+c.Request.URL.Path)
		})
	}
}

// Run 启动服务器
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Close 关闭底层存储
func (s *Server) Close() error {
	return s.store.Close()
}

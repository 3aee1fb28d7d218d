package main

import (
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	inspectHandler "feeguard-backend/internal/api/inspect"
	"feeguard-backend/internal/config"
	"feeguard-backend/internal/registry"
	inspectionRepo "feeguard-backend/internal/repository/inspection"
	gascontextService "feeguard-backend/internal/service/gascontext"
	inspectorService "feeguard-backend/internal/service/inspector"
	"feeguard-backend/pkg/blockchain"
	"feeguard-backend/pkg/database"
	"feeguard-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// healthCheck 健康检查端点
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "feeguard-backend",
		"version": "1.0.0",
	})
}

func main() {
	logger.Init(logger.DefaultConfig())
	logger.Info("Starting FeeGuard Backend v1.0.0")

	// 1. 加载配置
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config: ", err)
		os.Exit(1)
	}

	// 2. 连接数据库
	db, err := database.NewPostgresConnection(&cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database: ", err)
		os.Exit(1)
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Error("Failed to migrate database: ", err)
		os.Exit(1)
	}

	// 3. 连接Redis
	redisClient, err := database.NewRedisConnection(&cfg.Redis)
	if err != nil {
		logger.Error("Failed to connect to Redis: ", err)
		os.Exit(1)
	}

	// 4. 连接RPC端点
	chainClient, err := blockchain.NewChainClient(&cfg.RPC)
	if err != nil {
		logger.Error("Failed to connect to RPC endpoint: ", err)
		os.Exit(1)
	}

	// 5. 构造链名称映射表（内置条目 + 配置覆盖）
	chainRegistry := registry.New(parseChainOverrides(cfg.Chains.Labels))

	// 6. 初始化仓库层
	historyRepo := inspectionRepo.NewRepository(db)

	// 7. 初始化服务层
	inspectorSvc := inspectorService.NewService(&cfg.Guard, chainClient, chainRegistry, redisClient, historyRepo)
	contextSvc := gascontextService.NewService(&cfg.Context, chainClient, chainRegistry)

	// 8. 初始化处理器
	handler := inspectHandler.NewHandler(inspectorSvc, contextSvc, historyRepo, chainRegistry, cfg.Guard.FeeThresholdEth)

	// 9. 设置Gin模式
	gin.SetMode(cfg.Server.Mode)

	// 10. 创建路由器
	router := gin.Default()

	// 11. 添加CORS中间件
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// 12. 注册路由
	v1 := router.Group("/api/v1")
	{
		handler.RegisterRoutes(v1)
	}

	// 13. 健康检查端点
	router.GET("/health", healthCheck)

	// 14. 设置优雅关闭
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		logger.Info("Received shutdown signal, stopping services...")
		chainClient.Close()
		os.Exit(0)
	}()

	// 15. 启动服务器
	addr := ":" + cfg.Server.Port
	logger.Info("Starting server on ", "addr", addr)

	if err := router.Run(addr); err != nil {
		logger.Error("Failed to start server: ", err)
		os.Exit(1)
	}
}

// parseChainOverrides 配置中的链名称覆盖，键为链ID的字符串形式
func parseChainOverrides(labels map[string]string) map[int64]string {
	overrides := make(map[int64]string, len(labels))
	for key, label := range labels {
		chainID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			logger.Warn("Ignoring invalid chain id in config", "chain_id", key)
			continue
		}
		overrides[chainID] = label
	}
	return overrides
}

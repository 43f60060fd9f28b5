package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/fyerfyer/doc-analyzer/api"
	"github.com/fyerfyer/doc-analyzer/api/handler"
	"github.com/fyerfyer/doc-analyzer/api/middleware"
	appconfig "github.com/fyerfyer/doc-analyzer/config"
	"github.com/fyerfyer/doc-analyzer/internal/cache"
	"github.com/fyerfyer/doc-analyzer/internal/document"
	"github.com/fyerfyer/doc-analyzer/internal/embedding"
	"github.com/fyerfyer/doc-analyzer/internal/extractive"
	"github.com/fyerfyer/doc-analyzer/internal/retrieval"
	"github.com/fyerfyer/doc-analyzer/internal/services"
)

// 命令行参数
type flags struct {
	ConfigFile string // 配置文件路径
	EnvFile    string // .env文件路径
	InitConfig bool   // 写出默认配置后退出
}

func main() {
	opts := parseFlags()

	// .env中的变量会被viper的环境变量覆盖机制读取
	if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: Failed to load env file %s: %v", opts.EnvFile, err)
	}

	if opts.InitConfig {
		if err := appconfig.WriteDefault(opts.ConfigFile); err != nil {
			log.Fatalf("Failed to write default config: %v", err)
		}
		log.Printf("Default config written to %s", opts.ConfigFile)
		return
	}

	cfg, err := appconfig.Load(opts.ConfigFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	gin.SetMode(cfg.Server.Mode)

	logger := setupLogger(cfg.Log)
	logger.Info("Starting Document Analyzer...")

	cacheService, err := setupCache(cfg.Cache)
	if err != nil {
		logger.Fatalf("Failed to initialize cache: %v", err)
	}
	defer cacheService.Close()

	embedder := setupEmbedding(cfg, logger)
	qaClient := setupQA(cfg, logger)

	analyzer := services.NewAnalyzer(embedder, qaClient,
		services.WithChunker(document.NewSentenceChunker(document.ChunkerConfig{
			ChunkSize:      cfg.Document.ChunkSize,
			OverlapWords:   cfg.Document.OverlapWords,
			MinBlockLength: cfg.Document.MinBlockLength,
		})),
		services.WithBlockCache(cacheService, cfg.Analyzer.BlockCacheTTL),
		services.WithRankerConfig(retrieval.RankerConfig{
			LexicalTopK:    cfg.Analyzer.LexicalTopK,
			FallbackBlocks: cfg.Analyzer.FallbackBlocks,
			LexicalWeight:  cfg.Analyzer.LexicalWeight,
			MinSimilarity:  cfg.Analyzer.MinSimilarity,
		}),
		services.WithSynthesizerSettings(services.SynthesizerConfig{
			MinConfidence: cfg.Analyzer.MinConfidence,
			TopBlocks:     cfg.Analyzer.TopBlocks,
		}),
		services.WithLogger(logger),
	)

	sessions := services.NewSessionStore(cacheService, cfg.Document.SessionTTL)
	documentService := services.NewDocumentService(sessions, analyzer, logger)

	// 后台预热模型，首个请求不必等待模型下载
	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()
	if cfg.Analyzer.WarmOnStart {
		go warmup(rootCtx, documentService, cfg.Analyzer.WarmTimeout, logger)
	}

	docHandler := handler.NewDocumentHandler(documentService, cfg.Server.MaxUploadBytes())
	qaHandler := handler.NewQAHandler(documentService)
	healthHandler := handler.NewHealthHandler(documentService, cfg.Analyzer.WarmTimeout)

	r := api.SetupRouter(docHandler, qaHandler, healthHandler, cfg.Server.EnableCORS)

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 优雅关闭
	go func() {
		logger.Infof("Server is running on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}

// parseFlags 解析命令行参数
func parseFlags() flags {
	var f flags
	flag.StringVar(&f.ConfigFile, "config", "config.yaml", "Path to config file")
	flag.StringVar(&f.EnvFile, "env", ".env", "Path to .env file")
	flag.BoolVar(&f.InitConfig, "init-config", false, "Write the default config file and exit")
	flag.Parse()
	return f
}

// setupLogger 设置日志系统
// 配置了日志文件时同时写入标准输出和滚动文件
func setupLogger(cfg appconfig.LogConfig) *logrus.Logger {
	var out io.Writer = os.Stdout
	if cfg.File != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		})
	}

	if err := middleware.ConfigureLogger(cfg.Level, out); err != nil {
		log.Printf("Warning: Invalid log level %q, keeping default", cfg.Level)
	}
	return middleware.GetLogger()
}

// setupCache 设置缓存服务
func setupCache(cfg appconfig.CacheConfig) (cache.Cache, error) {
	return cache.NewCache(cache.Config{
		Type:            cfg.Type,
		RedisAddr:       cfg.Address,
		RedisPassword:   cfg.Password,
		RedisDB:         cfg.DB,
		KeyPrefix:       cfg.KeyPrefix,
		DefaultTTL:      cfg.TTL,
		CleanupInterval: cfg.CleanupInterval,
	})
}

// setupEmbedding 设置嵌入模型客户端
// 首次使用时才连接推理服务并加载模型，之后所有嵌入请求串行执行
func setupEmbedding(cfg *appconfig.Config, logger *logrus.Logger) *embedding.LazyClient {
	return embedding.NewLazyClient(cfg.Embed.Model, func(ctx context.Context) (embedding.Client, error) {
		client, err := embedding.NewPythonClient(logger,
			embedding.WithBaseURL(cfg.PythonService.BaseURL),
			embedding.WithModel(cfg.Embed.Model),
			embedding.WithDimensions(cfg.Embed.Dimensions),
			embedding.WithTimeout(cfg.PythonService.Timeout),
			embedding.WithLoadTimeout(cfg.PythonService.LoadTimeout),
			embedding.WithMaxRetries(cfg.PythonService.MaxRetries),
		)
		if err != nil {
			return nil, err
		}
		if err := client.Warmup(ctx); err != nil {
			return nil, err
		}
		return embedding.NewSerialClient(client), nil
	}, logger)
}

// setupQA 设置抽取式问答客户端
func setupQA(cfg *appconfig.Config, logger *logrus.Logger) *extractive.LazyClient {
	return extractive.NewLazyClient(cfg.QA.Model, func(ctx context.Context) (extractive.Client, error) {
		client, err := extractive.NewPythonClient(logger,
			extractive.WithBaseURL(cfg.PythonService.BaseURL),
			extractive.WithModel(cfg.QA.Model),
			extractive.WithTimeout(cfg.PythonService.Timeout),
			extractive.WithLoadTimeout(cfg.PythonService.LoadTimeout),
			extractive.WithMaxRetries(cfg.PythonService.MaxRetries),
		)
		if err != nil {
			return nil, err
		}
		if err := client.Warmup(ctx); err != nil {
			return nil, err
		}
		return client, nil
	}, logger)
}

// warmup 在后台加载模型，失败只记录日志，之后的请求会重新尝试
func warmup(ctx context.Context, svc *services.DocumentService, timeout time.Duration, logger *logrus.Logger) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	if err := svc.Warmup(ctx); err != nil {
		logger.WithError(err).Warn("Model warmup failed")
		return
	}
	logger.WithField("elapsed", time.Since(start).String()).Info("Models ready")
}

package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config 应用程序配置结构体
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Log           LogConfig           `mapstructure:"log"`
	PythonService PythonServiceConfig `mapstructure:"python_service"`
	Embed         EmbedConfig         `mapstructure:"embed"`
	QA            QAConfig            `mapstructure:"qa"`
	Cache         CacheConfig         `mapstructure:"cache"`
	Document      DocumentConfig      `mapstructure:"document"`
	Analyzer      AnalyzerConfig      `mapstructure:"analyzer"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host         string        `mapstructure:"host"`                                     // 服务器主机
	Port         int           `mapstructure:"port" validate:"min=1,max=65535"`          // 服务器端口
	Mode         string        `mapstructure:"mode" validate:"oneof=debug release test"` // Gin运行模式
	EnableCORS   bool          `mapstructure:"enable_cors"`                              // 是否启用跨域
	MaxUploadMB  int64         `mapstructure:"max_upload_mb" validate:"min=0"`           // 上传文件大小上限（MB，0表示不限制）
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`                             // 读取超时
	WriteTimeout time.Duration `mapstructure:"write_timeout"`                            // 写入超时
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"` // 日志级别
	File       string `mapstructure:"file"`                                         // 日志文件路径，为空时只输出到标准输出
	MaxSizeMB  int    `mapstructure:"max_size_mb"`                                  // 单个日志文件大小上限
	MaxBackups int    `mapstructure:"max_backups"`                                  // 保留的旧日志文件数
	MaxAgeDays int    `mapstructure:"max_age_days"`                                 // 旧日志保留天数
}

// PythonServiceConfig Python推理服务配置
type PythonServiceConfig struct {
	BaseURL     string        `mapstructure:"base_url" validate:"required,url"` // Python服务基础URL
	Timeout     time.Duration `mapstructure:"timeout"`                          // 请求超时时间
	LoadTimeout time.Duration `mapstructure:"load_timeout"`                     // 模型加载超时时间
	MaxRetries  int           `mapstructure:"max_retries" validate:"min=0"`     // 最大重试次数
}

// EmbedConfig 向量嵌入模型配置
type EmbedConfig struct {
	Model      string `mapstructure:"model" validate:"required"`   // 模型名称
	Dimensions int    `mapstructure:"dimensions" validate:"min=0"` // 向量维度（0表示不校验）
}

// QAConfig 抽取式问答模型配置
type QAConfig struct {
	Model string `mapstructure:"model" validate:"required"` // 模型名称
}

// CacheConfig 缓存配置
type CacheConfig struct {
	Type            string        `mapstructure:"type" validate:"oneof=memory redis"` // 缓存类型：memory 或 redis
	Address         string        `mapstructure:"address"`                            // Redis地址
	Password        string        `mapstructure:"password"`                           // Redis密码
	DB              int           `mapstructure:"db"`                                 // Redis数据库
	KeyPrefix       string        `mapstructure:"key_prefix"`                         // 键前缀
	TTL             time.Duration `mapstructure:"ttl"`                                // 默认过期时间
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`                   // 内存缓存清理间隔
}

// DocumentConfig 文档处理配置
type DocumentConfig struct {
	ChunkSize      int           `mapstructure:"chunk_size" validate:"min=1"`       // 分块长度阈值
	OverlapWords   int           `mapstructure:"overlap_words" validate:"min=0"`    // 分块重叠单词数
	MinBlockLength int           `mapstructure:"min_block_length" validate:"min=0"` // 分块最小长度
	SessionTTL     time.Duration `mapstructure:"session_ttl"`                       // 文档会话过期时间
}

// AnalyzerConfig 检索与答案合成配置
type AnalyzerConfig struct {
	LexicalTopK    int           `mapstructure:"lexical_top_k" validate:"min=1"`        // 参与语义排序的关键词候选数
	FallbackBlocks int           `mapstructure:"fallback_blocks" validate:"min=1"`      // 关键词无命中时的语义排序分块数
	LexicalWeight  float64       `mapstructure:"lexical_weight" validate:"min=0"`       // 关键词得分权重
	MinSimilarity  float64       `mapstructure:"min_similarity"`                        // 最终得分下限
	MinConfidence  float64       `mapstructure:"min_confidence" validate:"min=0,max=1"` // 抽取答案最低置信度
	TopBlocks      int           `mapstructure:"top_blocks" validate:"min=1"`           // 回复引用的分块数
	BlockCacheTTL  time.Duration `mapstructure:"block_cache_ttl"`                       // 分块结果缓存时间
	WarmOnStart    bool          `mapstructure:"warm_on_start"`                         // 启动时后台预热模型
	WarmTimeout    time.Duration `mapstructure:"warm_timeout"`                          // 就绪检查预热超时
}

// Load 从文件和环境变量加载配置
// configPath为空或文件不存在时使用默认值
func Load(configPath string) (*Config, error) {
	var config Config

	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			log.Printf("Warning: Config file not found at %s, using defaults", configPath)
		} else {
			log.Printf("Using config file: %s", v.ConfigFileUsed())
		}
	}

	// 支持环境变量覆盖，例如 PYTHON_SERVICE_BASE_URL
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate 校验配置项
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Cache.Type == "redis" && c.Cache.Address == "" {
		return errors.New("invalid config: cache.address is required for redis cache")
	}
	return nil
}

// WriteDefault 把默认配置写入指定路径
func WriteDefault(path string) error {
	v := viper.New()
	setDefaults(v)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return v.WriteConfigAs(path)
}

// MaxUploadBytes 返回上传文件大小上限（字节）
func (s ServerConfig) MaxUploadBytes() int64 {
	return s.MaxUploadMB << 20
}

// Address 返回监听地址
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// setDefaults 设置配置的默认值
func setDefaults(v *viper.Viper) {
	// 服务器默认配置
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.enable_cors", false)
	v.SetDefault("server.max_upload_mb", 20)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "5m")

	// 日志默认配置
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)

	// Python服务默认配置
	v.SetDefault("python_service.base_url", "http://localhost:8000/api")
	v.SetDefault("python_service.timeout", "60s")
	v.SetDefault("python_service.load_timeout", "5m")
	v.SetDefault("python_service.max_retries", 2)

	// 模型默认配置
	v.SetDefault("embed.model", "sentence-transformers/all-MiniLM-L6-v2")
	v.SetDefault("embed.dimensions", 384)
	v.SetDefault("qa.model", "distilbert-base-cased-distilled-squad")

	// 缓存默认配置
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.address", "localhost:6379")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.key_prefix", "docanalyzer")
	v.SetDefault("cache.ttl", "2h")
	v.SetDefault("cache.cleanup_interval", "10m")

	// 文档处理默认配置
	v.SetDefault("document.chunk_size", 500)
	v.SetDefault("document.overlap_words", 12)
	v.SetDefault("document.min_block_length", 20)
	v.SetDefault("document.session_ttl", "2h")

	// 检索与答案合成默认配置
	v.SetDefault("analyzer.lexical_top_k", 15)
	v.SetDefault("analyzer.fallback_blocks", 30)
	v.SetDefault("analyzer.lexical_weight", 0.1)
	v.SetDefault("analyzer.min_similarity", 0.15)
	v.SetDefault("analyzer.min_confidence", 0.01)
	v.SetDefault("analyzer.top_blocks", 2)
	v.SetDefault("analyzer.block_cache_ttl", "30m")
	v.SetDefault("analyzer.warm_on_start", true)
	v.SetDefault("analyzer.warm_timeout", "5m")
}

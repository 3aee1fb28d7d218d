package config

import (
	"errors"
	"time"

	"feeguard-backend/pkg/logger"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	RPC      RPCConfig      `mapstructure:"rpc"`
	Guard    GuardConfig    `mapstructure:"guard"`
	Context  ContextConfig  `mapstructure:"context"`
	Chains   ChainsConfig   `mapstructure:"chains"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type RPCConfig struct {
	Endpoint       string        `mapstructure:"endpoint"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type GuardConfig struct {
	FeeThresholdEth float64       `mapstructure:"fee_threshold_eth"`
	CachePrefix     string        `mapstructure:"cache_prefix"`
	CacheTTL        time.Duration `mapstructure:"cache_ttl"`
}

type ContextConfig struct {
	Blocks         int     `mapstructure:"blocks"`
	Step           int     `mapstructure:"step"`
	MaxBlocks      int     `mapstructure:"max_blocks"`
	WarnMultMedian float64 `mapstructure:"warn_mult_median"`
	WarnMultP95    float64 `mapstructure:"warn_mult_p95"`
}

type ChainsConfig struct {
	// 链ID(字符串形式) -> 网络名称，用于覆盖内置映射表
	Labels map[string]string `mapstructure:"labels"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Set defaults
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "feeguard")
	viper.SetDefault("database.password", "feeguard")
	viper.SetDefault("database.dbname", "feeguard_db")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	// RPC defaults
	viper.SetDefault("rpc.endpoint", "https://mainnet.infura.io/v3/")
	viper.SetDefault("rpc.request_timeout", time.Second*15)

	// Guard defaults
	viper.SetDefault("guard.fee_threshold_eth", 0.05)
	viper.SetDefault("guard.cache_prefix", "feeguard:report:")
	viper.SetDefault("guard.cache_ttl", time.Minute*10)

	// Context defaults
	viper.SetDefault("context.blocks", 300)
	viper.SetDefault("context.step", 3)
	viper.SetDefault("context.max_blocks", 10000)
	viper.SetDefault("context.warn_mult_median", 2.0)
	viper.SetDefault("context.warn_mult_p95", 1.2)

	// Read environment variables
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			logger.Error("LoadConfig Error: ", errors.New("config file not found"), "error: ", err)
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		logger.Error("LoadConfig Error: ", errors.New("failed to unmarshal config"), "error: ", err)
		return nil, err
	}

	if err := validateConfig(&config); err != nil {
		logger.Error("LoadConfig Error: ", err)
		return nil, err
	}

	logger.Info("LoadConfig: ", "load config success")
	return &config, nil
}

func validateConfig(config *Config) error {
	if config.RPC.Endpoint == "" {
		return errors.New("rpc endpoint is required")
	}
	if config.Guard.FeeThresholdEth < 0 {
		return errors.New("guard fee threshold must be non-negative")
	}
	if config.Context.Blocks <= 0 || config.Context.Step <= 0 {
		return errors.New("context blocks and step must be positive")
	}
	if config.Context.Blocks > config.Context.MaxBlocks {
		logger.Warn("LoadConfig: context blocks capped", "blocks", config.Context.Blocks, "max", config.Context.MaxBlocks)
		config.Context.Blocks = config.Context.MaxBlocks
	}
	return nil
}

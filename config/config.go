package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Host           string   `yaml:"host"`
		Port           int      `yaml:"port"`
		Addr           string   `yaml:"-"` // 不从配置文件读取，而是在加载后计算
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`
	Log struct {
		Level    string `yaml:"level"`
		Format   string `yaml:"format"`
		Output   string `yaml:"output"`
		FilePath string `yaml:"file_path"`
	} `yaml:"log"`

	DB struct {
		Host            string `yaml:"host"`
		Port            int    `yaml:"port"`
		Username        string `yaml:"username"`
		Password        string `yaml:"password"`
		Database        string `yaml:"database"`
		Charset         string `yaml:"charset"`
		ParseTime       bool   `yaml:"parse_time"`
		DSN             string `yaml:"-"`                 // 不从配置文件读取，而是在加载后计算
		MaxOpenConns    int    `yaml:"max_open_conns"`    // 最大打开连接数
		MaxIdleConns    int    `yaml:"max_idle_conns"`    // 最大空闲连接数
		ConnMaxLifetime int    `yaml:"conn_max_lifetime"` // 连接最大生命周期（分钟）
	} `yaml:"database"`
	JWT struct {
		Secret      string `yaml:"secret"`
		ExpireHours int    `yaml:"expire_hours"`
	} `yaml:"jwt"`
	Embedding struct {
		Provider   string  `yaml:"provider"` // gemini / openai
		APIKey     string  `yaml:"api_key"`
		Model      string  `yaml:"model"`
		BaseURL    string  `yaml:"base_url"`
		TimeoutSec int     `yaml:"timeout_sec"` // 单次匹配请求内 embedding 调用的超时时间
		MaxRetries int     `yaml:"max_retries"`
		RatePerSec float64 `yaml:"rate_per_sec"` // 0 表示不限速
	} `yaml:"embedding"`
	LLM struct {
		APIKey  string `yaml:"api_key"`
		Model   string `yaml:"model"`
		BaseURL string `yaml:"base_url"`
	} `yaml:"llm"`
	Match struct {
		Threshold  float64 `yaml:"threshold"`
		SkillBoost float64 `yaml:"skill_boost"`
		BioBoost   float64 `yaml:"bio_boost"`
		NameScore  float64 `yaml:"name_score"`
	} `yaml:"match"`
	Credits struct {
		Initial           int `yaml:"initial"`
		UpvoteRewardEvery int `yaml:"upvote_reward_every"` // 每多少个点赞奖励 1 积分
	} `yaml:"credits"`
	Session struct {
		MeetLink string `yaml:"meet_link"`
	} `yaml:"session"`
	Upload struct {
		Bucket    string `yaml:"bucket"`
		Region    string `yaml:"region"`
		Endpoint  string `yaml:"endpoint"`
		Prefix    string `yaml:"prefix"`
		PublicURL string `yaml:"public_url"`
		MaxSizeMB int    `yaml:"max_size_mb"`
	} `yaml:"upload"`
	Scheduler struct {
		Enabled          bool `yaml:"enabled"`
		CheckIntervalSec int  `yaml:"check_interval_sec"` // 调度器检查间隔（秒）
		BackfillBatch    int  `yaml:"backfill_batch"`     // 每轮补全 embedding 的最大用户数
		Concurrency      int  `yaml:"concurrency"`
	} `yaml:"scheduler"`
}

// Load 从当前目录的 config.yaml 加载配置
func Load() *Config {
	return LoadFrom("config.yaml")
}

// LoadFrom 从指定路径加载配置，文件不存在时完全从环境变量加载
func LoadFrom(path string) *Config {
	// 首先尝试加载.env文件中的环境变量
	_ = godotenv.Load() // 忽略错误，如果.env文件不存在，继续使用系统环境变量

	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return loadFromEnv()
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Printf("Error loading %s: %v, falling back to environment variables", path, err)
		return loadFromEnv()
	}
	log.Printf("Loading configuration from %s", path)

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)
	return &cfg
}

func loadFromEnv() *Config {
	var cfg Config

	if host := os.Getenv("DATABASE_HOST"); host != "" {
		cfg.DB.Host = host
	}
	if name := os.Getenv("DATABASE_NAME"); name != "" {
		cfg.DB.Database = name
	}
	if provider := os.Getenv("EMBEDDING_PROVIDER"); provider != "" {
		cfg.Embedding.Provider = provider
	}
	cfg.DB.ParseTime = true

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	log.Println("配置从环境变量加载，部分配置可能缺失")
	return &cfg
}

// applyEnvOverrides 从环境变量中加载敏感信息
func applyEnvOverrides(cfg *Config) {
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if envUsername := os.Getenv("DATABASE_USERNAME"); envUsername != "" {
		cfg.DB.Username = envUsername
	}
	if envPassword := os.Getenv("DATABASE_PASSWORD"); envPassword != "" {
		cfg.DB.Password = envPassword
	}
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		cfg.DB.DSN = dsn
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.JWT.Secret = secret
	}
	if apiKey := os.Getenv("EMBEDDING_API_KEY"); apiKey != "" {
		cfg.Embedding.APIKey = apiKey
	}
	if apiKey := os.Getenv("LLM_API_KEY"); apiKey != "" {
		cfg.LLM.APIKey = apiKey
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5000
	}
	cfg.Server.Addr = fmt.Sprintf(":%d", cfg.Server.Port)

	if cfg.DB.Charset == "" {
		cfg.DB.Charset = "utf8mb4"
	}
	if cfg.DB.DSN == "" && cfg.DB.Host != "" {
		cfg.DB.DSN = BuildDSN(cfg)
	}

	if cfg.JWT.ExpireHours <= 0 {
		cfg.JWT.ExpireHours = 1
	}

	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "gemini"
	}
	if cfg.Embedding.TimeoutSec <= 0 {
		cfg.Embedding.TimeoutSec = 4
	}
	if cfg.Embedding.MaxRetries == 0 {
		cfg.Embedding.MaxRetries = 1 // 负数表示不重试
	}

	if cfg.Match.Threshold == 0 {
		cfg.Match.Threshold = 0.1
	}
	if cfg.Match.SkillBoost == 0 {
		cfg.Match.SkillBoost = 0.5
	}
	if cfg.Match.BioBoost == 0 {
		cfg.Match.BioBoost = 0.2
	}
	if cfg.Match.NameScore == 0 {
		cfg.Match.NameScore = 1
	}

	if cfg.Credits.Initial <= 0 {
		cfg.Credits.Initial = 5
	}
	if cfg.Credits.UpvoteRewardEvery <= 0 {
		cfg.Credits.UpvoteRewardEvery = 10
	}
	if cfg.Session.MeetLink == "" {
		cfg.Session.MeetLink = "https://meet.google.com/new"
	}

	if cfg.Upload.Prefix == "" {
		cfg.Upload.Prefix = "skillbarter_chat"
	}
	if cfg.Upload.MaxSizeMB <= 0 {
		cfg.Upload.MaxSizeMB = 25
	}

	if cfg.Scheduler.CheckIntervalSec <= 0 {
		cfg.Scheduler.CheckIntervalSec = 300
	}
	if cfg.Scheduler.BackfillBatch <= 0 {
		cfg.Scheduler.BackfillBatch = 50
	}
	if cfg.Scheduler.Concurrency <= 0 {
		cfg.Scheduler.Concurrency = 4
	}
}

// BuildDSN 根据数据库配置拼接 MySQL DSN
func BuildDSN(cfg *Config) string {
	parseTime := ""
	if cfg.DB.ParseTime {
		parseTime = "&parseTime=true"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s%s",
		cfg.DB.Username,
		cfg.DB.Password,
		cfg.DB.Host,
		cfg.DB.Port,
		cfg.DB.Database,
		cfg.DB.Charset,
		parseTime)
}

package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	commoncfg "github.com/UMEZAWADAN/SD-5/common/config"
	"github.com/UMEZAWADAN/SD-5/internal/domain"
	"github.com/UMEZAWADAN/SD-5/internal/tabs"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config carerecord 服务配置
// 优先级：环境变量 > CONFIG_FILE(YAML) > 默认值
type Config struct {
	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`
	DBEnabled    bool                     `yaml:"db_enabled"`
	Database     commoncfg.DatabaseConfig `yaml:"database"`
	RedisEnabled bool                     `yaml:"redis_enabled"`
	Redis        commoncfg.RedisConfig    `yaml:"redis"`
	Stream       StreamConfig             `yaml:"stream"`
	MQTT         commoncfg.MQTTConfig     `yaml:"mqtt"`
	Log          struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Save     SaveConfig `yaml:"save"`
	PersonID string     `yaml:"person_id"`
	Tabs     []tabs.Tab `yaml:"tabs"`
}

// SaveConfig まとめて保存 的目标接口
type SaveConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

// StreamConfig 保存事件写入的 Redis stream
type StreamConfig struct {
	Name   string `yaml:"name"`
	MaxLen int64  `yaml:"max_len"`
}

func defaults() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = ":8080"

	// 默认不连 DB：访问记录使用内存 repo
	cfg.DBEnabled = false
	cfg.Database = commoncfg.DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		Database: "care_record",
		SSLMode:  "disable",
	}
	cfg.RedisEnabled = true
	cfg.Redis.Addr = "localhost:6379"
	cfg.Stream.Name = "care-record:assessments"
	cfg.Stream.MaxLen = 10000

	cfg.MQTT.Broker = "tcp://localhost:1883"
	cfg.MQTT.ClientID = "care-record"
	cfg.MQTT.Topic = "care-record/assessments"

	cfg.Log.Level = "info"
	cfg.Log.Format = "json"

	// Save.Endpoint 留空：未配置时由最终的 HTTP.Addr 推出本服务自己的保存接口
	cfg.Save.Timeout = 10 * time.Second
	cfg.PersonID = domain.DemoPerson().PersonID
	cfg.Tabs = tabs.DefaultTabs()
	return cfg
}

// Load 读取 .env（不存在则忽略）、可选 YAML、再用环境变量覆盖
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) loadYAML(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.HTTP.Addr = getEnv("HTTP_ADDR", c.HTTP.Addr)

	c.DBEnabled = parseBool(os.Getenv("DB_ENABLED"), c.DBEnabled)
	c.Database.LoadFromEnv("DB")

	c.RedisEnabled = parseBool(os.Getenv("REDIS_ENABLED"), c.RedisEnabled)
	c.Redis.LoadFromEnv("REDIS")
	c.Stream.Name = getEnv("REDIS_STREAM", c.Stream.Name)
	c.Stream.MaxLen = int64(parseInt(os.Getenv("REDIS_STREAM_MAXLEN"), int(c.Stream.MaxLen)))

	c.MQTT.LoadFromEnv("MQTT")

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)

	c.Save.Endpoint = getEnv("SAVE_ENDPOINT", c.Save.Endpoint)
	if c.Save.Endpoint == "" {
		c.Save.Endpoint = localSaveEndpoint(c.HTTP.Addr)
	}
	if v := os.Getenv("SAVE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Save.Timeout = d
		}
	}
	c.PersonID = getEnv("PERSON_ID", c.PersonID)
}

// localSaveEndpoint ":9090" / "0.0.0.0:9090" -> http://localhost:9090/api/save_all_assessments
func localSaveEndpoint(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		host, port = "", "8080"
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port) + "/api/save_all_assessments"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func parseBool(s string, def bool) bool {
	if s == "" {
		return def
	}
	return s == "true"
}

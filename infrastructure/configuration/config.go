package configuration

import (
	"fmt"
	"os"
	"strconv"

	"lently/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	App         App         `json:"app"`
	Database    Database    `json:"database"`
	RedisClient RedisClient `json:"redisClient"`
	YouTube     YouTube     `json:"youtube"`
	Gemini      Gemini      `json:"gemini"`
	Pubsub      Pubsub      `json:"pubsub"`
	Sync        Sync        `json:"sync"`
}

type App struct {
	Port      int    `json:"port"`
	SecretKey string `json:"secretKey"`
}

type Database struct {
	Mongo Db `json:"mongo"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
}

type RedisClient struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type YouTube struct {
	APIKey       string `json:"apiKey"`
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
	RedirectURI  string `json:"redirectURI"`
}

type Gemini struct {
	APIKey  string `json:"apiKey"`
	Model   string `json:"model"`
	BaseURL string `json:"baseURL"`
}

type Pubsub struct {
	ProjectID string `json:"projectID"`
	Topic     string `json:"topic"`
}

// Sync holds pipeline tunables. The two batch sizes intentionally differ: the
// inline sync path uses larger batches, the standalone re-analyze path smaller
// ones to stay clear of response truncation.
type Sync struct {
	BatchSize           int    `json:"batchSize"`
	ReanalyzeBatchSize  int    `json:"reanalyzeBatchSize"`
	MaxCommentsPerSync  int    `json:"maxCommentsPerSync"`
	AutoSyncCron        string `json:"autoSyncCron"`
	AutoSyncMinInterval int    `json:"autoSyncMinIntervalHours"`
}

var C Config

func init() {
	LoadConfig()
	initApp(&C)
	initDatabase(&C)
	initSync(&C)
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initApp(C *Config) {
	// SECRET_KEY from environment overrides the config file when provided.
	if v := os.Getenv("SECRET_KEY"); v != "" {
		C.App.SecretKey = v
	}
	// Port resolution order (env overrides config): APP_PORT -> PORT -> config -> default 10001
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	}
	if C.App.Port == 0 {
		C.App.Port = 10001
	}
	if C.App.SecretKey == "" {
		logger.GetLogger().Warn("App.SecretKey not set; JWT authentication will fail. Provide SECRET_KEY via environment.")
	}
}

func initDatabase(C *Config) {
	if C.Database.Mongo.Host == "" {
		C.Database.Mongo.Host = getEnv("MONGO_HOST", "localhost")
	}
	if C.Database.Mongo.Port == "" {
		C.Database.Mongo.Port = getEnv("MONGO_PORT", "27017")
	}
	if C.Database.Mongo.Name == "" {
		C.Database.Mongo.Name = getEnv("MONGO_DB_NAME", "lently")
	}
	if C.Database.Mongo.User == "" {
		C.Database.Mongo.User = os.Getenv("MONGO_USER")
	}
	if C.Database.Mongo.Password == "" {
		C.Database.Mongo.Password = os.Getenv("MONGO_PASSWORD")
	}
	if C.RedisClient.Host == "" {
		C.RedisClient.Host = getEnv("REDIS_HOST", "localhost")
	}
	if C.RedisClient.Port == "" {
		C.RedisClient.Port = getEnv("REDIS_PORT", "6379")
	}
}

func initSync(C *Config) {
	if C.Sync.BatchSize == 0 {
		C.Sync.BatchSize = 50
	}
	if C.Sync.ReanalyzeBatchSize == 0 {
		C.Sync.ReanalyzeBatchSize = 30
	}
	if C.Sync.AutoSyncCron == "" {
		C.Sync.AutoSyncCron = "0 */6 * * *"
	}
	if C.Sync.AutoSyncMinInterval == 0 {
		C.Sync.AutoSyncMinInterval = 24
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

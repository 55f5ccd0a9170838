package configuration

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"clipcast/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	App         App         `json:"app"`
	Database    Database    `json:"database"`
	RedisClient RedisClient `json:"redisClient"`
	Logger      Logger      `json:"logger"`
	OAuth       OAuth       `json:"oauth"`
	Publish     Publish     `json:"publish"`
}

type App struct {
	Port      int    `json:"port"`
	SecretKey string `json:"secretKey"`
	// BaseURL is the externally visible origin used to derive default OAuth
	// redirect URIs, e.g. https://app.clipcast.io
	BaseURL string `json:"baseURL"`
	// UIRedirectURL is the frontend route the OAuth callback redirects to
	// with a machine-readable outcome in the query string.
	UIRedirectURL string `json:"uiRedirectURL"`
}

type Database struct {
	Psql Db `json:"psql"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
}

type RedisClient struct {
	Host         string `json:"host"`
	Port         string `json:"port"`
	Password     string `json:"password"`
	Username     string `json:"username"`
	DatabaseName string `json:"databaseName"`
}

type Logger struct {
	Format string `json:"format"`
}

// OAuth holds process-level OAuth client credentials per platform. Persisted
// application settings take precedence over these at resolution time.
type OAuth struct {
	YouTube   OAuthClient `json:"youtube"`
	TikTok    OAuthClient `json:"tiktok"`
	Instagram OAuthClient `json:"instagram"`
	Facebook  OAuthClient `json:"facebook"`
	Twitter   OAuthClient `json:"twitter"`
}

type OAuthClient struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
	RedirectURI  string `json:"redirectURI"`
}

// Client returns the configured credentials for a platform name.
func (o OAuth) Client(platform string) OAuthClient {
	switch strings.ToLower(platform) {
	case "youtube":
		return o.YouTube
	case "tiktok":
		return o.TikTok
	case "instagram":
		return o.Instagram
	case "facebook":
		return o.Facebook
	case "twitter":
		return o.Twitter
	}
	return OAuthClient{}
}

type Publish struct {
	// SimulationEnabled lets platforms without a real integration synthesise
	// a clearly labeled fake success so the pipeline can be exercised.
	SimulationEnabled bool `json:"simulationEnabled"`
	// StatusTimeoutSeconds bounds status-style platform calls.
	StatusTimeoutSeconds int `json:"statusTimeoutSeconds"`
	// UploadTimeoutSeconds bounds binary upload calls.
	UploadTimeoutSeconds int `json:"uploadTimeoutSeconds"`
}

var C Config

func init() {
	LoadConfig()
	initDatabase(&C)
	initApp(&C)
	initOAuth(&C)
	initPublish(&C)
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

	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initDatabase(C *Config) {
	if C.Database.Psql.Name == "" {
		C.Database.Psql.Name = os.Getenv("DB_NAME")
	}
	if C.Database.Psql.Host == "" {
		C.Database.Psql.Host = os.Getenv("DB_HOST")
	}
	if C.Database.Psql.User == "" {
		C.Database.Psql.User = os.Getenv("DB_USER")
	}
	if C.Database.Psql.Password == "" {
		C.Database.Psql.Password = os.Getenv("DB_PASSWORD")
	}
	if C.Database.Psql.Port == "" {
		C.Database.Psql.Port = os.Getenv("DB_PORT")
	}
	if C.Database.Psql.Port == "" {
		C.Database.Psql.Port = "5432"
	}
}

func initApp(C *Config) {
	// SECRET_KEY from environment overrides config when provided
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
	if v := os.Getenv("APP_BASE_URL"); v != "" {
		C.App.BaseURL = v
	}
	if C.App.BaseURL == "" {
		C.App.BaseURL = fmt.Sprintf("http://localhost:%d", C.App.Port)
	}
	if C.App.UIRedirectURL == "" {
		C.App.UIRedirectURL = "/settings/social-accounts"
	}
	if C.App.SecretKey == "" {
		logger.GetLogger().Warn("App.SecretKey not set; JWT authentication will fail. Provide SECRET_KEY via environment.")
	}
}

func initOAuth(C *Config) {
	fill := func(c *OAuthClient, envPrefix string) {
		if c.ClientID == "" {
			c.ClientID = os.Getenv(envPrefix + "_CLIENT_ID")
		}
		if c.ClientSecret == "" {
			c.ClientSecret = os.Getenv(envPrefix + "_CLIENT_SECRET")
		}
		if c.RedirectURI == "" {
			c.RedirectURI = os.Getenv(envPrefix + "_REDIRECT_URI")
		}
	}
	fill(&C.OAuth.YouTube, "YOUTUBE")
	fill(&C.OAuth.TikTok, "TIKTOK")
	fill(&C.OAuth.Instagram, "INSTAGRAM")
	fill(&C.OAuth.Facebook, "FACEBOOK")
	fill(&C.OAuth.Twitter, "TWITTER")
}

func initPublish(C *Config) {
	if v := os.Getenv("PUBLISH_SIMULATION"); v != "" {
		switch v {
		case "1", "true", "TRUE", "True":
			C.Publish.SimulationEnabled = true
		case "0", "false", "FALSE", "False":
			C.Publish.SimulationEnabled = false
		}
	}
	if C.Publish.StatusTimeoutSeconds == 0 {
		C.Publish.StatusTimeoutSeconds = 10
	}
	if C.Publish.UploadTimeoutSeconds == 0 {
		C.Publish.UploadTimeoutSeconds = 120
	}
}

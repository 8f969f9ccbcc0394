package config

import (
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/ajinkyagorad/fb-events-map/internal/extract"
	"github.com/ajinkyagorad/fb-events-map/internal/geo"
)

type Config struct {
	Env        string     `yaml:"env" env:"ENV" env-default:"local"`
	HttpServer HttpServer `yaml:"httpServer"`
	Storage    Storage    `yaml:"storage"`
	Extractor  Extractor  `yaml:"extractor"`
	Geocoder   Geocoder   `yaml:"geocoder"`
	AI         AI         `yaml:"ai"`
	Bot        Bot        `yaml:"bot"`
	Site       Site       `yaml:"site"`
	Source     Source     `yaml:"source"`
}

type HttpServer struct {
	Address         string        `yaml:"address" env-default:"localhost"`
	Port            string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"readTimeout" env-default:"5s"`
	WriteTimeout    time.Duration `yaml:"writeTimeout" env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idleTimeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" env-default:"10s"`
	Secret          string        `yaml:"secret" env:"HTTP_SECRET"`
}

type Storage struct {
	// Path to the sqlite file; empty keeps the event set in memory.
	Path string `yaml:"path" env:"DB_PATH"`
}

type Extractor struct {
	BaseURL          string          `yaml:"baseUrl" env-default:"https://www.facebook.com"`
	DescriptionLimit int             `yaml:"descriptionLimit" env-default:"150"`
	TextSource       string          `yaml:"textSource" env-default:"flattened"`
	Profile          extract.Profile `yaml:"profile"`
}

type Geocoder struct {
	Endpoint  string        `yaml:"endpoint"`
	RelayURL  string        `yaml:"relayUrl"`
	UserAgent string        `yaml:"userAgent" env-default:"fb-events-map/1.0"`
	Timeout   time.Duration `yaml:"timeout" env-default:"10s"`
	Placement geo.Config    `yaml:"placement"`
}

type AI struct {
	Token string `yaml:"token" env:"OPENROUTER_TOKEN"`
	Model string `yaml:"model" env-default:"deepseek/deepseek-chat"`
}

type Bot struct {
	Token  string `yaml:"token" env:"TELEGRAM_TOKEN"`
	ChatID int64  `yaml:"chatId" env:"TELEGRAM_CHAT_ID"`
}

// Site describes the installation for outward-facing projections such as the
// RSS feed.
type Site struct {
	Title       string `yaml:"title" env-default:"Helsinki events"`
	Link        string `yaml:"link" env-default:"http://localhost:8080"`
	Description string `yaml:"description" env-default:"Events extracted from the feed"`
}

// Source is the default page source used when an extraction request names
// none: a saved snapshot path or a live URL.
type Source struct {
	URL       string `yaml:"url"`
	File      string `yaml:"file"`
	UserAgent string `yaml:"userAgent" env-default:"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"`
}

// MustLoad reads CONFIG_PATH (default ./config.yaml) and dies loudly on any
// problem; a half-configured service is worse than no service.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config.yaml"
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}
	return &cfg
}

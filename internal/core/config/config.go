package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const defaultPath = "./configs/config.local.yaml"

type HTTP struct {
	Host              string
	Port              int
	ReadTimeoutSec    int
	WriteTimeoutSec   int
	IdleTimeoutSec    int
	RequestTimeoutSec int
	MaxBodyBytes      int64
	RateLimitRPS      float64
	RateLimitBurst    int
	PerIPRPS          float64
	PerIPBurst        int
	MaxConcurrent     int64
}

type App struct {
	Name string
	Env  string
	HTTP HTTP
}

type LogFile struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level string
	JSON  bool
	File  LogFile
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
}

type Auth struct {
	AllowAdminSignup bool
}

type Redis struct {
	Addr          string `mapstructure:"addr"`
	Password      string `mapstructure:"password"`
	DB            int    `mapstructure:"db"`
	CatalogTTLSec int    `mapstructure:"catalogttlsec"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type Config struct {
	App   App
	Log   Log
	JWT   JWT
	Auth  Auth
	DB    DB
	Redis Redis `mapstructure:"redis"`
}

func (c *Config) IsProduction() bool { return strings.EqualFold(c.App.Env, "production") }

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "sweet-shop")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 3001)
	v.SetDefault("app.http.readtimeoutsec", 10)
	v.SetDefault("app.http.writetimeoutsec", 15)
	v.SetDefault("app.http.idletimeoutsec", 60)
	v.SetDefault("app.http.requesttimeoutsec", 10)
	v.SetDefault("app.http.maxbodybytes", 1<<20)
	v.SetDefault("app.http.ratelimitrps", 200)
	v.SetDefault("app.http.ratelimitburst", 400)
	v.SetDefault("app.http.periprps", 20)
	v.SetDefault("app.http.peripburst", 40)
	v.SetDefault("app.http.maxconcurrent", 300)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file.filename", "logs/app.log")
	v.SetDefault("log.file.maxsizemb", 100)
	v.SetDefault("log.file.maxbackups", 5)
	v.SetDefault("log.file.maxagedays", 14)

	v.SetDefault("log.file.enable", false)
	v.SetDefault("log.file.compress", false)

	// keys only read from env still need a default so Unmarshal sees them
	v.SetDefault("jwt.secret", "")
	v.SetDefault("db.username", "")
	v.SetDefault("db.password", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("jwt.issuer", "sweet-shop")
	v.SetDefault("jwt.accesstokenttlmin", 24*60)
	v.SetDefault("auth.allowadminsignup", true)

	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.dsn", "host=localhost user=postgres password=postgres dbname=sweet_shop port=5432 sslmode=disable")
	v.SetDefault("db.maxopenconns", 20)
	v.SetDefault("db.maxidleconns", 10)
	v.SetDefault("db.connmaxlifetimemin", 30)
	v.SetDefault("db.automigrate", true)
	v.SetDefault("db.loglevel", "warn")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.catalogttlsec", 30)
}

// Load reads the yaml file at path (CONFIG_PATH, then ./configs/config.local.yaml
// when empty) and overlays APP_* environment variables. A missing file is fine;
// everything has a default except the production JWT secret.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = defaultPath
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	var errs []error
	switch c.DB.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("db.driver %q is not supported", c.DB.Driver))
	}
	if c.DB.DSN == "" {
		errs = append(errs, errors.New("db.dsn is required"))
	}
	if c.App.HTTP.Port <= 0 || c.App.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("app.http.port %d out of range", c.App.HTTP.Port))
	}
	if c.JWT.AccessTokenTTLMin <= 0 {
		errs = append(errs, errors.New("jwt.accessTokenTTLMin must be positive"))
	}
	if c.IsProduction() && c.JWT.Secret == "" {
		errs = append(errs, errors.New("jwt.secret (APP_JWT_SECRET) must be set in production"))
	}
	return errors.Join(errs...)
}

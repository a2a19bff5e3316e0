package config

import (
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/mongodb/grip"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// DefaultCORSOrigins are the frontends allowed to call the API from a browser.
var DefaultCORSOrigins = []string{
	"http://localhost:5173",
	"https://touravels.vercel.app",
	"https://touravels.netlify.app",
}

type Config struct {
	Port string

	DBUser           string
	DBPass           string
	DBHost           string
	DBScheme         string
	DBAppName        string
	DatabaseURL      string
	DBName           string
	DBStrictAPI      bool
	DBConnectTimeout time.Duration
	DBFailFast       bool

	StoreDriver    string
	CORSOrigins    []string
	RequestTimeout time.Duration

	JWTSecret string
	AdminUser string
	AdminPass string

	LogLevel string
}

// Load reads the configuration from the environment. When envFile exists its
// KEY=VALUE pairs are used as a fallback for variables missing from the
// environment.
func Load(envFile string) (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "5000")
	v.SetDefault("DB_HOST", "cluster0.0coytx6.mongodb.net")
	v.SetDefault("DB_SCHEME", "mongodb+srv")
	v.SetDefault("DB_APP_NAME", "Cluster0")
	v.SetDefault("DB_NAME", "touristsSpotDB")
	v.SetDefault("DB_STRICT_API", true)
	v.SetDefault("DB_CONNECT_TIMEOUT", "10s")
	v.SetDefault("DB_FAIL_FAST", true)
	v.SetDefault("STORE_DRIVER", DriverMongo)
	v.SetDefault("REQUEST_TIMEOUT", "0s")
	v.SetDefault("LOG_LEVEL", "info")

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			v.SetConfigFile(envFile)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return Config{}, errors.Wrapf(err, "reading %s", envFile)
			}
		}
	}

	origins := DefaultCORSOrigins
	if raw := strings.TrimSpace(v.GetString("CORS_ORIGINS")); raw != "" {
		origins = splitList(raw)
	}

	return Config{
		Port: v.GetString("PORT"),

		DBUser:           v.GetString("DB_USER"),
		DBPass:           v.GetString("DB_PASS"),
		DBHost:           v.GetString("DB_HOST"),
		DBScheme:         v.GetString("DB_SCHEME"),
		DBAppName:        v.GetString("DB_APP_NAME"),
		DatabaseURL:      v.GetString("DATABASE_URL"),
		DBName:           v.GetString("DB_NAME"),
		DBStrictAPI:      v.GetBool("DB_STRICT_API"),
		DBConnectTimeout: v.GetDuration("DB_CONNECT_TIMEOUT"),
		DBFailFast:       v.GetBool("DB_FAIL_FAST"),

		StoreDriver:    strings.ToLower(v.GetString("STORE_DRIVER")),
		CORSOrigins:    origins,
		RequestTimeout: v.GetDuration("REQUEST_TIMEOUT"),

		JWTSecret: v.GetString("JWT_SECRET"),
		AdminUser: v.GetString("ADMIN_USERNAME"),
		AdminPass: v.GetString("ADMIN_PASSWORD"),

		LogLevel: strings.ToLower(v.GetString("LOG_LEVEL")),
	}, nil
}

// URI returns the MongoDB connection string. DATABASE_URL wins when set;
// otherwise the URI is assembled from the DB_* parts with the credentials
// escaped.
func (c Config) URI() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme: c.DBScheme,
		User:   url.UserPassword(c.DBUser, c.DBPass),
		Host:   c.DBHost,
		Path:   "/",
	}
	q := url.Values{}
	q.Set("retryWrites", "true")
	q.Set("w", "majority")
	if c.DBAppName != "" {
		q.Set("appName", c.DBAppName)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string { return ":" + c.Port }

// AuthEnabled reports whether mutating routes require a bearer token.
func (c Config) AuthEnabled() bool { return c.JWTSecret != "" }

// Validate only checks presence and shape; values are not probed.
func (c Config) Validate() error {
	catcher := grip.NewBasicCatcher()

	if c.Port == "" {
		catcher.Add(errors.New("PORT must not be empty"))
	}
	switch c.StoreDriver {
	case DriverMongo:
		if c.DatabaseURL == "" && (c.DBUser == "" || c.DBPass == "") {
			catcher.Add(errors.New("DB_USER and DB_PASS are required unless DATABASE_URL is set"))
		}
		if c.DatabaseURL == "" && c.DBHost == "" {
			catcher.Add(errors.New("DB_HOST must not be empty"))
		}
		if c.DBName == "" {
			catcher.Add(errors.New("DB_NAME must not be empty"))
		}
	case DriverMemory:
	default:
		catcher.Add(errors.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}
	for _, origin := range c.CORSOrigins {
		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			catcher.Add(errors.Errorf("CORS origin %q must be an absolute URL", origin))
		}
	}
	if c.RequestTimeout < 0 {
		catcher.Add(errors.New("REQUEST_TIMEOUT must not be negative"))
	}
	if c.AuthEnabled() && (c.AdminUser == "") != (c.AdminPass == "") {
		catcher.Add(errors.New("ADMIN_USERNAME and ADMIN_PASSWORD must be set together"))
	}

	return catcher.Resolve()
}

func splitList(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

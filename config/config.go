package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig
	DB         DBConfig
	Mongo      MongoConfig
	Redis      RedisConfig
	Session    SessionConfig
	Admin      AdminConfig
	SMTP       SMTPConfig
	Cloudinary CloudinaryConfig
	Google     GoogleConfig
	LLM        LLMConfig
	Upload     UploadConfig
	OTP        OTPConfig
	Log        LogConfig
}

type AppConfig struct {
	Port         string
	Env          string
	BaseURL      string
	CookieSecure bool
	// AllowedOrigin is echoed in Access-Control-Allow-Origin
	AllowedOrigin string
}

// DBConfig selects the entity store. Driver is "postgres" or "mongo".
type DBConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type MongoConfig struct {
	URI  string
	Name string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type SessionConfig struct {
	Secret string
	TTL    time.Duration
}

type AdminConfig struct {
	Email        string
	PasswordHash string
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type CloudinaryConfig struct {
	CloudName     string
	APIKey        string
	APISecret     string
	LicenseFolder string
	ProfileFolder string
}

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type LLMConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type UploadConfig struct {
	MaxBytes int64
	TempDir  string
}

type OTPConfig struct {
	TTL time.Duration
}

type LogConfig struct {
	Level string
}

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// .env is optional
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	sessionTTL, err := time.ParseDuration(viper.GetString("SESSION_TTL"))
	if err != nil {
		sessionTTL = 24 * time.Hour
	}

	otpTTL, err := time.ParseDuration(viper.GetString("OTP_TTL"))
	if err != nil {
		otpTTL = 10 * time.Minute
	}

	config := &Config{
		App: AppConfig{
			Port:          viper.GetString("APP_PORT"),
			Env:           viper.GetString("APP_ENV"),
			BaseURL:       viper.GetString("APP_BASE_URL"),
			CookieSecure:  viper.GetBool("COOKIE_SECURE"),
			AllowedOrigin: viper.GetString("CORS_ALLOWED_ORIGIN"),
		},
		DB: DBConfig{
			Driver:   strings.ToLower(viper.GetString("DB_DRIVER")),
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
		},
		Mongo: MongoConfig{
			URI:  viper.GetString("MONGO_URI"),
			Name: viper.GetString("MONGO_DB_NAME"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Session: SessionConfig{
			Secret: viper.GetString("SESSION_SECRET"),
			TTL:    sessionTTL,
		},
		Admin: AdminConfig{
			Email:        strings.ToLower(viper.GetString("ADMIN_EMAIL")),
			PasswordHash: viper.GetString("ADMIN_PASSWORD_HASH"),
		},
		SMTP: SMTPConfig{
			Host:     viper.GetString("SMTP_HOST"),
			Port:     viper.GetInt("SMTP_PORT"),
			User:     viper.GetString("SMTP_USER"),
			Password: viper.GetString("SMTP_PASSWORD"),
			From:     viper.GetString("SMTP_FROM"),
		},
		Cloudinary: CloudinaryConfig{
			CloudName:     viper.GetString("CLOUDINARY_CLOUD_NAME"),
			APIKey:        viper.GetString("CLOUDINARY_API_KEY"),
			APISecret:     viper.GetString("CLOUDINARY_API_SECRET"),
			LicenseFolder: viper.GetString("CLOUDINARY_LICENSE_FOLDER"),
			ProfileFolder: viper.GetString("CLOUDINARY_PROFILE_FOLDER"),
		},
		Google: GoogleConfig{
			ClientID:     viper.GetString("GOOGLE_CLIENT_ID"),
			ClientSecret: viper.GetString("GOOGLE_CLIENT_SECRET"),
			RedirectURL:  viper.GetString("GOOGLE_REDIRECT_URL"),
		},
		LLM: LLMConfig{
			APIKey:  viper.GetString("LLM_API_KEY"),
			BaseURL: viper.GetString("LLM_BASE_URL"),
			Model:   viper.GetString("LLM_MODEL"),
		},
		Upload: UploadConfig{
			MaxBytes: viper.GetInt64("UPLOAD_MAX_BYTES"),
			TempDir:  viper.GetString("UPLOAD_TEMP_DIR"),
		},
		OTP: OTPConfig{
			TTL: otpTTL,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}

	return config, nil
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_BASE_URL", "http://localhost:8080")
	viper.SetDefault("CORS_ALLOWED_ORIGIN", "*")
	viper.SetDefault("DB_DRIVER", DriverPostgres)
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("MONGO_DB_NAME", "mediconnect")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("CLOUDINARY_LICENSE_FOLDER", "doctor-licenses")
	viper.SetDefault("CLOUDINARY_PROFILE_FOLDER", "doctor-profiles")
	viper.SetDefault("LLM_BASE_URL", "https://api.cerebras.ai/v1")
	viper.SetDefault("LLM_MODEL", "llama3.1-8b")
	viper.SetDefault("UPLOAD_MAX_BYTES", 5*1024*1024)
	viper.SetDefault("LOG_LEVEL", "info")
}

// Validate fails when a secret or a required collaborator setting is missing
func (c *Config) Validate() error {
	var missing []string
	require := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}

	require("SESSION_SECRET", c.Session.Secret)
	require("ADMIN_EMAIL", c.Admin.Email)
	require("ADMIN_PASSWORD_HASH", c.Admin.PasswordHash)
	require("SMTP_HOST", c.SMTP.Host)
	require("SMTP_FROM", c.SMTP.From)
	require("CLOUDINARY_CLOUD_NAME", c.Cloudinary.CloudName)
	require("CLOUDINARY_API_KEY", c.Cloudinary.APIKey)
	require("CLOUDINARY_API_SECRET", c.Cloudinary.APISecret)
	require("GOOGLE_CLIENT_ID", c.Google.ClientID)
	require("GOOGLE_CLIENT_SECRET", c.Google.ClientSecret)
	require("GOOGLE_REDIRECT_URL", c.Google.RedirectURL)
	require("LLM_API_KEY", c.LLM.APIKey)

	switch c.DB.Driver {
	case DriverPostgres:
		require("DB_HOST", c.DB.Host)
		require("DB_NAME", c.DB.Name)
	case DriverMongo:
		require("MONGO_URI", c.Mongo.URI)
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if len(c.Session.Secret) < 32 {
		return errors.New("SESSION_SECRET must be at least 32 characters")
	}
	return nil
}

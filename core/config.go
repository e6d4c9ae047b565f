package core

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	DatabaseConfig struct {
		Engine        string
		Host          string
		Port          string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	StorageConfig struct {
		Driver string // memory | file | badger | postgres
		Dir    string
		Key    string
	}

	InsightConfig struct {
		APIKey  string
		Model   string
		Timeout time.Duration
	}

	SeedConfig struct {
		StudentsPerClass int
		ScoreMin         int
		ScoreMax         int
		AttendanceMin    int
		AttendanceMax    int
	}

	ServerConfig struct {
		Address         string
		Host            string
		DebugHost       string
		ShutdownTimeout time.Duration
	}

	Config struct {
		Env              string
		Build            string
		Debug            bool
		TestMode         bool
		AppName          string
		WorkDir          string
		CatalogFile      string
		DefaultFromEmail string
		RollbarToken     string
		SendgridKey      string
		Database         DatabaseConfig
		Storage          StorageConfig
		Insight          InsightConfig
		Seed             SeedConfig
		Server           ServerConfig
	}
)

func (dbc DatabaseConfig) Address() string {
	return dbc.Host + ":" + dbc.Port
}

// NewConfig reads the configuration from the environment.
// ENV selects the profile: DEV (local; default), TEST, QA, PROD.
func NewConfig() (*Config, error) {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Shule")
	v.SetDefault("build", "dev")
	v.SetDefault("catalogFile", "")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("sendgridKey", "")
	v.SetDefault("database_engine", "postgres")
	v.SetDefault("database_host", "localhost")
	v.SetDefault("database_port", "5432")
	v.SetDefault("database_name", "shule")
	v.SetDefault("database_user", "")
	v.SetDefault("database_password", "")
	v.SetDefault("database_admin_user", "")
	v.SetDefault("database_admin_password", "")
	v.SetDefault("database_disable_tls", true)
	v.SetDefault("storage_driver", "file")
	v.SetDefault("storage_dir", "")
	v.SetDefault("storage_key", "edu_ke_data_v2")
	v.SetDefault("insight_api_key", "")
	v.SetDefault("insight_model", "gemini-2.5-flash")
	v.SetDefault("insight_timeout", 30*time.Second)
	v.SetDefault("seed_students_per_class", 15)
	v.SetDefault("seed_score_min", 30)
	v.SetDefault("seed_score_max", 99)
	v.SetDefault("seed_attendance_min", 80)
	v.SetDefault("seed_attendance_max", 99)
	v.SetDefault("server_address", ":8000")
	v.SetDefault("server_host", "localhost")
	v.SetDefault("server_debug_host", "localhost:4000")
	v.SetDefault("server_shutdown_timeout", 5*time.Second)

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}
	if env == "TEST" {
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	wd, err := Getwd()
	if err != nil {
		return nil, err
	}

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "stat %s", dotEnvPath)
	}
	v.AutomaticEnv()

	conf := &Config{
		Env:              env,
		Build:            v.GetString("build"),
		Debug:            v.GetBool("debug"),
		TestMode:         v.GetBool("testMode"),
		AppName:          v.GetString("appName"),
		WorkDir:          wd,
		CatalogFile:      v.GetString("catalogFile"),
		DefaultFromEmail: v.GetString("defaultFromEmail"),
		RollbarToken:     v.GetString("rollbarToken"),
		SendgridKey:      v.GetString("sendgridKey"),
		Database: DatabaseConfig{
			Engine:        v.GetString("database_engine"),
			Host:          v.GetString("database_host"),
			Port:          v.GetString("database_port"),
			Name:          v.GetString("database_name"),
			User:          v.GetString("database_user"),
			Password:      v.GetString("database_password"),
			AdminUser:     v.GetString("database_admin_user"),
			AdminPassword: v.GetString("database_admin_password"),
			DisableTLS:    v.GetBool("database_disable_tls"),
		},
		Storage: StorageConfig{
			Driver: CleanString(v.GetString("storage_driver"), true /* lower */),
			Dir:    v.GetString("storage_dir"),
			Key:    v.GetString("storage_key"),
		},
		Insight: InsightConfig{
			APIKey:  v.GetString("insight_api_key"),
			Model:   v.GetString("insight_model"),
			Timeout: v.GetDuration("insight_timeout"),
		},
		Seed: SeedConfig{
			StudentsPerClass: v.GetInt("seed_students_per_class"),
			ScoreMin:         v.GetInt("seed_score_min"),
			ScoreMax:         v.GetInt("seed_score_max"),
			AttendanceMin:    v.GetInt("seed_attendance_min"),
			AttendanceMax:    v.GetInt("seed_attendance_max"),
		},
		Server: ServerConfig{
			Address:         v.GetString("server_address"),
			Host:            v.GetString("server_host"),
			DebugHost:       v.GetString("server_debug_host"),
			ShutdownTimeout: v.GetDuration("server_shutdown_timeout"),
		},
	}
	if conf.Storage.Dir == "" {
		conf.Storage.Dir = filepath.Join(wd, "data")
	}
	return conf, nil
}

// Package bootstrap prepares the backing MySQL database: it creates the
// test table and seeds it when empty.
package bootstrap

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Config struct {
	User     string
	Password string
	Host     string
	Port     int
	Name     string
	LogLevel string
	Timeout  time.Duration
}

func (c Config) String() string {
	return fmt.Sprintf("[DB: %s@%s/%s | LogLevel: %s]", c.User, c.addr(), c.Name, c.LogLevel)
}

// InitConfig reads DB_* variables from the environment, loading envFile
// first when it exists.
func InitConfig(envFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if envFile == "" {
		envFile = ".env"
	}
	_ = godotenv.Load(envFile) // ignore error if file missing
	v.AutomaticEnv()

	v.SetDefault("db.host", "127.0.0.1")
	v.SetDefault("db.port", 3306)
	v.SetDefault("log.level", "info")
	v.SetDefault("db.timeout", 10)

	v.BindEnv("db.user", "DB_USER")
	v.BindEnv("db.password", "DB_PASSWORD")
	v.BindEnv("db.host", "DB_HOST")
	v.BindEnv("db.port", "DB_PORT")
	v.BindEnv("db.name", "DB_NAME")
	v.BindEnv("log.level", "LOG_LEVEL")
	v.BindEnv("db.timeout", "DB_TIMEOUT")

	cfg := &Config{
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		Name:     v.GetString("db.name"),
		LogLevel: v.GetString("log.level"),
		Timeout:  time.Duration(v.GetInt("db.timeout")) * time.Second,
	}
	if err := cfg.validate(); err != nil {
		return nil, errors.Wrap(err, "invalid bootstrap config")
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.User == "" {
		return errors.New("DB_USER is required")
	}
	if c.Name == "" {
		return errors.New("DB_NAME is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return errors.Errorf("DB_PORT %d out of range", c.Port)
	}
	return nil
}

func (c Config) addr() string {
	return net.JoinHostPort(c.Host, fmt.Sprint(c.Port))
}

// DSN is the go-sql-driver connection string.
func (c Config) DSN() string {
	mc := mysql.NewConfig()
	mc.User = c.User
	mc.Passwd = c.Password
	mc.Net = "tcp"
	mc.Addr = c.addr()
	mc.DBName = c.Name
	mc.Timeout = c.Timeout
	return mc.FormatDSN()
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"attendance-server-go/db"
)

// EnvPrefix prefixes every environment override, e.g. ATTENDANCE_ADDR.
const EnvPrefix = "ATTENDANCE"

// Config is the resolved server configuration
type Config struct {
	Debug    bool
	Addr     string
	SeedFile string
	Storage  db.Options
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", false)
	v.SetDefault("addr", ":8080")
	v.SetDefault("seedFile", "")
	v.SetDefault("storage.driver", "file")
	v.SetDefault("storage.dir", "data")
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 8)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads config/.env.<env> under dir when it exists, then resolves
// defaults overridden by ATTENDANCE_* environment variables. env comes from
// the ENV variable (dev when unset).
func Load(dir string) (Config, error) {
	env := strings.ToLower(os.Getenv("ENV"))
	if env == "" {
		env = "dev"
	}

	dotEnvPath := filepath.Join(dir, "config", ".env."+env)
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return Config{}, fmt.Errorf("config.godotenv(%s): %w", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("config.os.Stat(%s): %w", dotEnvPath, err)
	}

	v := newViper()
	return Config{
		Debug:    v.GetBool("debug"),
		Addr:     v.GetString("addr"),
		SeedFile: v.GetString("seedFile"),
		Storage: db.Options{
			Driver:        v.GetString("storage.driver"),
			Dir:           v.GetString("storage.dir"),
			RedisAddr:     v.GetString("redis.addr"),
			RedisPassword: v.GetString("redis.password"),
			RedisDB:       v.GetInt("redis.db"),
		},
	}, nil
}

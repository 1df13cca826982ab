package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Persistence PersistenceConfig `mapstructure:"persistence"`
}

type ServerConfig struct {
	HTTPAddress    string `mapstructure:"http_address"`
	RPCAddress     string `mapstructure:"rpc_address"`
	MetricsAddress string `mapstructure:"metrics_address"`
}

type PersistenceConfig struct {
	// Driver selects the snapshot backend: "file" or "postgres".
	Driver   string         `mapstructure:"driver"`
	File     FileConfig     `mapstructure:"file"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type FileConfig struct {
	Path string `mapstructure:"path"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

func LoadConfig(path string) (config *Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("server.http_address", ":3001")
	viper.SetDefault("server.rpc_address", ":3002")
	viper.SetDefault("server.metrics_address", ":9100")
	viper.SetDefault("persistence.driver", "file")
	viper.SetDefault("persistence.file.path", "players.json")
	viper.SetDefault("persistence.postgres.host", "localhost")
	viper.SetDefault("persistence.postgres.port", 5432)

	viper.AutomaticEnv()

	// The server must be runnable with defaults only; a missing config
	// file is not an error.
	if err = viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	err = viper.Unmarshal(&config)
	return
}

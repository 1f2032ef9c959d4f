// Package config 加载发布配置，优先级：命令行 > 环境变量 > 配置文件 > 默认值
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"usage-graph/internal/adapter"
)

// Config 发布配置
type Config struct {
	DBType       string `yaml:"db_type" env:"USAGE_GRAPH_DB_TYPE"`
	Conn         string `yaml:"conn" env:"USAGE_GRAPH_CONN"`
	Schema       string `yaml:"schema" env:"USAGE_GRAPH_SCHEMA"`
	Database     string `yaml:"database" env:"USAGE_GRAPH_DATABASE"`
	Cluster      string `yaml:"cluster" env:"USAGE_GRAPH_CLUSTER"`
	UsageTable   string `yaml:"usage_table" env:"USAGE_GRAPH_USAGE_TABLE"`
	OutputDir    string `yaml:"output" env:"USAGE_GRAPH_OUTPUT"`
	IncludeUsers bool   `yaml:"include_users" env:"USAGE_GRAPH_INCLUDE_USERS"`
	Verbose      bool   `yaml:"verbose" env:"USAGE_GRAPH_VERBOSE"`
}

// Default 默认配置
func Default() Config {
	return Config{
		DBType:     adapter.TypeMySQL,
		Cluster:    "default",
		UsageTable: adapter.DefaultUsageTable,
		OutputDir:  "./output",
	}
}

// Load 依次读取默认值、配置文件（path 为空则跳过）和环境变量
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv 从环境变量加载配置
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// DatabaseName 图中使用的数据库名，未配置时取数据源类型
func (c Config) DatabaseName() string {
	if c.Database != "" {
		return c.Database
	}
	return c.DBType
}

// Validate 检查必填项
func (c Config) Validate() error {
	var errs []error
	switch c.DBType {
	case adapter.TypeMySQL:
		if c.Schema == "" {
			errs = append(errs, errors.New("mysql 需要指定 schema"))
		}
	case adapter.TypeSQLServer, adapter.TypeCSV:
	default:
		errs = append(errs, fmt.Errorf("%w: %q", adapter.ErrUnsupportedDB, c.DBType))
	}
	if c.Conn == "" {
		errs = append(errs, errors.New("缺少连接字符串或输入文件"))
	}
	if c.Cluster == "" {
		errs = append(errs, errors.New("缺少 cluster"))
	}
	if c.OutputDir == "" {
		errs = append(errs, errors.New("缺少输出目录"))
	}
	return errors.Join(errs...)
}

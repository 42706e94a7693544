package config

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"slug/internal/logger"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// 環境変数名
const (
	EnvLevel    = "SLUG_LOG_LEVEL"
	EnvFile     = "SLUG_LOG_FILE"
	EnvEncoding = "SLUG_LOG_ENCODING"
)

// FileConfig は設定ファイルの構造
type FileConfig struct {
	Logger LoggerConfig `yaml:"logger" json:"logger"`
}

// LoggerConfig はロガー設定
type LoggerConfig struct {
	Level    string `yaml:"level" json:"level"`
	File     string `yaml:"file" json:"file"`
	Encoding string `yaml:"encoding" json:"encoding"`
}

// LoadFile は設定ファイルを読み込む
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var config FileConfig
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, errors.Wrap(err, "failed to parse YAML")
		}
	case ".json":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, errors.Wrap(err, "failed to parse JSON")
		}
	default:
		return nil, errors.Errorf("unsupported config format: %s", ext)
	}

	return &config, nil
}

// LoadEnv は .env ファイルと環境変数から設定を読み込む
//
// 存在しない .env ファイルは無視する。既に設定済みの環境変数は上書きしない。
func LoadEnv(files ...string) (*FileConfig, error) {
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, errors.Wrapf(err, "failed to load env file (%s)", f)
		}
	}

	return &FileConfig{
		Logger: LoggerConfig{
			Level:    os.Getenv(EnvLevel),
			File:     os.Getenv(EnvFile),
			Encoding: os.Getenv(EnvEncoding),
		},
	}, nil
}

// Merge は other の空でない項目で上書きした設定を返す
func (f *FileConfig) Merge(other *FileConfig) *FileConfig {
	merged := *f
	if other == nil {
		return &merged
	}

	if other.Logger.Level != "" {
		merged.Logger.Level = other.Logger.Level
	}
	if other.Logger.File != "" {
		merged.Logger.File = other.Logger.File
	}
	if other.Logger.Encoding != "" {
		merged.Logger.Encoding = other.Logger.Encoding
	}
	return &merged
}

// Validate は設定を検証する
func (f *FileConfig) Validate() error {
	lc := f.Logger

	if lc.Level != "" {
		if _, err := logger.ParseLevel(lc.Level); err != nil {
			return errors.Wrap(err, "logger.level")
		}
	}

	if _, err := logger.ParseEncoding(lc.Encoding); err != nil {
		return errors.Wrap(err, "logger.encoding")
	}

	if lc.File != "" {
		dir := filepath.Dir(lc.File)
		info, err := os.Stat(dir)
		if err != nil {
			return errors.Wrapf(err, "logger.file directory (%s)", dir)
		}
		if !info.IsDir() {
			return errors.Errorf("logger.file parent is not a directory: %s", dir)
		}
	}

	return nil
}

// Build は設定からロガーを作成する。console はファイル未指定時の出力先
func (f *FileConfig) Build(console io.Writer) (*logger.Logger, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	lc := f.Logger

	level := logger.DefaultLevel
	if lc.Level != "" {
		level, _ = logger.ParseLevel(lc.Level)
	}
	enc, _ := logger.ParseEncoding(lc.Encoding)

	opts := []logger.Option{
		logger.WithConsole(console),
		logger.WithEncoding(enc),
	}

	if lc.File == "" {
		return logger.New(level, opts...), nil
	}

	l, err := logger.NewFile(lc.File, level, opts...)
	if err != nil {
		return nil, err
	}
	return l, nil
}

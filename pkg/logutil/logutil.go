package logutil

import (
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
)

// Config is the logging section of the server configuration.
type Config struct {
	Level string `toml:"level" json:"level"`
	File  string `toml:"file" json:"file"`
}

// InitLogger installs the global logger. An empty file routes to stderr.
func InitLogger(cfg Config) error {
	logger, props, err := log.InitLogger(&log.Config{
		Level: cfg.Level,
		File: log.FileLogConfig{
			Filename: cfg.File,
		},
	})
	if err != nil {
		return errors.Trace(err)
	}
	log.ReplaceGlobals(logger, props)
	return nil
}

package main

import (
	"github.com/BurntSushi/toml"
	"github.com/pingcap/errors"

	"github.com/overmesh/gridexec/pkg/logutil"
)

// NodeConfig declares one in-process cluster member.
type NodeConfig struct {
	Name       string            `toml:"name" json:"name"`
	Attributes map[string]string `toml:"attributes" json:"attributes"`
}

// Config is the server configuration.
type Config struct {
	HTTPAddr string         `toml:"http-addr" json:"http-addr"`
	GRPCAddr string         `toml:"grpc-addr" json:"grpc-addr"`
	Workers  int            `toml:"workers" json:"workers"`
	Log      logutil.Config `toml:"log" json:"log"`
	Nodes    []NodeConfig   `toml:"nodes" json:"nodes"`
}

// Adjust fills defaults for unset fields.
func (c *Config) Adjust() {
	if c.HTTPAddr == "" {
		c.HTTPAddr = "127.0.0.1:10080"
	}
	if c.GRPCAddr == "" {
		c.GRPCAddr = "127.0.0.1:10081"
	}
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if len(c.Nodes) == 0 {
		c.Nodes = []NodeConfig{{Name: "node-0"}}
	}
}

// LoadConfig reads a TOML config file. An empty path yields defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, errors.Trace(err)
		}
	}
	cfg.Adjust()
	return cfg, nil
}

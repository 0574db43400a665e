package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/dmitrijs2005/propkeeper/internal/flagx"
	"github.com/dmitrijs2005/propkeeper/internal/timex"
)

// FileConfig is the on-disk shape of the configuration. Durations accept
// "10s" style strings (and integer nanoseconds in JSON). Zero values leave
// the corresponding Config field untouched.
type FileConfig struct {
	EndpointAddrHTTP  string         `json:"endpoint_addr_http" toml:"endpoint_addr_http"`
	Storage           string         `json:"storage" toml:"storage"`
	MongoURI          string         `json:"mongo_uri" toml:"mongo_uri"`
	MongoDatabase     string         `json:"mongo_database" toml:"mongo_database"`
	MongoCollection   string         `json:"mongo_collection" toml:"mongo_collection"`
	DatabaseDSN       string         `json:"database_dsn" toml:"database_dsn"`
	LogFormat         string         `json:"log_format" toml:"log_format"`
	LogLevel          string         `json:"log_level" toml:"log_level"`
	ShutdownTimeout   timex.Duration `json:"shutdown_timeout" toml:"shutdown_timeout"`
	ReadHeaderTimeout timex.Duration `json:"read_header_timeout" toml:"read_header_timeout"`
	ConnLimit         int            `json:"conn_limit" toml:"conn_limit"`
}

// parseFile loads the file named by -c / -config, if any, and overlays it on
// config. The format is picked by extension: ".toml" is decoded with
// BurntSushi/toml, anything else as JSON.
func parseFile(config *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	fc := &FileConfig{}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, fc)
	} else {
		err = json.Unmarshal(data, fc)
	}
	if err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	fc.apply(config)
	return nil
}

func (fc *FileConfig) apply(config *Config) {
	setString(&config.EndpointAddrHTTP, fc.EndpointAddrHTTP)
	setString(&config.Storage, fc.Storage)
	setString(&config.MongoURI, fc.MongoURI)
	setString(&config.MongoDatabase, fc.MongoDatabase)
	setString(&config.MongoCollection, fc.MongoCollection)
	setString(&config.DatabaseDSN, fc.DatabaseDSN)
	setString(&config.LogFormat, fc.LogFormat)
	setString(&config.LogLevel, fc.LogLevel)

	if fc.ShutdownTimeout.Duration > 0 {
		config.ShutdownTimeout = fc.ShutdownTimeout.Duration
	}
	if fc.ReadHeaderTimeout.Duration > 0 {
		config.ReadHeaderTimeout = fc.ReadHeaderTimeout.Duration
	}
	if fc.ConnLimit > 0 {
		config.ConnLimit = fc.ConnLimit
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

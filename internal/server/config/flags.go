package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/propkeeper/internal/flagx"
)

// parseFlags overlays Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     HTTP bind address (e.g. "127.0.0.1:8000")
//	-s string     storage backend: mongo, postgres, memory
//	-m string     MongoDB URI
//	-n string     MongoDB database name
//	-l string     MongoDB collection name
//	-d string     PostgreSQL DSN
//	-f string     log format: json, text, console
//	-v string     log level: debug, info, warn, error
//	-t duration   shutdown timeout (e.g. "15s")
//	-r duration   read header timeout
//	-k int        connection limit
//
// Arguments not in this list (such as -c) are filtered out with
// flagx.FilterArgs before parsing.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, "a", "s", "m", "n", "l", "d", "f", "v", "t", "r", "k")

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.Storage, "s", config.Storage, "storage backend")
	fs.StringVar(&config.MongoURI, "m", config.MongoURI, "MongoDB URI")
	fs.StringVar(&config.MongoDatabase, "n", config.MongoDatabase, "MongoDB database")
	fs.StringVar(&config.MongoCollection, "l", config.MongoCollection, "MongoDB collection")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "PostgreSQL DSN")
	fs.StringVar(&config.LogFormat, "f", config.LogFormat, "log format")
	fs.StringVar(&config.LogLevel, "v", config.LogLevel, "log level")
	fs.DurationVar(&config.ShutdownTimeout, "t", config.ShutdownTimeout, "shutdown timeout")
	fs.DurationVar(&config.ReadHeaderTimeout, "r", config.ReadHeaderTimeout, "read header timeout")
	fs.IntVar(&config.ConnLimit, "k", config.ConnLimit, "connection limit")

	return fs.Parse(args)
}

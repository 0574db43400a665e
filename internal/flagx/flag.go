// Package flagx lets several independent flag sets share one command line:
// each consumer filters out the flags it owns before parsing.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// FilterArgs keeps only the arguments belonging to the named flags.
//
// Names are given without leading dashes ("c", "config"); both -name and
// --name spellings match. Values are kept whether they are written as
// "-c conf.json" or "-c=conf.json". A separate value is only consumed when it
// does not itself start with a dash.
func FilterArgs(args []string, names ...string) []string {
	allowed := make(map[string]struct{}, len(names))
	for _, n := range names {
		allowed[strings.TrimLeft(n, "-")] = struct{}{}
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		name, _, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if _, ok := allowed[name]; !ok {
			continue
		}

		filtered = append(filtered, arg)
		if !hasValue && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// ConfigFile returns the value of -c / -config found in args, or "" when
// neither is present.
func ConfigFile(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(FilterArgs(args, "c", "config"))

	return path
}

// Package config reads server settings from flags, with defaults taken from
// MUSEMATE_* environment variables.
package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Config holds the server settings.
type Config struct {
	DBPath        string
	Addr          string
	LogPath       string
	Secret        string
	Issuer        string
	FlushInterval time.Duration
	Origins       []string
}

const usage = `Usage: musemate [flags]
       musemate token -sub <user id> [flags]

Flags:
  -d, -db <path>          SQLite database path (default: musemate.sqlite3)
  -a, -addr <host:port>   listen address (default: :8080)
  -l, -log <path>         log file path (default: no file, stdout/stderr only)
  -secret <key>           identity token signing key (default: generated and stored in the database)
  -issuer <iss>           required token issuer (default: any)
  -flush <duration>       coalesce state writes for this long, 0 writes every change (default: 500ms)
  -origins <list>         comma-separated CORS origins (default: none)
  -h, -help               show this help and exit

Every flag default can be set with MUSEMATE_<FLAG> (e.g. MUSEMATE_DB).
`

// Load parses args. It returns flag.ErrHelp after printing usage to out when
// help was requested.
func Load(name string, args []string, out io.Writer) (*Config, []string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() { fmt.Fprint(out, usage) }

	cfg := &Config{}

	dbDefault := getEnv("MUSEMATE_DB", "musemate.sqlite3")
	fs.StringVar(&cfg.DBPath, "db", dbDefault, "")
	fs.StringVar(&cfg.DBPath, "d", dbDefault, "")

	addrDefault := getEnv("MUSEMATE_ADDR", ":8080")
	fs.StringVar(&cfg.Addr, "addr", addrDefault, "")
	fs.StringVar(&cfg.Addr, "a", addrDefault, "")

	logDefault := getEnv("MUSEMATE_LOG", "")
	fs.StringVar(&cfg.LogPath, "log", logDefault, "")
	fs.StringVar(&cfg.LogPath, "l", logDefault, "")

	fs.StringVar(&cfg.Secret, "secret", getEnv("MUSEMATE_SECRET", ""), "")
	fs.StringVar(&cfg.Issuer, "issuer", getEnv("MUSEMATE_ISSUER", ""), "")

	flush, err := time.ParseDuration(getEnv("MUSEMATE_FLUSH", "500ms"))
	if err != nil {
		return nil, nil, fmt.Errorf("parsing MUSEMATE_FLUSH: %w", err)
	}
	fs.DurationVar(&cfg.FlushInterval, "flush", flush, "")

	var origins string
	fs.StringVar(&origins, "origins", getEnv("MUSEMATE_ORIGINS", ""), "")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	if cfg.FlushInterval < 0 {
		return nil, nil, fmt.Errorf("flush interval must not be negative: %s", cfg.FlushInterval)
	}
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.Origins = append(cfg.Origins, o)
		}
	}

	return cfg, fs.Args(), nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

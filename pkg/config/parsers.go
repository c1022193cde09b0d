package config

import (
	"flag"
	"os"
	"strconv"
)

// Flags holds parsed command-line flag values and which were set.
type Flags struct {
	Addr   string
	DB     string
	Config string
	Set    map[string]bool
}

// ParseCommandFlags parses the process command-line flags.
func ParseCommandFlags() Flags {
	addrPtr := flag.String("addr", ":8080", "HTTP listen address")
	dbPtr := flag.String("db", "./board_db", "Pebble DB path")
	cfgPtr := flag.String("config", "./config.yaml", "Path to config file")
	flag.Parse()
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return Flags{Addr: *addrPtr, DB: *dbPtr, Config: *cfgPtr, Set: set}
}

// ResolveConfigPath picks the config file path: an explicitly set flag wins
// over the IMAGEBOARD_CONFIG env var, which wins over the flag default.
func ResolveConfigPath(flagVal string, flagSet bool) string {
	if flagSet {
		return flagVal
	}
	if p := os.Getenv("IMAGEBOARD_CONFIG"); p != "" {
		return p
	}
	return flagVal
}

// ApplyEnv overlays IMAGEBOARD_* environment variables onto cfg. Env values
// win over file values; callers apply explicit flags afterwards so flags win
// over both.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv("IMAGEBOARD_ADDRESS"); v != "" {
		cfg.Server.Address = v
	}
	if v := os.Getenv("IMAGEBOARD_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
	if v := os.Getenv("IMAGEBOARD_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("IMAGEBOARD_IMAGE_DIR"); v != "" {
		cfg.Media.ImageDir = v
	}
	if v := os.Getenv("IMAGEBOARD_VIDEO_DIR"); v != "" {
		cfg.Media.VideoDir = v
	}
	if v := os.Getenv("IMAGEBOARD_THUMB_DIR"); v != "" {
		cfg.Media.ThumbDir = v
	}
	if v := os.Getenv("IMAGEBOARD_MAX_UPLOAD_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Media.MaxUploadBytes = n
		}
	}
	if v := os.Getenv("IMAGEBOARD_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Board.PageSize = n
		}
	}
	if v := os.Getenv("IMAGEBOARD_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the voting server configuration
type Config struct {
	Port           int
	PublicKeyFile  string
	PrivateKeyFile string
	KeyPassphrase  string
	DecryptTimeout time.Duration
	MaxInFlight    int64
	MaxBallotBytes int64
	ExposeTally    bool
	IPHashSalt     string
}

// PortalConfig is the login portal configuration
type PortalConfig struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
}

// LoadEnvFile loads KEY=value pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// ParseFlags parses voting server flags, falling back to env variables
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("votingserver", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.PublicKeyFile, "pub", "", "Authority public key file (armored)")
	fs.StringVar(&cfg.PrivateKeyFile, "priv", "", "Authority private key file (armored)")
	fs.DurationVar(&cfg.DecryptTimeout, "decrypt-timeout", 0, "Per-ballot decryption timeout")
	fs.Int64Var(&cfg.MaxInFlight, "max-inflight", 0, "Maximum concurrent decryptions")
	fs.Int64Var(&cfg.MaxBallotBytes, "max-ballot-bytes", 0, "Maximum /vote request body size")
	fs.BoolVar(&cfg.ExposeTally, "expose-tally", true, "Serve GET /votes")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.KeyPassphrase, "passphrase", "", "Private key passphrase (prefer env)")
	fs.StringVar(&cfg.IPHashSalt, "ip-salt", "", "IP hash salt (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	// Fall back to environment variables
	var err error
	if cfg.Port, err = intFromEnv(cfg.Port, "PORT", 7879); err != nil {
		return Config{}, err
	}
	if cfg.PublicKeyFile == "" {
		cfg.PublicKeyFile = os.Getenv("PUBLIC_KEY_FILE")
	}
	if cfg.PublicKeyFile == "" {
		cfg.PublicKeyFile = "public_key.asc" // default
	}
	if cfg.PrivateKeyFile == "" {
		cfg.PrivateKeyFile = os.Getenv("PRIVATE_KEY_FILE")
	}
	if cfg.PrivateKeyFile == "" {
		return Config{}, errors.New("private key file required (use -priv or PRIVATE_KEY_FILE env)")
	}
	if cfg.DecryptTimeout == 0 {
		if s := os.Getenv("DECRYPT_TIMEOUT"); s != "" {
			d, err := time.ParseDuration(s)
			if err != nil {
				return Config{}, errors.New("invalid DECRYPT_TIMEOUT env variable")
			}
			cfg.DecryptTimeout = d
		} else {
			cfg.DecryptTimeout = 5 * time.Second
		}
	}
	if cfg.MaxInFlight, err = int64FromEnv(cfg.MaxInFlight, "MAX_INFLIGHT_DECRYPTIONS", 64); err != nil {
		return Config{}, err
	}
	if cfg.MaxBallotBytes, err = int64FromEnv(cfg.MaxBallotBytes, "MAX_BALLOT_BYTES", 64<<10); err != nil {
		return Config{}, err
	}
	if !set["expose-tally"] {
		if s := os.Getenv("EXPOSE_TALLY"); s != "" {
			b, err := strconv.ParseBool(s)
			if err != nil {
				return Config{}, errors.New("invalid EXPOSE_TALLY env variable")
			}
			cfg.ExposeTally = b
		}
	}

	if cfg.KeyPassphrase == "" {
		cfg.KeyPassphrase = os.Getenv("PRIVATE_KEY_PASSPHRASE")
	}

	// Secrets - MUST be provided
	if cfg.IPHashSalt == "" {
		cfg.IPHashSalt = os.Getenv("IP_HASH_SALT")
	}
	if cfg.IPHashSalt == "" {
		return Config{}, errors.New("IP_HASH_SALT required")
	}

	return cfg, nil
}

// ParsePortalFlags parses login portal flags, falling back to env variables
func ParsePortalFlags(args []string) (PortalConfig, error) {
	var cfg PortalConfig

	fs := flag.NewFlagSet("loginportal", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	if err := fs.Parse(args); err != nil {
		return PortalConfig{}, err
	}

	var err error
	if cfg.Port, err = intFromEnv(cfg.Port, "PORT", 7878); err != nil {
		return PortalConfig{}, err
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return PortalConfig{}, fmt.Errorf("unsupported database type %q (sqlite or postgres)", cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType == "postgres" {
			return PortalConfig{}, errors.New("database URL required (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = "file:voters.db" // default
	}

	return cfg, nil
}

func intFromEnv(v int, key string, def int) (int, error) {
	if v != 0 {
		return v, nil
	}
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return n, nil
}

func int64FromEnv(v int64, key string, def int64) (int64, error) {
	if v != 0 {
		return v, nil
	}
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return n, nil
}

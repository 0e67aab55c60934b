package main

import (
	"errors"
	"os"
	"strconv"
	"time"
)

const (
	DEFAULT_LISTEN_ADDR      = ":80"
	DEFAULT_JWT_LIFETIME     = time.Hour
	DEFAULT_RESOLVER_URL     = "http://127.0.0.1:8000"
	DEFAULT_RESOLVER_TIMEOUT = 60 * time.Second

	// DEFAULT_STUB_MAX_DELAY is the upper bound of the random delay the
	// /result stub sleeps before answering.
	DEFAULT_STUB_MAX_DELAY = 60 * time.Second
)

// Config holds everything read from the environment at process start.
// It is built once in main and passed by reference; nothing else reads
// the environment.
type Config struct {
	DBString   string
	ListenAddr string

	JWTSecret   string
	JWTLifetime time.Duration

	ResolverURL     string
	ResolverTimeout time.Duration
	StubMaxDelay    time.Duration

	// UniqueCoordinates enables the legacy UNIQUE (latitude, longitude)
	// constraint on queryhistory.
	UniqueCoordinates bool
}

// NewConfig reads the environment into a Config.
func NewConfig() (*Config, error) {
	c := &Config{
		DBString:          os.Getenv("DB_STRING"),
		ListenAddr:        DEFAULT_LISTEN_ADDR,
		JWTSecret:         os.Getenv("JWT_SECRET"),
		JWTLifetime:       DEFAULT_JWT_LIFETIME,
		ResolverURL:       DEFAULT_RESOLVER_URL,
		ResolverTimeout:   DEFAULT_RESOLVER_TIMEOUT,
		StubMaxDelay:      DEFAULT_STUB_MAX_DELAY,
		UniqueCoordinates: false,
	}

	if c.DBString == "" {
		return nil, errors.New("no DB_STRING provided")
	}
	if c.JWTSecret == "" {
		return nil, errors.New("no JWT_SECRET provided")
	}

	if addr := os.Getenv("LISTEN_ADDR"); addr != "" {
		c.ListenAddr = addr
	}
	if url := os.Getenv("RESOLVER_URL"); url != "" {
		c.ResolverURL = url
	}

	var err error
	if c.JWTLifetime, err = envSeconds("JWT_LIFETIME", c.JWTLifetime); err != nil {
		return nil, err
	}
	if c.ResolverTimeout, err = envSeconds("RESOLVER_TIMEOUT", c.ResolverTimeout); err != nil {
		return nil, err
	}
	if c.StubMaxDelay, err = envSeconds("RESOLVER_STUB_MAX_DELAY", c.StubMaxDelay); err != nil {
		return nil, err
	}

	if v := os.Getenv("UNIQUE_COORDINATES"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errors.New("UNIQUE_COORDINATES must be a boolean")
		}
		c.UniqueCoordinates = b
	}

	return c, nil
}

// envSeconds reads an environment variable holding a whole number of
// seconds, falling back to def when unset.
func envSeconds(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errors.New(key + " must be a non-negative number of seconds")
	}
	return time.Duration(n) * time.Second, nil
}

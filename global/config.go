package global

import (
	"crypto/ed25519"

	"github.com/go-redis/redis_rate/v10"
	cfg "github.com/mailio/go-web3-kit/config"
)

// Conf global config
var Conf Config

// Public and Private key of a server (loaded from auth.serverKeysPath in conf.yaml)
var PublicKey ed25519.PublicKey
var PrivateKey ed25519.PrivateKey

// Global rate limiter (nil when redis is not configured)
var RateLimiter *redis_rate.Limiter

type Config struct {
	cfg.YamlConfig `yaml:",inline"`
	CouchDB        CouchDBConfig     `yaml:"couchdb"`
	Auth           AuthConfig        `yaml:"auth"`
	FastEncrypt    FastEncryptConfig `yaml:"fastEncrypt"`
	Prometheus     PrometheusConfig  `yaml:"prometheus"`
	Redis          RedisConfig       `yaml:"redis"`
	Cors           CorsConfig        `yaml:"cors"`
}

// CouchDBConfig with an empty host selects the in-memory store (development only)
type CouchDBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Scheme   string `yaml:"scheme"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type AuthConfig struct {
	ServerKeysPath string `yaml:"serverKeysPath"`
	TokenIssuer    string `yaml:"tokenIssuer"`
	TokenAudience  string `yaml:"tokenAudience"`
}

type FastEncryptConfig struct {
	// secret the system private key is sealed with at rest
	KeyEncryptionSecret string `yaml:"keyEncryptionSecret"`
	// decrypt attempts per second per client fingerprint (0 = default)
	RateLimitPerSecond int `yaml:"rateLimitPerSecond"`
	// active key cache TTL in seconds (0 = default)
	CacheTTLSeconds int `yaml:"cacheTTLSeconds"`
	// cron spec for automatic system key rotation, e.g. "@every 720h" (empty = manual only)
	RotationSchedule string `yaml:"rotationSchedule"`
}

type PrometheusConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// CorsConfig is applied on top of the base router when origins are listed
type CorsConfig struct {
	AllowOrigins []string `yaml:"allowOrigins"`
}

type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	Username string `yaml:"username"`
}

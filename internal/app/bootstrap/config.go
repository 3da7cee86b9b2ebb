package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the resolved runtime configuration for the signup service.
// It merges file defaults and environment overrides to support both local and deployed runs.
type Config struct {
	ServiceID string

	HTTPPort int
	GRPCPort int

	DatabaseURL string
	RedisURL    string

	// SignupStateBackend selects where signup sessions live: "memory" keeps
	// the flow process-local, "redis" makes it resumable across restarts.
	SignupStateBackend string

	// IdentityMode selects who owns accounts: "hosted" calls the external
	// backend's account API, "local" stores credentials in our own database.
	IdentityMode        string
	IdentityBaseURL     string
	IdentityServiceKey  string
	IdentityHTTPTimeout time.Duration

	JWTPrivateKeyPEM  string
	JWTPublicKeyPEM   string
	JWTKeyID          string
	AllowEphemeralJWT bool

	BcryptCost int

	SignupTTL       time.Duration
	HandoffTokenTTL time.Duration

	PasswordMinLength      int
	PasswordMaxLength      int
	PasswordRequireUpper   bool
	PasswordRequireLower   bool
	PasswordRequireDigit   bool
	PasswordRequireSpecial bool

	KafkaBrokers         []string
	KafkaGroupID         string
	TopicAccountCreated  string
	TopicSignupCompleted string
	ConsumerPollInterval time.Duration

	MaxDBConns int32
}

// configFile mirrors the YAML schema used by configs/default.yaml.
// It is intentionally separate from Config so runtime-only fields stay internal.
type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
		GRPCPort int    `yaml:"grpc_port"`
	} `yaml:"service"`
	Dependencies struct {
		PostgresURL  string   `yaml:"postgres_url"`
		RedisURL     string   `yaml:"redis_url"`
		KafkaBrokers []string `yaml:"kafka_brokers"`
	} `yaml:"dependencies"`
	Signup struct {
		StateBackend string `yaml:"state_backend"`
		TTLMinutes   int    `yaml:"ttl_minutes"`
	} `yaml:"signup"`
	Identity struct {
		Mode       string `yaml:"mode"`
		BaseURL    string `yaml:"base_url"`
		ServiceKey string `yaml:"service_key"`
	} `yaml:"identity"`
	// Password rule toggles are pointers so an explicit `false` in the file
	// can loosen a default-true rule; absent keys keep the defaults.
	Password struct {
		MinLength      int   `yaml:"min_length"`
		MaxLength      int   `yaml:"max_length"`
		RequireUpper   *bool `yaml:"require_upper"`
		RequireLower   *bool `yaml:"require_lower"`
		RequireDigit   *bool `yaml:"require_digit"`
		RequireSpecial *bool `yaml:"require_special"`
	} `yaml:"password"`
}

// LoadConfig resolves configuration in priority order: defaults -> file -> env.
// This order keeps local bootstrap simple while allowing environment-specific overrides.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:            "signup-service",
		HTTPPort:             8080,
		GRPCPort:             9090,
		SignupStateBackend:   "memory",
		IdentityMode:         "local",
		IdentityHTTPTimeout:  10 * time.Second,
		JWTKeyID:             "signup-handoff-key-1",
		AllowEphemeralJWT:    true,
		BcryptCost:           12,
		SignupTTL:            30 * time.Minute,
		HandoffTokenTTL:      5 * time.Minute,
		PasswordMinLength:    8,
		PasswordMaxLength:    128,
		PasswordRequireUpper: false,
		PasswordRequireLower: true,
		PasswordRequireDigit: true,
		KafkaGroupID:         "signup-service",
		TopicAccountCreated:  "account.created",
		TopicSignupCompleted: "signup.completed",
		ConsumerPollInterval: 2 * time.Second,
		MaxDBConns:           20,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Service.GRPCPort > 0 {
			cfg.GRPCPort = f.Service.GRPCPort
		}
		if f.Dependencies.PostgresURL != "" {
			cfg.DatabaseURL = f.Dependencies.PostgresURL
		}
		if f.Dependencies.RedisURL != "" {
			cfg.RedisURL = f.Dependencies.RedisURL
		}
		if len(f.Dependencies.KafkaBrokers) > 0 {
			cfg.KafkaBrokers = f.Dependencies.KafkaBrokers
		}
		if f.Signup.StateBackend != "" {
			cfg.SignupStateBackend = f.Signup.StateBackend
		}
		if f.Signup.TTLMinutes > 0 {
			cfg.SignupTTL = time.Duration(f.Signup.TTLMinutes) * time.Minute
		}
		if f.Identity.Mode != "" {
			cfg.IdentityMode = f.Identity.Mode
		}
		if f.Identity.BaseURL != "" {
			cfg.IdentityBaseURL = f.Identity.BaseURL
		}
		if f.Identity.ServiceKey != "" {
			cfg.IdentityServiceKey = f.Identity.ServiceKey
		}
		if f.Password.MinLength > 0 {
			cfg.PasswordMinLength = f.Password.MinLength
		}
		if f.Password.MaxLength > 0 {
			cfg.PasswordMaxLength = f.Password.MaxLength
		}
		if f.Password.RequireUpper != nil {
			cfg.PasswordRequireUpper = *f.Password.RequireUpper
		}
		if f.Password.RequireLower != nil {
			cfg.PasswordRequireLower = *f.Password.RequireLower
		}
		if f.Password.RequireDigit != nil {
			cfg.PasswordRequireDigit = *f.Password.RequireDigit
		}
		if f.Password.RequireSpecial != nil {
			cfg.PasswordRequireSpecial = *f.Password.RequireSpecial
		}
	}

	cfg.DatabaseURL = envOrDefault("DB_URL", envOrDefault("POSTGRES_URL", cfg.DatabaseURL))
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.SignupStateBackend = strings.ToLower(strings.TrimSpace(envOrDefault("SIGNUP_STATE_BACKEND", cfg.SignupStateBackend)))
	cfg.IdentityMode = strings.ToLower(strings.TrimSpace(envOrDefault("IDENTITY_MODE", cfg.IdentityMode)))
	cfg.IdentityBaseURL = envOrDefault("IDENTITY_BASE_URL", cfg.IdentityBaseURL)
	cfg.IdentityServiceKey = envOrDefault("IDENTITY_SERVICE_KEY", cfg.IdentityServiceKey)
	cfg.JWTPrivateKeyPEM = envOrDefault("JWT_PRIVATE_KEY_PEM", cfg.JWTPrivateKeyPEM)
	cfg.JWTPublicKeyPEM = envOrDefault("JWT_PUBLIC_KEY_PEM", cfg.JWTPublicKeyPEM)
	cfg.JWTKeyID = envOrDefault("JWT_KEY_ID", cfg.JWTKeyID)
	cfg.AllowEphemeralJWT = envBool("JWT_ALLOW_EPHEMERAL", cfg.AllowEphemeralJWT)
	cfg.KafkaBrokers = envCSV("KAFKA_BROKERS", cfg.KafkaBrokers)
	cfg.KafkaGroupID = envOrDefault("KAFKA_GROUP_ID", cfg.KafkaGroupID)
	cfg.TopicAccountCreated = envOrDefault("TOPIC_ACCOUNT_CREATED", cfg.TopicAccountCreated)
	cfg.TopicSignupCompleted = envOrDefault("TOPIC_SIGNUP_COMPLETED", cfg.TopicSignupCompleted)

	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.GRPCPort = envInt("GRPC_PORT", cfg.GRPCPort)
	cfg.BcryptCost = envInt("BCRYPT_ROUNDS", cfg.BcryptCost)
	cfg.MaxDBConns = int32(envInt("DB_MAX_CONNS", int(cfg.MaxDBConns)))

	cfg.PasswordMinLength = envInt("PASSWORD_MIN_LENGTH", cfg.PasswordMinLength)
	cfg.PasswordMaxLength = envInt("PASSWORD_MAX_LENGTH", cfg.PasswordMaxLength)
	cfg.PasswordRequireUpper = envBool("PASSWORD_REQUIRE_UPPER", cfg.PasswordRequireUpper)
	cfg.PasswordRequireLower = envBool("PASSWORD_REQUIRE_LOWER", cfg.PasswordRequireLower)
	cfg.PasswordRequireDigit = envBool("PASSWORD_REQUIRE_DIGIT", cfg.PasswordRequireDigit)
	cfg.PasswordRequireSpecial = envBool("PASSWORD_REQUIRE_SPECIAL", cfg.PasswordRequireSpecial)

	cfg.SignupTTL = time.Duration(envInt("SIGNUP_TTL_MINUTES", int(cfg.SignupTTL.Minutes()))) * time.Minute
	cfg.HandoffTokenTTL = time.Duration(envInt("HANDOFF_TOKEN_TTL_SECONDS", int(cfg.HandoffTokenTTL.Seconds()))) * time.Second
	cfg.IdentityHTTPTimeout = time.Duration(envInt("IDENTITY_HTTP_TIMEOUT_SECONDS", int(cfg.IdentityHTTPTimeout.Seconds()))) * time.Second
	cfg.ConsumerPollInterval = time.Duration(envInt("CONSUMER_POLL_SECONDS", int(cfg.ConsumerPollInterval.Seconds()))) * time.Second

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("missing DB_URL/POSTGRES_URL")
	}
	switch cfg.SignupStateBackend {
	case "memory":
	case "redis":
		if cfg.RedisURL == "" {
			return Config{}, fmt.Errorf("missing REDIS_URL for redis signup state backend")
		}
	default:
		return Config{}, fmt.Errorf("unknown signup state backend %q", cfg.SignupStateBackend)
	}
	switch cfg.IdentityMode {
	case "local":
	case "hosted":
		if cfg.IdentityBaseURL == "" {
			return Config{}, fmt.Errorf("missing IDENTITY_BASE_URL for hosted identity mode")
		}
		// In hosted mode the bare profile rows arrive via account.created
		// events; without brokers the profile step could never succeed.
		if len(cfg.KafkaBrokers) == 0 {
			return Config{}, fmt.Errorf("missing KAFKA_BROKERS for hosted identity mode")
		}
	default:
		return Config{}, fmt.Errorf("unknown identity mode %q", cfg.IdentityMode)
	}
	if (cfg.JWTPrivateKeyPEM == "" || cfg.JWTPublicKeyPEM == "") && !cfg.AllowEphemeralJWT {
		return Config{}, fmt.Errorf("missing JWT_PRIVATE_KEY_PEM or JWT_PUBLIC_KEY_PEM")
	}

	return cfg, nil
}

// envOrDefault returns an env var when present, otherwise the provided fallback.
func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

// envInt parses integer env vars with safe fallback on empty/invalid values.
func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// envBool parses common boolean env forms while keeping a deterministic fallback.
func envBool(name string, fallback bool) bool {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return fallback
	}
}

// envCSV parses comma-separated env vars and removes empty segments.
func envCSV(name string, fallback []string) []string {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	parts := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		parts = append(parts, trimmed)
	}
	if len(parts) == 0 {
		return fallback
	}
	return parts
}

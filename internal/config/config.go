package config

import (
	"fmt"
	"healthassistant/internal/generation"
	"healthassistant/internal/health"
	"healthassistant/internal/models"
	"os"
	"strconv"
	"strings"
	"time"
)

type DatabaseConfig struct {
	Driver     string // "postgres" or "sqlite"
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SSLMode    string
	SQLitePath string
}

type LLMConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	TimeoutMs   int
}

func (c LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

type Config struct {
	Port               string
	JWTSecret          string
	CORSAllowedOrigins []string
	KnowledgeDir       string
	RedisURL           string
	RabbitMQURL        string
	ConversationTTL    time.Duration

	Database DatabaseConfig
	LLM      LLMConfig

	RepairRetries       int
	HistoryWindowDays   int
	WriteRetries        int
	Location            *time.Location
	ActivityMultipliers health.ActivityMultipliers
	Ranges              generation.Ranges
}

// Default returns a Config usable for local runs: SQLite, no Redis, no broker.
func Default() Config {
	return Config{
		Port:               "8080",
		CORSAllowedOrigins: []string{"*"},
		ConversationTTL:    24 * time.Hour,
		Database: DatabaseConfig{
			Driver:     "sqlite",
			Host:       "localhost",
			Port:       "5432",
			SSLMode:    "disable",
			SQLitePath: "healthassistant.db",
		},
		LLM: LLMConfig{
			BaseURL:     "https://api.openai.com/v1",
			Model:       "gpt-4o-mini",
			Temperature: 0.2,
			MaxTokens:   1024,
			TimeoutMs:   15000,
		},
		RepairRetries:       2,
		HistoryWindowDays:   6,
		WriteRetries:        3,
		Location:            time.Local,
		ActivityMultipliers: health.DefaultActivityMultipliers(),
		Ranges:              generation.DefaultRanges(),
	}
}

// Load reads the environment on top of Default. Malformed numbers fall back to
// the default; malformed tables and time zones are reported.
func Load() (Config, error) {
	cfg := Default()

	setString(&cfg.Port, "PORT")
	setString(&cfg.JWTSecret, "JWT_SECRET_KEY")
	setString(&cfg.KnowledgeDir, "KNOWLEDGE_DIR")
	setString(&cfg.RedisURL, "REDIS_URL")
	setString(&cfg.RabbitMQURL, "RABBITMQ_URL")
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.CORSAllowedOrigins = splitList(v)
	}
	if v := os.Getenv("CONVERSATION_TTL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ConversationTTL = time.Duration(n) * time.Minute
		}
	}

	setString(&cfg.Database.Driver, "DB_DRIVER")
	setString(&cfg.Database.Host, "DB_HOST")
	setString(&cfg.Database.Port, "DB_PORT")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.Name, "DB_NAME")
	setString(&cfg.Database.SSLMode, "DB_SSLMODE")
	setString(&cfg.Database.SQLitePath, "SQLITE_PATH")
	if d := cfg.Database.Driver; d != "postgres" && d != "sqlite" {
		return cfg, fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", d)
	}

	setString(&cfg.LLM.APIKey, "OPENAI_API_KEY")
	setString(&cfg.LLM.BaseURL, "OPENAI_BASE_URL")
	setString(&cfg.LLM.Model, "OPENAI_MODEL")
	setInt(&cfg.LLM.TimeoutMs, "LLM_TIMEOUT_MS", 1)
	setInt(&cfg.LLM.MaxTokens, "LLM_MAX_TOKENS", 1)

	setInt(&cfg.RepairRetries, "REPAIR_RETRIES", 0)
	setInt(&cfg.HistoryWindowDays, "HISTORY_WINDOW_DAYS", 0)
	setInt(&cfg.WriteRetries, "WRITE_RETRIES", 0)

	if v := os.Getenv("TIMEZONE"); v != "" {
		loc, err := time.LoadLocation(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid TIMEZONE %q: %w", v, err)
		}
		cfg.Location = loc
	}

	if v := os.Getenv("ACTIVITY_MULTIPLIERS"); v != "" {
		m, err := ParseMultipliers(v)
		if err != nil {
			return cfg, err
		}
		for level, f := range m {
			cfg.ActivityMultipliers[level] = f
		}
	}

	for name, r := range rangeVars(&cfg.Ranges) {
		if v := os.Getenv(name); v != "" {
			parsed, err := ParseRange(v)
			if err != nil {
				return cfg, fmt.Errorf("invalid %s: %w", name, err)
			}
			*r = parsed
		}
	}

	return cfg, nil
}

// ParseMultipliers reads "sedentary=1.2,light=1.375".
func ParseMultipliers(s string) (health.ActivityMultipliers, error) {
	known := map[models.ActivityLevel]bool{
		models.ActivitySedentary: true, models.ActivityLight: true, models.ActivityModerate: true,
		models.ActivityActive: true, models.ActivityVeryActive: true,
	}
	out := health.ActivityMultipliers{}
	for _, pair := range splitList(s) {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid ACTIVITY_MULTIPLIERS entry %q", pair)
		}
		level := models.ActivityLevel(strings.TrimSpace(k))
		if !known[level] {
			return nil, fmt.Errorf("unknown activity level %q", k)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || f <= 0 {
			return nil, fmt.Errorf("invalid multiplier for %s: %q", level, v)
		}
		out[level] = f
	}
	return out, nil
}

// ParseRange reads "min-max"; a leading minus on min is allowed.
func ParseRange(s string) (generation.Range, error) {
	s = strings.TrimSpace(s)
	i := strings.Index(s[min(1, len(s)):], "-")
	if i < 0 {
		return generation.Range{}, fmt.Errorf("expected min-max, got %q", s)
	}
	i += min(1, len(s))
	lo, err := strconv.ParseFloat(strings.TrimSpace(s[:i]), 64)
	if err != nil {
		return generation.Range{}, fmt.Errorf("bad minimum in %q", s)
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(s[i+1:]), 64)
	if err != nil {
		return generation.Range{}, fmt.Errorf("bad maximum in %q", s)
	}
	if lo > hi {
		return generation.Range{}, fmt.Errorf("minimum above maximum in %q", s)
	}
	return generation.Range{Min: lo, Max: hi}, nil
}

func rangeVars(r *generation.Ranges) map[string]*generation.Range {
	return map[string]*generation.Range{
		"PLAUSIBLE_KCAL":        &r.Kcal,
		"PLAUSIBLE_MACRO_G":     &r.MacroG,
		"PLAUSIBLE_SODIUM_MG":   &r.SodiumMG,
		"PLAUSIBLE_LATENCY_MIN": &r.LatencyMin,
		"PLAUSIBLE_WASO_MIN":    &r.WasoMin,
		"PLAUSIBLE_SLEEP_MIN":   &r.SleepDurationMin,
		"PLAUSIBLE_SYSTOLIC":    &r.Systolic,
		"PLAUSIBLE_DIASTOLIC":   &r.Diastolic,
		"PLAUSIBLE_GLUCOSE":     &r.Glucose,
		"PLAUSIBLE_WEIGHT_KG":   &r.WeightKG,
		"PLAUSIBLE_HEIGHT_CM":   &r.HeightCM,
		"PLAUSIBLE_AGE":         &r.Age,
		"PLAUSIBLE_GOAL_OFFSET": &r.GoalOffset,
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string, minValue int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= minValue {
			*dst = n
		}
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

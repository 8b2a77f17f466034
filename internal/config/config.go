package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries every environment-driven setting. Each binary reads the
// sections it needs and validates required values at startup.
type Config struct {
	AppEnv    string
	HTTP      HTTP
	Postgres  Postgres
	Redis     Redis
	Kafka     Kafka
	Odoo      Odoo
	Telegram  Telegram
	Gemini    Gemini
	SMTP      SMTP
	Webhook   Webhook
	Voice     Voice
	Security  Security
	Scheduler Scheduler
	Notify    Notify
}

type HTTP struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	RateLimitRPS float64
	RateBurst    int
}

type Postgres struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type Redis struct {
	Addr     string
	Password string
	DB       int
}

type Kafka struct {
	Broker  string
	GroupID string
}

type Odoo struct {
	URL      string
	Database string
	Username string
	Password string
	Timeout  time.Duration
}

type Telegram struct {
	BotToken    string
	APIURL      string
	PollTimeout time.Duration
}

type Gemini struct {
	APIKey          string
	Model           string
	Temperature     float64
	MaxOutputTokens int32
}

type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	UseTLS   bool
}

type Webhook struct {
	URL     string
	Secret  string
	Timeout time.Duration
}

type Voice struct {
	APIKey    string
	APISecret string
	TokenTTL  time.Duration
}

type Security struct {
	APIKey string
}

type Scheduler struct {
	OverdueSpec        string
	DailyReportSpec    string
	WeeklyReportSpec   string
	WorkloadSpec       string
	AttendanceSpec     string
	ContractExpirySpec string
	InterviewSpec      string
}

type Notify struct {
	ManagerEmails []string
	HREmails      []string
}

// Load reads the full configuration from the environment. Values that are
// mandatory for a given binary are checked by that binary, not here.
func Load() Config {
	return Config{
		AppEnv: getEnv("APP_ENV", "development"),
		HTTP: HTTP{
			Port:         getEnv("PORT", "8000"),
			ReadTimeout:  getDuration("HTTP_READ_TIMEOUT", 5*time.Second),
			WriteTimeout: getDuration("HTTP_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  getDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
			RateLimitRPS: getFloat("RATE_LIMIT_RPS", 20),
			RateBurst:    getInt("RATE_LIMIT_BURST", 40),
		},
		Postgres: Postgres{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "ailigent"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "ailigent"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: Redis{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getInt("REDIS_DB", 0),
		},
		Kafka: Kafka{
			Broker:  getEnv("KAFKA_BROKER", ""),
			GroupID: getEnv("KAFKA_GROUP_ID", "ailigent-notifications"),
		},
		Odoo: Odoo{
			URL:      getEnv("ODOO_URL", ""),
			Database: getEnv("ODOO_DB", ""),
			Username: getEnv("ODOO_USERNAME", ""),
			Password: getEnv("ODOO_PASSWORD", ""),
			Timeout:  getDuration("ODOO_TIMEOUT", 30*time.Second),
		},
		Telegram: Telegram{
			BotToken:    getEnv("TELEGRAM_BOT_TOKEN", ""),
			APIURL:      getEnv("TELEGRAM_API_URL", "https://api.telegram.org"),
			PollTimeout: getDuration("TELEGRAM_POLL_TIMEOUT", 30*time.Second),
		},
		Gemini: Gemini{
			APIKey:          getEnv("GOOGLE_API_KEY", ""),
			Model:           getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			Temperature:     getFloat("GEMINI_TEMPERATURE", 0.7),
			MaxOutputTokens: int32(getInt("GEMINI_MAX_OUTPUT_TOKENS", 1024)),
		},
		SMTP: SMTP{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "noreply@ailigent.local"),
			UseTLS:   getBool("SMTP_USE_TLS", true),
		},
		Webhook: Webhook{
			URL:     getEnv("WEBHOOK_URL", ""),
			Secret:  getEnv("WEBHOOK_SECRET", ""),
			Timeout: getDuration("WEBHOOK_TIMEOUT", 10*time.Second),
		},
		Voice: Voice{
			APIKey:    getEnv("VOICE_API_KEY", ""),
			APISecret: getEnv("VOICE_API_SECRET", ""),
			TokenTTL:  getDuration("VOICE_TOKEN_TTL", 6*time.Hour),
		},
		Security: Security{
			APIKey: getEnv("API_KEY", ""),
		},
		Scheduler: Scheduler{
			OverdueSpec:        getEnv("SCHEDULE_OVERDUE", "*/15 * * * *"),
			DailyReportSpec:    getEnv("SCHEDULE_DAILY_REPORT", "0 6 * * *"),
			WeeklyReportSpec:   getEnv("SCHEDULE_WEEKLY_REPORT", "0 7 * * 1"),
			WorkloadSpec:       getEnv("SCHEDULE_WORKLOAD", "0 * * * *"),
			AttendanceSpec:     getEnv("SCHEDULE_ATTENDANCE", "0 8 * * *"),
			ContractExpirySpec: getEnv("SCHEDULE_CONTRACT_EXPIRY", "0 7 * * *"),
			InterviewSpec:      getEnv("SCHEDULE_INTERVIEW", "0 */4 * * *"),
		},
		Notify: Notify{
			ManagerEmails: getList("MANAGER_EMAILS"),
			HREmails:      getList("HR_EMAILS"),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"smartcampus/internal/layout"
)

// Source is one upstream occupancy endpoint. Its zones form one group:
// refreshes of a group never overlap.
type Source struct {
	Name string
	URL  string
}

// Config is built once at startup and handed to constructors.
//
// Environment overrides:
//
//	PORT                  HTTP port (8080)
//	DATABASE_URL          Postgres DSN for occupancy history; empty disables it
//	OCCUPANCY_SOURCES     comma separated name=url pairs
//	OCCUPANCY_API_URL     single source, used when OCCUPANCY_SOURCES is empty
//	OCCUPANCY_REFRESH     refresh period (30s)
//	OCCUPANCY_TIMEOUT     per request timeout (10s)
//	LAYOUT_FILE           JSON file with anchor and pads; built-in layout when empty
//	ADMIN_JWT_SECRET      HS256 secret for /admin
//	HISTORY_RETENTION     how long history rows are kept (168h)
//	CORS_ORIGINS          comma separated origins (*)
//	SENDGRID_API_KEY, SENDGRID_FROM_EMAIL, SENDGRID_FROM_NAME, ALERT_EMAIL_TO
//	TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN, TWILIO_FROM_NUMBER, ALERT_SMS_TO
type Config struct {
	Port        string
	DatabaseURL string

	Sources         []Source
	RefreshInterval time.Duration
	FetchTimeout    time.Duration

	LayoutFile string
	Anchor     layout.Anchor
	Pads       []layout.PadLayout

	AdminJWTSecret   string
	HistoryRetention time.Duration
	CORSOrigins      []string

	Alerts AlertConfig
}

type AlertConfig struct {
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	EmailTo           string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string
	SMSTo            string
}

// LayoutFile is the on-disk shape of LAYOUT_FILE.
type LayoutFile struct {
	Anchor layout.Anchor      `json:"anchor"`
	Pads   []layout.PadLayout `json:"pads"`
}

// Load reads the configuration. A non-empty layoutFile takes precedence over
// LAYOUT_FILE.
func Load(layoutFile string) (*Config, error) {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RefreshInterval:  getEnvDuration("OCCUPANCY_REFRESH", 30*time.Second),
		FetchTimeout:     getEnvDuration("OCCUPANCY_TIMEOUT", 10*time.Second),
		LayoutFile:       layoutFile,
		AdminJWTSecret:   os.Getenv("ADMIN_JWT_SECRET"),
		HistoryRetention: getEnvDuration("HISTORY_RETENTION", 7*24*time.Hour),
		CORSOrigins:      splitList(getEnv("CORS_ORIGINS", "*")),
		Alerts: AlertConfig{
			SendGridAPIKey:    os.Getenv("SENDGRID_API_KEY"),
			SendGridFromEmail: os.Getenv("SENDGRID_FROM_EMAIL"),
			SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Smart Campus"),
			EmailTo:           os.Getenv("ALERT_EMAIL_TO"),
			TwilioAccountSID:  os.Getenv("TWILIO_ACCOUNT_SID"),
			TwilioAuthToken:   os.Getenv("TWILIO_AUTH_TOKEN"),
			TwilioFromNumber:  os.Getenv("TWILIO_FROM_NUMBER"),
			SMSTo:             os.Getenv("ALERT_SMS_TO"),
		},
	}

	if cfg.LayoutFile == "" {
		cfg.LayoutFile = os.Getenv("LAYOUT_FILE")
	}

	cfg.Sources, err = ParseSources(os.Getenv("OCCUPANCY_SOURCES"), os.Getenv("OCCUPANCY_API_URL"))
	if err != nil {
		return nil, err
	}

	if cfg.LayoutFile != "" {
		lf, err := ReadLayoutFile(cfg.LayoutFile)
		if err != nil {
			return nil, err
		}
		cfg.Anchor, cfg.Pads = lf.Anchor, lf.Pads
	} else {
		cfg.Anchor, cfg.Pads = DefaultAnchor(), DefaultPads()
	}
	return cfg, nil
}

// ParseSources reads "name=url,name=url". A bare URL gets its position as name.
func ParseSources(list, single string) ([]Source, error) {
	var sources []Source
	seen := map[string]bool{}
	for i, item := range splitList(list) {
		name, url, ok := strings.Cut(item, "=")
		if !ok {
			name, url = fmt.Sprintf("source-%d", i+1), item
		}
		name, url = strings.TrimSpace(name), strings.TrimSpace(url)
		if url == "" {
			return nil, fmt.Errorf("OCCUPANCY_SOURCES: empty url for %q", name)
		}
		if seen[name] {
			return nil, fmt.Errorf("OCCUPANCY_SOURCES: duplicate source %q", name)
		}
		seen[name] = true
		sources = append(sources, Source{Name: name, URL: url})
	}
	if len(sources) == 0 && strings.TrimSpace(single) != "" {
		sources = append(sources, Source{Name: "default", URL: strings.TrimSpace(single)})
	}
	return sources, nil
}

func ReadLayoutFile(path string) (*LayoutFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open layout file: %w", err)
	}
	defer file.Close()

	var lf LayoutFile
	if err := json.NewDecoder(file).Decode(&lf); err != nil {
		return nil, fmt.Errorf("decode layout file %s: %w", path, err)
	}
	for i := range lf.Pads {
		if lf.Pads[i].Kind == "" {
			lf.Pads[i].Kind = layout.KindCar
		} else {
			lf.Pads[i].Kind = layout.ParseKind(string(lf.Pads[i].Kind))
		}
	}
	return &lf, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	log.Printf("Warning: invalid duration %s=%q, using %s", key, value, fallback)
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

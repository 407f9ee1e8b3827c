package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"sheetwallet/internal/core"
	ports "sheetwallet/internal/sheets"
)

// DefaultSpreadsheetID is used when GOOGLE_SHEET_ID is unset.
const DefaultSpreadsheetID = "1MeCb_ClcxP-H_e6vYid49l-ayRd0cF-TE_StXRO9dnM"

// Authentication modes.
const (
	AuthModeMulti  = "multi"
	AuthModeSingle = "single"
)

type Config struct {
	// HTTP Server
	Port               string
	CORSAllowedOrigins []string
	LoginRateLimit     int
	LogLevel           string

	// Backend selection
	DataBackend  string
	SQLiteDBPath string

	// Google Sheets
	GoogleSheetID    string
	TransactionRange string
	CategoryRange    string
	BudgetRange      string
	UserRange        string

	// Service account, inline fields
	SAType         string
	SAProjectID    string
	SAPrivateKeyID string
	SAPrivateKey   string
	SAClientEmail  string
	SAClientID     string
	// Service account, whole JSON document or key file
	ServiceAccountJSON string
	CredentialsFile    string

	// Auth
	AuthMode      string
	AdminUsername string
	AdminPassword string
	JWTSecret     string
	// JWTExpiresIn is the raw expiry as configured; it is echoed to clients.
	JWTExpiresIn string
	JWTTTL       time.Duration
}

func Load() *Config {
	authMode := strings.ToLower(getEnv("AUTH_MODE", AuthModeMulti))
	txRange := "'transactions'!A:G"
	if authMode == AuthModeSingle {
		txRange = "'transactions'!A:F"
	}
	expiresIn := getEnv("JWT_EXPIRES_IN", "365d")
	ttl, _ := ParseExpiry(expiresIn)

	return &Config{
		Port:               getEnv("PORT", "3000"),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LoginRateLimit:     getEnvInt("LOGIN_RATE_LIMIT", 10),
		LogLevel:           getEnv("LOG_LEVEL", "info"),

		DataBackend:  getEnv("DATA_BACKEND", "sheets"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/wallet.db"),

		GoogleSheetID:    getEnv("GOOGLE_SHEET_ID", DefaultSpreadsheetID),
		TransactionRange: getEnv("GOOGLE_TRANSACTION_RANGE", txRange),
		CategoryRange:    getEnv("GOOGLE_CATEGORY_RANGE", "'categories'!A:C"),
		BudgetRange:      getEnv("GOOGLE_BUDGET_RANGE", "'budgets'!A:B"),
		UserRange:        getEnv("GOOGLE_USER_RANGE", "'accountName'!A:C"),

		SAType:             getEnv("GOOGLE_SA_TYPE", ""),
		SAProjectID:        getEnv("GOOGLE_SA_PROJECT_ID", ""),
		SAPrivateKeyID:     getEnv("GOOGLE_SA_PRIVATE_KEY_ID", ""),
		SAPrivateKey:       getEnv("GOOGLE_SA_PRIVATE_KEY", ""),
		SAClientEmail:      getEnv("GOOGLE_SA_CLIENT_EMAIL", ""),
		SAClientID:         getEnv("GOOGLE_SA_CLIENT_ID", ""),
		ServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		CredentialsFile:    getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),

		AuthMode:      authMode,
		AdminUsername: getEnv("ADMIN_USERNAME", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		JWTSecret:     getEnv("JWT_SECRET", "change-me-secret"),
		JWTExpiresIn:  expiresIn,
		JWTTTL:        ttl,
	}
}

// MultiUser reports whether accounts come from the user sheet.
func (c *Config) MultiUser() bool {
	return c.AuthMode != AuthModeSingle
}

// TransactionColumns is the transaction header for the configured auth mode.
func (c *Config) TransactionColumns() []string {
	return core.TransactionColumnsFor(c.MultiUser())
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	validBackends := []string{"sheets", "memory", "sqlite"}
	if !contains(validBackends, c.DataBackend) {
		problems = append(problems, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}
	if c.DataBackend == "sqlite" && strings.TrimSpace(c.SQLiteDBPath) == "" {
		problems = append(problems, "SQLite database path cannot be empty when using sqlite backend")
	}
	if c.DataBackend == "sheets" && strings.TrimSpace(c.GoogleSheetID) == "" {
		problems = append(problems, "GOOGLE_SHEET_ID is required when using sheets backend")
	}

	for name, rng := range map[string]string{
		"GOOGLE_TRANSACTION_RANGE": c.TransactionRange,
		"GOOGLE_CATEGORY_RANGE":    c.CategoryRange,
		"GOOGLE_BUDGET_RANGE":      c.BudgetRange,
		"GOOGLE_USER_RANGE":        c.UserRange,
	} {
		if _, err := ports.ParseRange(rng); err != nil {
			problems = append(problems, fmt.Sprintf("invalid %s: %v", name, err))
		}
	}

	switch c.AuthMode {
	case AuthModeMulti:
	case AuthModeSingle:
		if c.AdminUsername == "" || c.AdminPassword == "" {
			problems = append(problems, "ADMIN_USERNAME and ADMIN_PASSWORD are required when AUTH_MODE=single")
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid auth mode '%s': must be 'multi' or 'single'", c.AuthMode))
	}

	if c.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET cannot be empty")
	}
	if _, err := ParseExpiry(c.JWTExpiresIn); err != nil {
		problems = append(problems, fmt.Sprintf("invalid JWT_EXPIRES_IN: %v", err))
	}
	if c.LoginRateLimit < 0 {
		problems = append(problems, fmt.Sprintf("invalid login rate limit %d: must not be negative", c.LoginRateLimit))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// ParseExpiry accepts Go durations ("12h"), plain seconds ("3600") and day,
// week or year counts ("365d", "2w", "1y").
func ParseExpiry(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty expiry")
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n <= 0 {
			return 0, fmt.Errorf("expiry %q must be positive", s)
		}
		return time.Duration(n) * time.Second, nil
	}
	units := map[byte]time.Duration{'d': 24 * time.Hour, 'w': 7 * 24 * time.Hour, 'y': 365 * 24 * time.Hour}
	if unit, ok := units[s[len(s)-1]]; ok {
		n, err := strconv.Atoi(s[:len(s)-1])
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid expiry %q", s)
		}
		return time.Duration(n) * unit, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid expiry %q", s)
	}
	if d <= 0 {
		return 0, fmt.Errorf("expiry %q must be positive", s)
	}
	return d, nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
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

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

package config

import (
	"os"
	"strings"
	"time"
)

type Env struct {
	AppAddr        string
	GinMode        string
	JWTSecret      string
	TokenTTL       time.Duration
	AllowedOrigins []string
	// AuthDisabled bypasses the bearer-token guard; local development only.
	AuthDisabled bool
}

func LoadEnv() Env {
	appAddr := strings.TrimSpace(os.Getenv("APP_ADDR"))
	if appAddr == "" {
		appAddr = ":8080"
	}

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))

	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		secret = "super-secret-key-change-me"
	}

	ttl := 24 * time.Hour
	if raw := strings.TrimSpace(os.Getenv("TOKEN_TTL")); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			ttl = d
		}
	}

	origins := []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
		"http://localhost:5173",
		"http://127.0.0.1:5173",
	}
	if env := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); env != "" {
		origins = origins[:0]
		for _, o := range strings.Split(env, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				origins = append(origins, o)
			}
		}
	}

	authDisabled := false
	switch strings.TrimSpace(os.Getenv("AUTH_DISABLED")) {
	case "1", "true", "yes":
		authDisabled = true
	}

	return Env{
		AppAddr:        appAddr,
		GinMode:        ginMode,
		JWTSecret:      secret,
		TokenTTL:       ttl,
		AllowedOrigins: origins,
		AuthDisabled:   authDisabled,
	}
}

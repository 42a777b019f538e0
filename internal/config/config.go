package config

import (
	"fmt"

	authservice "glickoserver/auth/service"
	"glickoserver/internal/glicko2"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

type TgBot struct {
	TelegramAPIToken string `toml:"telegram_api_token" env:"TELEGRAM_APITOKEN"`
	AdminPass        string `toml:"admin_pass" env:"BOT_ADMIN_PASS"`
	SqliteFile       string `toml:"sqlite_file"`
}

// Rating holds the engine settings. Defaults follow the standard
// recommendations for new players.
type Rating struct {
	DefaultRating        float64 `toml:"default_rating"`
	DefaultDeviation     float64 `toml:"default_deviation"`
	DefaultVolatility    float64 `toml:"default_volatility"`
	Tau                  float64 `toml:"tau"`
	ConvergenceTolerance float64 `toml:"convergence_tolerance"`
	// ProvisionalDeviation is the deviation above which a rating is
	// shown as provisional.
	ProvisionalDeviation float64 `toml:"provisional_deviation"`
}

func (r Rating) Seed() glicko2.Rating {
	return glicko2.Rating{
		Rating:     r.DefaultRating,
		Deviation:  r.DefaultDeviation,
		Volatility: r.DefaultVolatility,
	}
}

func (r Rating) Glicko() glicko2.Config {
	return glicko2.Config{
		Tau:                  r.Tau,
		ConvergenceTolerance: r.ConvergenceTolerance,
	}
}

type TLS struct {
	Enabled  bool   `toml:"enabled"`
	CertFile string `toml:"cert_file"`
	KeyFile  string `toml:"key_file"`
}

type Server struct {
	Host         string             `toml:"host" env:"SERVER_HOST"`
	Port         int                `toml:"port" env:"SERVER_PORT"`
	TgBotEnabled bool               `toml:"tg_bot_enabled"`
	Debug        bool               `toml:"debug_mode"`
	SqliteFile   string             `toml:"sqlite_file"`
	TLS          TLS                `toml:"tls"`
	Rating       Rating             `toml:"rating"`
	Auth         authservice.Config `toml:"auth"`
}

type Config struct {
	TgBot  TgBot
	Server Server
}

func Default() Config {
	return Config{
		TgBot: TgBot{
			SqliteFile: "bot.sqlite",
		},
		Server: Server{
			Host:       "localhost",
			Port:       3000,
			SqliteFile: "rating.sqlite",
			Rating: Rating{
				DefaultRating:        1500,
				DefaultDeviation:     350,
				DefaultVolatility:    0.06,
				Tau:                  0.5,
				ConvergenceTolerance: 1e-6,
				ProvisionalDeviation: 110,
			},
			Auth: authservice.Config{
				Type:       "sqlite",
				SqliteFile: "auth.sqlite",
				// Development secrets, override through the environment.
				Token:          "dev-token-secret",
				Expiration:     "24h",
				RootPassword:   "root",
				PasswordPepper: "dev-pepper",
				Roles:          []string{"admin", "user"},
				Rules: []authservice.Rule{
					{
						Name:   "new match",
						Path:   "^/api/matches$",
						Method: []string{"*"},
						Allow:  []string{"admin", "user"},
					},
					{
						Name:   "new player",
						Path:   "^/api/players$",
						Method: []string{"*"},
						Allow:  []string{"admin", "user"},
					},
					{
						Name:   "public",
						Path:   "^/",
						Method: []string{"*"},
						Allow:  []string{"*"},
					},
				},
			},
		},
	}
}

// New reads the two toml files over the defaults, then applies
// environment overrides on top.
func New(serverPath, botPath string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(serverPath, &cfg.Server); err != nil {
		return Config{}, fmt.Errorf("server config: %w", err)
	}
	if _, err := toml.DecodeFile(botPath, &cfg.TgBot); err != nil {
		return Config{}, fmt.Errorf("bot config: %w", err)
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("environment: %w", err)
	}
	return cfg, nil
}

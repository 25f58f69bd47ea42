package killbill

import (
	"fmt"
	"time"

	cenv "github.com/caarlos0/env/v10"

	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/env"
)

// Config is the connection block for the Kill Bill server. The API key and
// secret are the defaults used when no tenant is selected in the session.
type Config struct {
	URL            string        `env:"KILLBILL_URL" envDefault:"http://127.0.0.1:8080"`
	Username       string        `env:"KILLBILL_USERNAME" envDefault:"admin"`
	Password       string        `env:"KILLBILL_PASSWORD" envDefault:"password"`
	APIKey         string        `env:"KILLBILL_API_KEY" envDefault:"bob"`
	APISecret      string        `env:"KILLBILL_API_SECRET" envDefault:"lazar"`
	Timeout        time.Duration `env:"KILLBILL_TIMEOUT" envDefault:"30s"`
	PluginCacheTTL time.Duration `env:"KILLBILL_PLUGIN_CACHE_TTL" envDefault:"60s"`
}

// ConfigFromEnv reads the Kill Bill block from the process environment and
// the loaded .env file.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := cenv.ParseWithOptions(&cfg, cenv.Options{Environment: env.Map()}); err != nil {
		return Config{}, fmt.Errorf("parse killbill config: %w", err)
	}
	return cfg, nil
}

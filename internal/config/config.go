// Package config holds the application configuration. The tool is a
// single-shot CLI with no config file or environment lookup: viper carries
// the built-in defaults and flag overrides layer on top.
package config

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Status   StatusConfig   `mapstructure:"status"`
	Register RegisterConfig `mapstructure:"register"`
	Output   OutputConfig   `mapstructure:"output"`
	Log      LogConfig      `mapstructure:"log"`
}

// StatusConfig configures the network status page fetch.
type StatusConfig struct {
	URL string `mapstructure:"url"`
}

// RegisterConfig configures the licence register client.
type RegisterConfig struct {
	SearchURL   string `mapstructure:"search_url"`
	LicenceURL  string `mapstructure:"licence_url"`
	SiteURL     string `mapstructure:"site_url"`
	UserAgent   string `mapstructure:"user_agent"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
	// DelayMillis is the minimum gap between register requests. The register
	// rate-limits aggressive clients; keep this at seconds-scale.
	DelayMillis int `mapstructure:"delay_millis"`
	MaxRetries  int `mapstructure:"max_retries"`
}

// Timeout returns the per-request timeout.
func (r RegisterConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutSecs) * time.Second
}

// Delay returns the politeness interval between register requests.
func (r RegisterConfig) Delay() time.Duration {
	return time.Duration(r.DelayMillis) * time.Millisecond
}

// OutputConfig configures where the artifacts are written.
type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load builds the configuration from defaults plus any bound flags.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("status.url", "https://status.vkrepeaterlink.net/nodes")
	v.SetDefault("register.search_url", "https://web.acma.gov.au/rrl/register_search.search_dispatcher")
	v.SetDefault("register.licence_url", "https://web.acma.gov.au/rrl/licence_search.licence_lookup?pLICENCE_ID=%s")
	v.SetDefault("register.site_url", "https://web.acma.gov.au/rrl/site_proc.site_lookup?pSITE_ID=%s")
	v.SetDefault("register.user_agent", "repeater-atlas/1.0 (repeater coverage mapping; abuse: ops@ozradio.example)")
	v.SetDefault("register.timeout_secs", 30)
	v.SetDefault("register.delay_millis", 2000)
	v.SetDefault("register.max_retries", 3)
	v.SetDefault("output.dir", "out")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, eris.Wrap(err, "config: bind flags")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}

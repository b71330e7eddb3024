package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Settings is the full runtime configuration. Values come from an optional
// config file and from HEALTHY_AI_* environment variables; constructed
// clients are injected from here, nothing reads configuration at use time.
type Settings struct {
	OpenAI   OpenAISettings   `mapstructure:"openai"`
	Weaviate WeaviateSettings `mapstructure:"weaviate"`
	Server   ServerSettings   `mapstructure:"server"`
	Graph    GraphSettings    `mapstructure:"graph"`
	LogLevel string           `mapstructure:"log_level"`
}

type OpenAISettings struct {
	APIKey         string  `mapstructure:"api_key"`
	Model          string  `mapstructure:"model"`
	EmbeddingModel string  `mapstructure:"embedding_model"`
	Temperature    float64 `mapstructure:"temperature"`
}

type WeaviateSettings struct {
	Host                  string `mapstructure:"host"`
	Scheme                string `mapstructure:"scheme"`
	APIKey                string `mapstructure:"api_key"`
	CrisisCollection      string `mapstructure:"crisis_collection"`
	AreaHistoryCollection string `mapstructure:"area_history_collection"`
}

type ServerSettings struct {
	Addr           string        `mapstructure:"addr"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type GraphSettings struct {
	MaxRetries int `mapstructure:"max_retries"`
	MaxSteps   int `mapstructure:"max_steps"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.embedding_model", "text-embedding-3-small")
	v.SetDefault("openai.temperature", 0.5)
	v.SetDefault("weaviate.host", "localhost:8080")
	v.SetDefault("weaviate.scheme", "http")
	v.SetDefault("weaviate.crisis_collection", "CrisisEvent")
	v.SetDefault("weaviate.area_history_collection", "AreaHistory")
	v.SetDefault("server.addr", ":8017")
	v.SetDefault("server.request_timeout", 120*time.Second)
	v.SetDefault("graph.max_retries", 2)
	v.SetDefault("graph.max_steps", 50)
	v.SetDefault("log_level", "info")
}

// Load reads settings from the given config file (optional, empty means
// search the working directory) and the environment.
func Load(configFile string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("HEALTHY_AI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only resolves keys viper already knows about. Secrets
	// have no defaults, so they need explicit bindings to be seen from the
	// environment.
	for _, key := range []string{"openai.api_key", "weaviate.api_key"} {
		if err := v.BindEnv(key); err != nil {
			return nil, errors.Wrapf(err, "bind env for %s", key)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config file %s", configFile)
		}
	} else {
		v.SetConfigName("healthy-ai")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.Wrap(err, "read config file")
			}
		}
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, errors.Wrap(err, "unmarshal settings")
	}
	return settings, nil
}

// Validate checks the settings a running server cannot do without.
func (s *Settings) Validate() error {
	if s.OpenAI.APIKey == "" {
		return errors.New("openai api key is required (HEALTHY_AI_OPENAI_API_KEY)")
	}
	if s.Weaviate.Host == "" {
		return errors.New("weaviate host is required")
	}
	if s.Graph.MaxRetries < 0 {
		return errors.New("max retries must not be negative")
	}
	return nil
}

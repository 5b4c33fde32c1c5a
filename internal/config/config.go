package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LLMConfig points at one OpenAI-compatible or Ollama endpoint.
// The API key is resolved through an environment variable so the yaml file
// never carries secrets.
type LLMConfig struct {
	Provider string `yaml:"provider"`
	BaseURL  string `yaml:"base_url"`
	Model    string `yaml:"model"`
	KeyEnv   string `yaml:"key_env"`
}

// Key resolves the API key from the configured environment variable
func (c *LLMConfig) Key() string {
	return strings.TrimSpace(os.Getenv(c.KeyEnv))
}

type ServerConfig struct {
	Addr        string   `yaml:"addr"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type ChunkingConfig struct {
	Size    int `yaml:"size"`
	Overlap int `yaml:"overlap"`
}

type RAGConfig struct {
	TopK       int `yaml:"top_k"`
	MaxHistory int `yaml:"max_history"`
}

type PostgresConfig struct {
	DSN   string `yaml:"dsn"`
	Debug bool   `yaml:"debug"`
}

// StoreConfig selects the vector index backend: "chromem" keeps the index
// in process memory, "postgres" rebuilds a pgvector table on each upload
type StoreConfig struct {
	Backend  string         `yaml:"backend"`
	Postgres PostgresConfig `yaml:"postgres"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	EmbedLLM LLMConfig      `yaml:"embed_llm"`
	ChatLLM  LLMConfig      `yaml:"chat_llm"`
	Chunking ChunkingConfig `yaml:"chunking"`
	RAG      RAGConfig      `yaml:"rag"`
	Store    StoreConfig    `yaml:"store"`
	Debug    bool           `yaml:"debug"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8000"
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{"*"}
	}
	if cfg.Chunking.Size == 0 {
		cfg.Chunking.Size = 1000
	}
	if cfg.Chunking.Overlap == 0 {
		cfg.Chunking.Overlap = 200
	}
	if cfg.RAG.TopK == 0 {
		cfg.RAG.TopK = 3
	}
	if cfg.RAG.MaxHistory == 0 {
		cfg.RAG.MaxHistory = 6
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "chromem"
	}
	if cfg.EmbedLLM.KeyEnv == "" {
		cfg.EmbedLLM.KeyEnv = "OPENAI_API_KEY"
	}
	if cfg.ChatLLM.KeyEnv == "" {
		cfg.ChatLLM.KeyEnv = "OPENAI_API_KEY"
	}
}

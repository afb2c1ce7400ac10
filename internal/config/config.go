package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LLMConfig configures one OpenAI-compatible endpoint.
type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	Key     string `yaml:"key"`
	Model   string `yaml:"model"`
}

// RAGConfig configures chunking and retrieval.
type RAGConfig struct {
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`
	TopK         int `yaml:"top_k"`
}

// ServerConfig configures the HTTP transport.
type ServerConfig struct {
	Addr          string `yaml:"addr"`
	MaxUploadSize int64  `yaml:"max_upload_size"`
}

type Config struct {
	Server   ServerConfig `yaml:"server"`
	EmbedLLM LLMConfig    `yaml:"embed_llm"`
	InferLLM LLMConfig    `yaml:"infer_llm"`
	RAG      RAGConfig    `yaml:"rag"`
}

// LoadConfig reads the YAML config and fills defaults for unset fields. A
// missing file yields pure defaults. API keys left empty in the file are
// resolved from OPENAI_API_KEY; a .env file in the working directory is
// honored.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		if cfg.EmbedLLM.Key == "" {
			cfg.EmbedLLM.Key = key
		}
		if cfg.InferLLM.Key == "" {
			cfg.InferLLM.Key = key
		}
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8000"
	}
	if cfg.Server.MaxUploadSize == 0 {
		cfg.Server.MaxUploadSize = 5 << 20
	}
	if cfg.EmbedLLM.BaseURL == "" {
		cfg.EmbedLLM.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.EmbedLLM.Model == "" {
		cfg.EmbedLLM.Model = "text-embedding-3-small"
	}
	if cfg.InferLLM.BaseURL == "" {
		cfg.InferLLM.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.InferLLM.Model == "" {
		cfg.InferLLM.Model = "gpt-4o-mini"
	}
	if cfg.RAG.ChunkSize == 0 {
		cfg.RAG.ChunkSize = 1000
	}
	if cfg.RAG.ChunkOverlap == 0 {
		cfg.RAG.ChunkOverlap = 100
	}
	if cfg.RAG.TopK == 0 {
		cfg.RAG.TopK = 4
	}
}

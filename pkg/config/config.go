package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Server    ServerConfig
	GigaChat  GigaChatConfig
	Zendesk   ZendeskConfig
	Graph     GraphConfig
	Knowledge KnowledgeConfig
	Logger    LoggerConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	APIKey       string // optional static key; empty disables the gate
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type GigaChatConfig struct {
	APIKey             string
	Scope              string
	ModelClassify      string
	ModelRespond       string
	MaxTokens          int
	InsecureSkipVerify bool
}

type ZendeskConfig struct {
	Subdomain string
	Email     string
	APIToken  string
	DemoMode  bool
	Timeout   time.Duration
}

type GraphConfig struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	Mailbox      string
	Scope        string
	DemoMode     bool
	Timeout      time.Duration
}

type KnowledgeConfig struct {
	TenantFile string // empty means the embedded default tenant
}

func Load() (*Config, error) {
	// Try to load .env from the current directory or the project root.
	// If none is found, plain environment variables still apply.
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	maxTokens, _ := strconv.Atoi(getEnv("GIGACHAT_MAX_TOKENS", "1024"))
	zendeskTimeout, _ := strconv.Atoi(getEnv("ZENDESK_TIMEOUT", "30"))
	graphTimeout, _ := strconv.Atoi(getEnv("GRAPH_TIMEOUT", "30"))
	insecureSkipVerify := getEnv("GIGACHAT_INSECURE_SKIP_VERIFY", "false") == "true"

	return &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "CS Agent"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			APIKey:       getEnv("SERVER_API_KEY", ""),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		GigaChat: GigaChatConfig{
			APIKey:             getEnv("GIGACHAT_API_KEY", ""),
			Scope:              getEnv("GIGACHAT_SCOPE", "GIGACHAT_API_PERS"),
			ModelClassify:      getEnv("GIGACHAT_MODEL_CLASSIFY", "GigaChat"),
			ModelRespond:       getEnv("GIGACHAT_MODEL_RESPOND", "GigaChat"),
			MaxTokens:          maxTokens,
			InsecureSkipVerify: insecureSkipVerify,
		},
		Zendesk: ZendeskConfig{
			Subdomain: getEnv("ZENDESK_SUBDOMAIN", "demo"),
			Email:     getEnv("ZENDESK_EMAIL", "demo@conveyance365.com"),
			APIToken:  getEnv("ZENDESK_API_TOKEN", ""),
			DemoMode:  getEnv("ZENDESK_DEMO_MODE", "true") == "true",
			Timeout:   time.Duration(zendeskTimeout) * time.Second,
		},
		Graph: GraphConfig{
			TenantID:     getEnv("MS_TENANT_ID", ""),
			ClientID:     getEnv("MS_CLIENT_ID", ""),
			ClientSecret: getEnv("MS_CLIENT_SECRET", ""),
			Mailbox:      getEnv("MS_MAILBOX", "demo@conveyance365.com"),
			Scope:        getEnv("MS_GRAPH_SCOPE", "https://graph.microsoft.com/.default"),
			DemoMode:     getEnv("GRAPH_DEMO_MODE", "true") == "true",
			Timeout:      time.Duration(graphTimeout) * time.Second,
		},
		Knowledge: KnowledgeConfig{
			TenantFile: getEnv("KNOWLEDGE_TENANT_FILE", ""),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

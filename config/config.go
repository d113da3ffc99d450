package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Port string `mapstructure:"port"`

	// Completion API
	AIProvider    string `mapstructure:"ai_provider"`
	AIEndpoint    string `mapstructure:"ai_endpoint"`
	Model         string `mapstructure:"model"`
	UpstageAPIKey string `mapstructure:"UPSTAGE_API_KEY"`
	GeminiAPIKeys string `mapstructure:"GEMINI_API_KEYS"`

	// Document parsing API
	ParseEndpoint string `mapstructure:"parse_endpoint"`
	ParseModel    string `mapstructure:"parse_model"`

	// Object store
	AWSRegion    string `mapstructure:"aws_region"`
	SourceBucket string `mapstructure:"source_bucket"`
	TargetBucket string `mapstructure:"target_bucket"`

	// Conversation store
	MongoURI               string `mapstructure:"MONGODB_URI"`
	MongoDatabase          string `mapstructure:"mongo_database"`
	ConversationCollection string `mapstructure:"conversation_collection"`

	// Local scratch space for downloaded files
	UploadDir string `mapstructure:"upload_dir"`
}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set up Viper to read from config file
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetDefault("port", "8080")
	v.SetDefault("ai_provider", "solar")
	v.SetDefault("ai_endpoint", "https://api.upstage.ai/v1")
	v.SetDefault("model", "solar-pro")
	v.SetDefault("parse_endpoint", "https://api.upstage.ai/v1/document-digitization")
	v.SetDefault("parse_model", "document-parse")
	v.SetDefault("aws_region", "us-east-1")
	v.SetDefault("source_bucket", "ai-tutor-source-docs")
	v.SetDefault("target_bucket", "ai-tutor-target-docs")
	v.SetDefault("mongo_database", "ai_tutor")
	v.SetDefault("conversation_collection", "conversations")
	v.SetDefault("upload_dir", "/tmp/ai-tutor")

	// Set up Viper to read from environment variables
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Bind environment variables
	v.BindEnv("UPSTAGE_API_KEY")
	v.BindEnv("GEMINI_API_KEYS")
	v.BindEnv("MONGODB_URI")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

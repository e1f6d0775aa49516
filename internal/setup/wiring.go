package setup

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/chatre7/AI-Guardrail/internal/chat"
	"github.com/chatre7/AI-Guardrail/internal/config"
	"github.com/chatre7/AI-Guardrail/internal/guardrail"
	"github.com/chatre7/AI-Guardrail/internal/llm"
	"github.com/chatre7/AI-Guardrail/internal/llm/bedrock"
	"github.com/chatre7/AI-Guardrail/internal/llm/gpt"
	"github.com/chatre7/AI-Guardrail/internal/llm/ollama"
	red "github.com/chatre7/AI-Guardrail/internal/redis"
	"github.com/chatre7/AI-Guardrail/internal/violations"
	"github.com/rs/zerolog"
)

type Config struct {
	LLMProvider       string
	AWSRegion         string
	ChatModelID       string
	JudgeModelID      string
	OpenAIKey         string
	OllamaHost        string
	APIPort           string
	MaxPromptLength   int
	ViolationsLogPath string
	RedisAddr         string
	RedisPassword     string
	ViolationsStream  string
	LogLevel          string
}

type Dependencies struct {
	Orchestrator *chat.Orchestrator
	Screener     *guardrail.Screener
	Recorder     violations.Recorder
	Policy       *config.Policy
	Logger       *zerolog.Logger

	fileRecorder *violations.FileRecorder
}

func LoadConfig() *Config {
	return &Config{
		LLMProvider:       getEnv("LLM_PROVIDER", "bedrock"),
		AWSRegion:         getEnv("AWS_REGION", "us-east-1"),
		ChatModelID:       getEnv("CHAT_MODEL_ID", ""),
		JudgeModelID:      getEnv("JUDGE_MODEL_ID", ""),
		OpenAIKey:         getEnv("OPEN_AI_KEY", ""),
		OllamaHost:        getEnv("OLLAMA_HOST", "http://localhost:11434"),
		APIPort:           getEnv("API_PORT", "8080"),
		MaxPromptLength:   getEnvInt("MAX_PROMPT_LENGTH", 1000),
		ViolationsLogPath: getEnv("VIOLATIONS_LOG_PATH", "violations.log"),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		ViolationsStream:  getEnv("VIOLATIONS_STREAM", "violation-events"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}
}

func Wire(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*Dependencies, error) {
	policy, err := config.LoadPolicy()
	if err != nil {
		return nil, fmt.Errorf("failed to load guardrail policy: %w", err)
	}

	chatClient, err := createLLMClient(ctx, cfg.LLMProvider, cfg, cfg.ChatModelID)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat LLM client: %w", err)
	}

	judgeClient, err := createLLMClient(ctx, cfg.LLMProvider, cfg, cfg.JudgeModelID)
	if err != nil {
		return nil, fmt.Errorf("failed to create judge LLM client: %w", err)
	}

	// One gate for all judge calls, process-wide
	gate := guardrail.NewGate(policy.MaxConcurrentJudges)
	judge := guardrail.NewJudge(judgeClient, gate, policy.JudgeInstruction, policy.JudgeTimeout(), logger)
	keywords := guardrail.NewKeywordFilter(policy.ForbiddenKeywords)
	screener := guardrail.NewScreener(keywords, judge)

	fileRecorder, err := violations.NewFileRecorder(cfg.ViolationsLogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open violations log: %w", err)
	}
	recorder := violations.Fanout{fileRecorder}

	if cfg.RedisAddr != "" {
		redisClient, err := red.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, 3, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("Redis unavailable, violation stream disabled")
		} else {
			recorder = append(recorder, violations.NewStreamRecorder(redisClient, cfg.ViolationsStream, logger))
		}
	}

	orchestrator := chat.NewOrchestrator(chatClient, cfg.ChatModelID, screener, judge, policy, recorder, logger)

	return &Dependencies{
		Orchestrator: orchestrator,
		Screener:     screener,
		Recorder:     recorder,
		Policy:       policy,
		Logger:       logger,
		fileRecorder: fileRecorder,
	}, nil
}

func (d *Dependencies) Close() {
	if d.fileRecorder != nil {
		if err := d.fileRecorder.Close(); err != nil {
			d.Logger.Warn().Err(err).Msg("Failed to close violations log")
		}
	}
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		value = defaultValue
	}

	return value
}

func createLLMClient(ctx context.Context, provider string, cfg *Config, modelID string) (llm.Client, error) {
	switch provider {
	case "openai":
		return gpt.NewClient(cfg.OpenAIKey, modelID)
	case "ollama":
		return ollama.NewClient(cfg.OllamaHost, modelID)
	case "bedrock":
		return bedrock.NewClient(ctx, cfg.AWSRegion, modelID)
	default:
		return bedrock.NewClient(ctx, cfg.AWSRegion, modelID)
	}
}

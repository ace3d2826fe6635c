package server

import (
	"fmt"

	"github.com/planetdetroit/civic/internal/util"
	"github.com/planetdetroit/civic/pkg/ai"
	aai "github.com/planetdetroit/civic/pkg/ai/anthropic"
	oai "github.com/planetdetroit/civic/pkg/ai/ollama"
	gai "github.com/planetdetroit/civic/pkg/ai/openai"
)

const defaultEmbedModel = "text-embedding-3-small"

// newChatClient builds the chat backend named by AI_ADAPTER, wrapped with
// AI_RETRIES extra attempts per call.
func newChatClient() (ai.ChatClient, error) {
	var client ai.ChatClient

	switch adapter := util.GetEnvString("AI_ADAPTER", "anthropic"); adapter {
	case "anthropic":
		key := util.GetEnv("AI_CHAT_KEY")
		if key == "" {
			return nil, fmt.Errorf("AI_CHAT_KEY is required for the anthropic adapter")
		}
		client = aai.NewClient(aai.NewClientParams{
			Model:   util.GetEnv("AI_CHAT_MODEL"),
			APIKey:  key,
			BaseURL: util.GetEnv("AI_CHAT_URL"),
		})
	case "openai":
		key := util.GetEnv("AI_CHAT_KEY")
		if key == "" {
			return nil, fmt.Errorf("AI_CHAT_KEY is required for the openai adapter")
		}
		client = gai.NewClient(gai.NewClientParams{
			ChatModel: util.GetEnvString("AI_CHAT_MODEL", "gpt-4o-mini"),
			ChatURL:   util.GetEnv("AI_CHAT_URL"),
			ChatKey:   key,
		})
	case "ollama":
		c, err := oai.NewClient(oai.NewClientParams{
			ChatModel: util.GetEnv("AI_CHAT_MODEL"),
			BaseURL:   util.GetEnv("AI_CHAT_URL"),
			ApiKey:    util.GetEnv("AI_CHAT_KEY"),

			MaxConcurrentRequests: int64(util.GetEnvNumeric("AI_PARALLEL_REQ", 15)),
		})
		if err != nil {
			return nil, err
		}
		client = c
	default:
		return nil, fmt.Errorf("unknown AI_ADAPTER %q", adapter)
	}

	retries := int(util.GetEnvNumeric("AI_RETRIES", 1))
	return ai.WithRetries(client, retries+1), nil
}

// newEmbedder builds the embedding backend named by AI_EMBED_ADAPTER.
func newEmbedder() (ai.Embedder, error) {
	model := util.GetEnvString("AI_EMBED_MODEL", defaultEmbedModel)
	dim := int(util.GetEnvNumeric("AI_EMBED_DIM", 1536))

	switch adapter := util.GetEnvString("AI_EMBED_ADAPTER", "openai"); adapter {
	case "openai":
		key := util.GetEnv("AI_EMBED_KEY")
		if key == "" {
			return nil, fmt.Errorf("AI_EMBED_KEY is required for the openai embedding adapter")
		}
		return gai.NewClient(gai.NewClientParams{
			EmbeddingModel: model,
			EmbeddingDim:   dim,
			EmbeddingURL:   util.GetEnv("AI_EMBED_URL"),
			EmbeddingKey:   key,
		}), nil
	case "ollama":
		return oai.NewClient(oai.NewClientParams{
			EmbeddingModel: model,
			EmbeddingDim:   dim,
			BaseURL:        util.GetEnv("AI_EMBED_URL"),
			ApiKey:         util.GetEnv("AI_EMBED_KEY"),

			MaxConcurrentRequests: int64(util.GetEnvNumeric("AI_PARALLEL_REQ", 15)),
		})
	default:
		return nil, fmt.Errorf("unknown AI_EMBED_ADAPTER %q", adapter)
	}
}

package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
)

// text-embedding-3-small
const defaultDimensions = 1536

// GenerateEmbedding creates a vector embedding for the given input text
// using the configured embedding model. Blank input yields a zero vector
// without a request.
func (c *Client) GenerateEmbedding(ctx context.Context, input []byte) ([]float32, error) {
	if len(strings.TrimSpace(string(input))) == 0 {
		return make([]float32, c.embeddingDim), nil
	}
	if c.EmbeddingClient == nil {
		return nil, errors.New("openai embedding client not configured")
	}

	body := openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(string(input))},
		Model: c.embeddingModel,
	}
	if c.embeddingDim != defaultDimensions {
		body.Dimensions = openai.Int(int64(c.embeddingDim))
	}

	response, err := c.EmbeddingClient.Embeddings.New(ctx, body)
	if err != nil {
		return nil, err
	}
	if len(response.Data) != 1 {
		return nil, fmt.Errorf("unexpected embedding result size: got %d want 1", len(response.Data))
	}

	return fitDimensions(response.Data[0].Embedding, c.embeddingDim), nil
}

// fitDimensions converts to float32 and truncates or zero-pads to dim.
func fitDimensions(values []float64, dim int) []float32 {
	vec := make([]float32, dim)
	for i, v := range values {
		if i >= dim {
			break
		}
		vec[i] = float32(v)
	}
	return vec
}

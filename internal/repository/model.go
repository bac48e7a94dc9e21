package repository

import (
	"context"

	"github.com/sakabe/article-pipeline/internal/hub"
	"github.com/sakabe/article-pipeline/internal/summarizer"
)

// ModelRepository loads hosted summarization models. It satisfies the
// summarizer's provider contract.
type ModelRepository interface {
	Load(ctx context.Context, name string) (summarizer.Handle, error)
}

type modelRepository struct {
	client *hub.Client
}

func NewModelRepository(client *hub.Client) ModelRepository {
	return &modelRepository{client: client}
}

func (r *modelRepository) Load(ctx context.Context, name string) (summarizer.Handle, error) {
	model, err := r.client.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	return model, nil
}

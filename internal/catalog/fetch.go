package catalog

import (
	"context"
	"time"

	"dropdex/internal/config"
	"dropdex/internal/storage"
)

// FetchService pulls raw datasets into the local sqlite cache so resolution
// runs are reproducible offline.
type FetchService struct {
	db     *storage.DB
	client *Client
	cfg    config.Config
}

func NewFetchService(db *storage.DB, cfg config.Config) *FetchService {
	return &FetchService{db: db, client: NewClient(cfg), cfg: cfg}
}

// FetchAll retrieves every dataset in DatasetNames, or just the named ones
// when names is non-empty. Any fetch failure aborts the whole sync before the
// cache is touched: bodies are held in memory until every fetch succeeded and
// then written in one transaction, so the cache never holds a partial mix of
// old and new datasets.
func (s *FetchService) FetchAll(ctx context.Context, names []string) (int, error) {
	if len(names) == 0 {
		names = DatasetNames
	}

	batch := make([]storage.Dataset, 0, len(names))
	for _, name := range names {
		body, sourceURL, err := s.client.FetchDataset(ctx, name)
		if err != nil {
			return 0, err
		}
		batch = append(batch, storage.Dataset{Name: name, Body: body, SourceURL: sourceURL})
	}

	if err := s.db.PutDatasets(batch); err != nil {
		return 0, err
	}

	_ = s.db.SetMetadata("datasets.last_fetch", time.Now().UTC().Format(time.RFC3339))
	return len(names), nil
}

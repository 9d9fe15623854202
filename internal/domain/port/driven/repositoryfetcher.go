package driven

import (
	"context"

	"github.com/ericfisherdev/repocard/internal/domain/model"
)

// RepositoryFetcher defines the driven port for reading repository data from GitHub.
// FetchRepository returns an error wrapping model.ErrNotFound when the metadata
// request answers with a non-success status, and model.ErrTransport for network
// or decode failures. Contributor lookup failures never surface; the count is 0.
type RepositoryFetcher interface {
	FetchRepository(ctx context.Context, ref model.RepositoryReference) (model.RepositoryRecord, error)
}

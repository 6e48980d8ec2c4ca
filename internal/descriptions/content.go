package descriptions

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/gnosis-pm/pm-indexer/internal/adapter"
	"github.com/gnosis-pm/pm-indexer/internal/logger"
)

// ContentStore defines the interface for fetching content-addressed documents
type ContentStore interface {
	// Fetch retrieves the raw document stored under the given content hash
	Fetch(ctx context.Context, contentHash string) ([]byte, error)
}

// IPFSConfig holds configuration for the IPFS content store
type IPFSConfig struct {
	// Gateways is the list of IPFS gateways to try
	Gateways []string
}

type ipfsContentStore struct {
	httpClient adapter.HTTPClient
	config     *IPFSConfig
}

// NewIPFSContentStore creates a content store backed by public IPFS gateways
func NewIPFSContentStore(httpClient adapter.HTTPClient, config *IPFSConfig) ContentStore {
	return &ipfsContentStore{
		httpClient: httpClient,
		config:     config,
	}
}

// Fetch retrieves the document from the first gateway that serves the hash.
// All gateways are tried in parallel.
func (s *ipfsContentStore) Fetch(ctx context.Context, contentHash string) ([]byte, error) {
	if len(s.config.Gateways) == 0 {
		return nil, fmt.Errorf("no IPFS gateways configured")
	}

	logger.InfoCtx(ctx, "Fetching IPFS content",
		zap.String("contentHash", contentHash),
		zap.Int("gateways", len(s.config.Gateways)))

	type result struct {
		data []byte
		err  error
	}

	resultCh := make(chan result, len(s.config.Gateways))
	var wg sync.WaitGroup

	for _, gateway := range s.config.Gateways {
		wg.Add(1)
		go func(gw string) {
			defer wg.Done()

			url := fmt.Sprintf("%s/ipfs/%s", gw, contentHash)
			var raw json.RawMessage
			if err := s.httpClient.Get(ctx, url, &raw); err != nil {
				resultCh <- result{err: err}
				return
			}
			resultCh <- result{data: raw}
		}(gateway)
	}

	// Wait for all goroutines in a separate goroutine
	go func() {
		wg.Wait()
		close(resultCh)
	}()

	// Return the first successful result
	for res := range resultCh {
		if res.err == nil {
			logger.InfoCtx(ctx, "Fetched IPFS content", zap.String("contentHash", contentHash))
			return res.data, nil
		}
	}

	return nil, fmt.Errorf("no working IPFS gateway found for hash: %s", contentHash)
}

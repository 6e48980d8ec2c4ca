package descriptions

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gnosis-pm/pm-indexer/internal/domain"
	"github.com/gnosis-pm/pm-indexer/internal/logger"
	"github.com/gnosis-pm/pm-indexer/internal/store"
	"github.com/gnosis-pm/pm-indexer/internal/store/schema"
)

// Resolver defines the interface for resolving event description hashes into
// persisted description rows
type Resolver interface {
	// Resolve returns the description stored under contentHash, fetching and
	// persisting it on first sight. An unreachable hash or a document that
	// fails shape validation resolves to domain.ErrNotFound, leaving the hash
	// resolvable by a later redelivery.
	Resolve(ctx context.Context, contentHash string) (*schema.EventDescription, error)
}

type resolver struct {
	store   store.Store
	content ContentStore
}

// NewResolver creates a description resolver on top of a content store
func NewResolver(s store.Store, content ContentStore) Resolver {
	return &resolver{
		store:   s,
		content: content,
	}
}

// descriptionDocument is the wire shape of an event description. Categorical
// descriptions carry outcomes; scalar descriptions carry unit and decimals.
type descriptionDocument struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	ResolutionDate string   `json:"resolutionDate"`
	Outcomes       []string `json:"outcomes"`
	Unit           *string  `json:"unit"`
	Decimals       *int     `json:"decimals"`
}

func (r *resolver) Resolve(ctx context.Context, contentHash string) (*schema.EventDescription, error) {
	// Already resolved hashes are served from the database
	existing, err := r.store.GetEventDescriptionByHash(ctx, contentHash)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	raw, err := r.content.Fetch(ctx, contentHash)
	if err != nil {
		logger.WarnCtx(ctx, "description hash unresolvable",
			zap.String("contentHash", contentHash), zap.Error(err))
		return nil, fmt.Errorf("description %s unresolvable: %w", contentHash, domain.ErrNotFound)
	}

	input, err := validateDocument(contentHash, raw)
	if err != nil {
		logger.WarnCtx(ctx, "description document rejected",
			zap.String("contentHash", contentHash), zap.Error(err))
		return nil, fmt.Errorf("description %s invalid: %w", contentHash, domain.ErrNotFound)
	}

	return r.store.CreateEventDescription(ctx, *input)
}

// validateDocument checks the shape of a fetched description document and
// classifies it as categorical or scalar.
func validateDocument(contentHash string, raw []byte) (*store.CreateEventDescriptionInput, error) {
	var doc descriptionDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("document is not valid JSON: %w", err)
	}

	if doc.Title == "" {
		return nil, fmt.Errorf("document has no title")
	}

	resolutionDate, err := parseResolutionDate(doc.ResolutionDate)
	if err != nil {
		return nil, err
	}

	hasOutcomes := len(doc.Outcomes) > 0
	hasScalarFields := doc.Unit != nil || doc.Decimals != nil

	input := &store.CreateEventDescriptionInput{
		ContentHash:    contentHash,
		Title:          doc.Title,
		Description:    doc.Description,
		ResolutionDate: resolutionDate,
		Raw:            raw,
	}

	switch {
	case hasOutcomes && hasScalarFields:
		return nil, fmt.Errorf("document mixes categorical and scalar fields")
	case hasOutcomes:
		if len(doc.Outcomes) < 2 {
			return nil, fmt.Errorf("categorical document needs at least 2 outcomes, got %d", len(doc.Outcomes))
		}
		input.Type = domain.DescriptionCategorical
		input.Outcomes = doc.Outcomes
	case hasScalarFields:
		if doc.Unit == nil || *doc.Unit == "" {
			return nil, fmt.Errorf("scalar document has no unit")
		}
		if doc.Decimals == nil || *doc.Decimals < 0 {
			return nil, fmt.Errorf("scalar document has no valid decimals")
		}
		input.Type = domain.DescriptionScalar
		input.Unit = doc.Unit
		input.Decimals = doc.Decimals
	default:
		return nil, fmt.Errorf("document is neither categorical nor scalar")
	}

	return input, nil
}

// parseResolutionDate accepts RFC 3339 timestamps and bare dates.
func parseResolutionDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("document has no resolutionDate")
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid resolutionDate %q", s)
}

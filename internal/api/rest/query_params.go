package rest

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gnosis-pm/pm-indexer/internal/domain"
	"github.com/gnosis-pm/pm-indexer/internal/store"
)

const MAX_PAGE_SIZE = 100

// ListEntitiesQueryParams holds the shared query parameters of the entity
// listing endpoints (oracles, events, markets)
type ListEntitiesQueryParams struct {
	// Filters
	Creator       string     `form:"creator"`
	CreatedAfter  *time.Time `form:"created_after" time_format:"2006-01-02T15:04:05Z07:00"`
	CreatedBefore *time.Time `form:"created_before" time_format:"2006-01-02T15:04:05Z07:00"`

	// Pagination
	Limit  int    `form:"limit,default=50"`
	Offset uint64 `form:"offset,default=0"`
}

// ParseListEntitiesQuery parses and validates the shared listing parameters
func ParseListEntitiesQuery(c *gin.Context) (*ListEntitiesQueryParams, error) {
	var params ListEntitiesQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	if params.Creator != "" {
		if !domain.ValidAddress(params.Creator) {
			return nil, fmt.Errorf("invalid creator address: %s", params.Creator)
		}
		params.Creator = domain.NormalizeAddress(params.Creator)
	}

	if params.Limit < 0 {
		return nil, fmt.Errorf("limit must not be negative")
	}

	// Cap limit
	if params.Limit > MAX_PAGE_SIZE {
		params.Limit = MAX_PAGE_SIZE
	}

	return &params, nil
}

// Filter converts the parsed parameters to a store filter
func (p *ListEntitiesQueryParams) Filter() store.EntityFilter {
	return store.EntityFilter{
		Creator:       p.Creator,
		CreatedAfter:  p.CreatedAfter,
		CreatedBefore: p.CreatedBefore,
		Limit:         p.Limit,
		Offset:        p.Offset,
	}
}

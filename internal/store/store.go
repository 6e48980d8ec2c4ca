package store

import (
	"context"
	"math/big"
	"time"

	"github.com/gnosis-pm/pm-indexer/internal/domain"
	"github.com/gnosis-pm/pm-indexer/internal/store/schema"
)

// EntityMeta carries the fields shared by every created entity, copied from
// the creation event and immutable afterwards.
type EntityMeta struct {
	Address        string
	FactoryAddress string
	Creator        string
	CreationBlock  uint64
	CreationTime   time.Time
}

// CreateEventDescriptionInput holds a shape-validated description document.
type CreateEventDescriptionInput struct {
	ContentHash    string
	Type           domain.DescriptionType
	Title          string
	Description    string
	ResolutionDate time.Time
	Outcomes       []string
	Unit           *string
	Decimals       *int
	Raw            []byte
}

// CreateCentralizedOracleInput holds a validated centralized oracle creation.
type CreateCentralizedOracleInput struct {
	EntityMeta
	DescriptionID int64
}

// CreateUltimateOracleInput holds a validated ultimate oracle creation.
type CreateUltimateOracleInput struct {
	EntityMeta
	ForwardedOracle   *string
	CollateralToken   string
	SpreadMultiplier  *big.Int
	ChallengePeriod   uint64
	ChallengeAmount   *big.Int
	FrontRunnerPeriod uint64
}

// CreateCategoricalEventInput holds a validated categorical event creation.
type CreateCategoricalEventInput struct {
	EntityMeta
	CollateralToken string
	OracleAddress   string
	OutcomeCount    int
}

// CreateScalarEventInput holds a validated scalar event creation.
type CreateScalarEventInput struct {
	EntityMeta
	CollateralToken string
	OracleAddress   string
	LowerBound      *big.Int
	UpperBound      *big.Int
}

// CreateMarketInput holds a validated market creation.
type CreateMarketInput struct {
	EntityMeta
	OracleAddress string
	EventAddress  string
	MarketMaker   string
	Fee           uint64
}

// BindOutcomeTokenInput binds a deployed token contract address to the
// outcome token row created alongside its event.
type BindOutcomeTokenInput struct {
	EventAddress string
	Index        int
	TokenAddress string
}

// OracleRecord is a variant-agnostic projection over the two oracle tables,
// used for cross-entity reference resolution.
type OracleRecord struct {
	Kind    domain.OracleKind
	Address string
	Creator string
	// Description is the resolved event description of a centralized oracle,
	// nil for ultimate oracles
	Description *schema.EventDescription
}

// EventRecord is a variant-agnostic projection over the two event tables.
type EventRecord struct {
	Kind            domain.EventKind
	Address         string
	FactoryAddress  string
	Creator         string
	CreationBlock   uint64
	CreationTime    time.Time
	CollateralToken string
	OracleAddress   string
	// OutcomeCount is set for categorical events
	OutcomeCount int
	// LowerBound and UpperBound are set for scalar events
	LowerBound string
	UpperBound string
}

// EntityFilter narrows entity listings for the query layer.
type EntityFilter struct {
	Creator       string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	Limit         int
	Offset        uint64
}

// Store defines the interface for database operations
type Store interface {
	// GetEventDescriptionByHash retrieves a description by its content hash
	GetEventDescriptionByHash(ctx context.Context, contentHash string) (*schema.EventDescription, error)
	// CreateEventDescription persists a description; resolving the same hash
	// twice returns the already persisted row, never a duplicate
	CreateEventDescription(ctx context.Context, input CreateEventDescriptionInput) (*schema.EventDescription, error)

	// GetCentralizedOracleByAddress retrieves a centralized oracle by address
	GetCentralizedOracleByAddress(ctx context.Context, address string) (*schema.CentralizedOracle, error)
	// GetUltimateOracleByAddress retrieves an ultimate oracle by address
	GetUltimateOracleByAddress(ctx context.Context, address string) (*schema.UltimateOracle, error)
	// GetOracleByAddress retrieves an oracle of either variant by address
	GetOracleByAddress(ctx context.Context, address string) (*OracleRecord, error)
	// GetEventByAddress retrieves an event of either variant by address
	GetEventByAddress(ctx context.Context, address string) (*EventRecord, error)
	// GetMarketByAddress retrieves a market by address
	GetMarketByAddress(ctx context.Context, address string) (*schema.Market, error)
	// GetOutcomeTokenByAddress retrieves an outcome token by its bound address
	GetOutcomeTokenByAddress(ctx context.Context, address string) (*schema.OutcomeToken, error)
	// GetOutcomeTokensByEvent retrieves an event's outcome tokens ordered by index
	GetOutcomeTokensByEvent(ctx context.Context, eventAddress string) ([]schema.OutcomeToken, error)
	// GetBalancesByToken retrieves every balance row of an outcome token
	GetBalancesByToken(ctx context.Context, tokenAddress string) ([]schema.OutcomeTokenBalance, error)
	// GetBalancesByOwner retrieves an owner's balances across all outcome tokens
	GetBalancesByOwner(ctx context.Context, ownerAddress string) ([]schema.OutcomeTokenBalance, error)

	// ListCentralizedOracles lists centralized oracles matching the filter
	ListCentralizedOracles(ctx context.Context, filter EntityFilter) ([]schema.CentralizedOracle, uint64, error)
	// ListUltimateOracles lists ultimate oracles matching the filter
	ListUltimateOracles(ctx context.Context, filter EntityFilter) ([]schema.UltimateOracle, uint64, error)
	// ListEvents lists events of both variants matching the filter
	ListEvents(ctx context.Context, filter EntityFilter) ([]EventRecord, uint64, error)
	// ListMarkets lists markets matching the filter
	ListMarkets(ctx context.Context, filter EntityFilter) ([]schema.Market, uint64, error)

	// CreateCentralizedOracle persists a centralized oracle, failing with
	// domain.ErrConflict when the address already exists
	CreateCentralizedOracle(ctx context.Context, input CreateCentralizedOracleInput) error
	// CreateUltimateOracle persists an ultimate oracle
	CreateUltimateOracle(ctx context.Context, input CreateUltimateOracleInput) error
	// CreateCategoricalEvent persists a categorical event together with one
	// zero-supply outcome token per outcome index
	CreateCategoricalEvent(ctx context.Context, input CreateCategoricalEventInput) error
	// CreateScalarEvent persists a scalar event together with its short and
	// long zero-supply outcome tokens
	CreateScalarEvent(ctx context.Context, input CreateScalarEventInput) error
	// CreateMarket persists a market
	CreateMarket(ctx context.Context, input CreateMarketInput) error
	// BindOutcomeTokenAddress sets the contract address of an outcome token
	// row created alongside its event
	BindOutcomeTokenAddress(ctx context.Context, input BindOutcomeTokenInput) error

	// IssueOutcomeTokens credits an owner and grows total supply by amount
	IssueOutcomeTokens(ctx context.Context, tokenAddress, owner string, amount *big.Int) error
	// RevokeOutcomeTokens debits an owner and shrinks total supply by amount,
	// failing with domain.ErrInsufficientBalance when the balance is short
	RevokeOutcomeTokens(ctx context.Context, tokenAddress, owner string, amount *big.Int) error
	// TransferOutcomeTokens moves amount between owners, leaving total supply
	// unchanged; a self-transfer is a net no-op
	TransferOutcomeTokens(ctx context.Context, tokenAddress, from, to string, amount *big.Int) error
}

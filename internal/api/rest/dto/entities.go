package dto

import (
	"encoding/json"
	"time"

	"github.com/gnosis-pm/pm-indexer/internal/domain"
	"github.com/gnosis-pm/pm-indexer/internal/store"
	"github.com/gnosis-pm/pm-indexer/internal/store/schema"
)

// EventDescriptionResponse represents a resolved event description document
type EventDescriptionResponse struct {
	ContentHash    string                 `json:"content_hash"`
	Type           domain.DescriptionType `json:"type"`
	Title          string                 `json:"title"`
	Description    string                 `json:"description,omitempty"`
	ResolutionDate time.Time              `json:"resolution_date"`
	Outcomes       json.RawMessage        `json:"outcomes,omitempty"`
	Unit           *string                `json:"unit,omitempty"`
	Decimals       *int                   `json:"decimals,omitempty"`
}

// CentralizedOracleResponse represents a centralized oracle
type CentralizedOracleResponse struct {
	Kind           domain.OracleKind         `json:"kind"`
	Address        string                    `json:"address"`
	FactoryAddress string                    `json:"factory_address"`
	Creator        string                    `json:"creator"`
	CreationBlock  uint64                    `json:"creation_block"`
	CreationTime   time.Time                 `json:"creation_time"`
	Description    *EventDescriptionResponse `json:"description,omitempty"`
}

// UltimateOracleResponse represents an ultimate oracle
type UltimateOracleResponse struct {
	Kind              domain.OracleKind `json:"kind"`
	Address           string            `json:"address"`
	FactoryAddress    string            `json:"factory_address"`
	Creator           string            `json:"creator"`
	CreationBlock     uint64            `json:"creation_block"`
	CreationTime      time.Time         `json:"creation_time"`
	ForwardedOracle   *string           `json:"forwarded_oracle,omitempty"`
	CollateralToken   string            `json:"collateral_token"`
	SpreadMultiplier  string            `json:"spread_multiplier"`
	ChallengePeriod   uint64            `json:"challenge_period"`
	ChallengeAmount   string            `json:"challenge_amount"`
	FrontRunnerPeriod uint64            `json:"front_runner_period"`
}

// EventResponse represents an event of either variant with optional
// outcome token expansion
type EventResponse struct {
	Kind            domain.EventKind `json:"kind"`
	Address         string           `json:"address"`
	FactoryAddress  string           `json:"factory_address"`
	Creator         string           `json:"creator"`
	CreationBlock   uint64           `json:"creation_block"`
	CreationTime    time.Time        `json:"creation_time"`
	CollateralToken string           `json:"collateral_token"`
	OracleAddress   string           `json:"oracle_address"`
	OutcomeCount    int              `json:"outcome_count"`
	LowerBound      string           `json:"lower_bound,omitempty"`
	UpperBound      string           `json:"upper_bound,omitempty"`

	// Expansions
	OutcomeTokens []OutcomeTokenResponse `json:"outcome_tokens,omitempty"`
}

// MarketResponse represents a market
type MarketResponse struct {
	Address        string    `json:"address"`
	FactoryAddress string    `json:"factory_address"`
	Creator        string    `json:"creator"`
	CreationBlock  uint64    `json:"creation_block"`
	CreationTime   time.Time `json:"creation_time"`
	OracleAddress  string    `json:"oracle_address"`
	EventAddress   string    `json:"event_address"`
	MarketMaker    string    `json:"market_maker"`
	Fee            uint64    `json:"fee"`
}

// OutcomeTokenResponse represents an outcome token. Address is null until
// the deployed token contract binds to the row.
type OutcomeTokenResponse struct {
	Address       *string   `json:"address"`
	EventAddress  string    `json:"event_address"`
	Index         int       `json:"index"`
	TotalSupply   string    `json:"total_supply"`
	CreationBlock uint64    `json:"creation_block"`
	CreationTime  time.Time `json:"creation_time"`
}

// HolderResponse represents one owner's balance of an outcome token
type HolderResponse struct {
	OwnerAddress string    `json:"owner_address"`
	Balance      string    `json:"balance"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TokenHoldersResponse represents an outcome token together with every
// balance row held against it
type TokenHoldersResponse struct {
	Token   OutcomeTokenResponse `json:"token"`
	Holders []HolderResponse     `json:"holders"`
}

// OwnerBalanceResponse represents one of an owner's holdings across tokens
type OwnerBalanceResponse struct {
	TokenAddress *string   `json:"token_address"`
	EventAddress string    `json:"event_address"`
	Index        int       `json:"index"`
	Balance      string    `json:"balance"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// OwnerBalancesResponse represents every holding of a single owner
type OwnerBalancesResponse struct {
	OwnerAddress string                 `json:"owner_address"`
	Balances     []OwnerBalanceResponse `json:"balances"`
}

// CentralizedOracleListResponse represents a paginated list of centralized oracles
type CentralizedOracleListResponse struct {
	Oracles []CentralizedOracleResponse `json:"items"`
	Offset  *uint64                     `json:"offset,omitempty"`
	Total   uint64                      `json:"total"`
}

// UltimateOracleListResponse represents a paginated list of ultimate oracles
type UltimateOracleListResponse struct {
	Oracles []UltimateOracleResponse `json:"items"`
	Offset  *uint64                  `json:"offset,omitempty"`
	Total   uint64                   `json:"total"`
}

// EventListResponse represents a paginated list of events
type EventListResponse struct {
	Events []EventResponse `json:"items"`
	Offset *uint64         `json:"offset,omitempty"`
	Total  uint64          `json:"total"`
}

// MarketListResponse represents a paginated list of markets
type MarketListResponse struct {
	Markets []MarketResponse `json:"items"`
	Offset  *uint64          `json:"offset,omitempty"`
	Total   uint64           `json:"total"`
}

// MapEventDescriptionToDTO maps a schema.EventDescription to EventDescriptionResponse
func MapEventDescriptionToDTO(desc *schema.EventDescription) *EventDescriptionResponse {
	return &EventDescriptionResponse{
		ContentHash:    desc.ContentHash,
		Type:           desc.Type,
		Title:          desc.Title,
		Description:    desc.Description,
		ResolutionDate: desc.ResolutionDate,
		Outcomes:       json.RawMessage(desc.Outcomes),
		Unit:           desc.Unit,
		Decimals:       desc.Decimals,
	}
}

// MapCentralizedOracleToDTO maps a schema.CentralizedOracle to CentralizedOracleResponse
func MapCentralizedOracleToDTO(oracle *schema.CentralizedOracle) *CentralizedOracleResponse {
	resp := &CentralizedOracleResponse{
		Kind:           domain.OracleCentralized,
		Address:        oracle.Address,
		FactoryAddress: oracle.FactoryAddress,
		Creator:        oracle.Creator,
		CreationBlock:  oracle.CreationBlock,
		CreationTime:   oracle.CreationTime,
	}

	// The association is zero-valued when it was not preloaded
	if oracle.Description.ID != 0 {
		resp.Description = MapEventDescriptionToDTO(&oracle.Description)
	}

	return resp
}

// MapUltimateOracleToDTO maps a schema.UltimateOracle to UltimateOracleResponse
func MapUltimateOracleToDTO(oracle *schema.UltimateOracle) *UltimateOracleResponse {
	return &UltimateOracleResponse{
		Kind:              domain.OracleUltimate,
		Address:           oracle.Address,
		FactoryAddress:    oracle.FactoryAddress,
		Creator:           oracle.Creator,
		CreationBlock:     oracle.CreationBlock,
		CreationTime:      oracle.CreationTime,
		ForwardedOracle:   oracle.ForwardedOracle,
		CollateralToken:   oracle.CollateralToken,
		SpreadMultiplier:  oracle.SpreadMultiplier,
		ChallengePeriod:   oracle.ChallengePeriod,
		ChallengeAmount:   oracle.ChallengeAmount,
		FrontRunnerPeriod: oracle.FrontRunnerPeriod,
	}
}

// MapEventToDTO maps a store.EventRecord to EventResponse
func MapEventToDTO(event *store.EventRecord) *EventResponse {
	return &EventResponse{
		Kind:            event.Kind,
		Address:         event.Address,
		FactoryAddress:  event.FactoryAddress,
		Creator:         event.Creator,
		CreationBlock:   event.CreationBlock,
		CreationTime:    event.CreationTime,
		CollateralToken: event.CollateralToken,
		OracleAddress:   event.OracleAddress,
		OutcomeCount:    event.OutcomeCount,
		LowerBound:      event.LowerBound,
		UpperBound:      event.UpperBound,
	}
}

// MapMarketToDTO maps a schema.Market to MarketResponse
func MapMarketToDTO(market *schema.Market) *MarketResponse {
	return &MarketResponse{
		Address:        market.Address,
		FactoryAddress: market.FactoryAddress,
		Creator:        market.Creator,
		CreationBlock:  market.CreationBlock,
		CreationTime:   market.CreationTime,
		OracleAddress:  market.OracleAddress,
		EventAddress:   market.EventAddress,
		MarketMaker:    market.MarketMaker,
		Fee:            market.Fee,
	}
}

// MapOutcomeTokenToDTO maps a schema.OutcomeToken to OutcomeTokenResponse
func MapOutcomeTokenToDTO(token *schema.OutcomeToken) *OutcomeTokenResponse {
	return &OutcomeTokenResponse{
		Address:       token.Address,
		EventAddress:  token.EventAddress,
		Index:         token.Index,
		TotalSupply:   token.TotalSupply,
		CreationBlock: token.CreationBlock,
		CreationTime:  token.CreationTime,
	}
}

// MapHolderToDTO maps a schema.OutcomeTokenBalance to HolderResponse
func MapHolderToDTO(balance *schema.OutcomeTokenBalance) *HolderResponse {
	return &HolderResponse{
		OwnerAddress: balance.OwnerAddress,
		Balance:      balance.Balance,
		UpdatedAt:    balance.UpdatedAt,
	}
}

// MapOwnerBalanceToDTO maps a schema.OutcomeTokenBalance with its preloaded
// token association to OwnerBalanceResponse
func MapOwnerBalanceToDTO(balance *schema.OutcomeTokenBalance) *OwnerBalanceResponse {
	return &OwnerBalanceResponse{
		TokenAddress: balance.OutcomeToken.Address,
		EventAddress: balance.OutcomeToken.EventAddress,
		Index:        balance.OutcomeToken.Index,
		Balance:      balance.Balance,
		UpdatedAt:    balance.UpdatedAt,
	}
}

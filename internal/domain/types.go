package domain

import (
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// ContractKind identifies which tracked contract emitted an event. The set is
// closed: dispatch is a lookup table over these kinds, never reflection.
type ContractKind string

const (
	KindCentralizedOracleFactory ContractKind = "centralized_oracle_factory"
	KindUltimateOracleFactory    ContractKind = "ultimate_oracle_factory"
	KindEventFactory             ContractKind = "event_factory"
	KindMarketFactory            ContractKind = "market_factory"
	KindEventContract            ContractKind = "event_contract"
	KindOracleContract           ContractKind = "oracle_contract"
	KindOutcomeToken             ContractKind = "outcome_token"
)

// Names of contract events as emitted by the tracked contracts.
const (
	EventCentralizedOracleCreation = "CentralizedOracleCreation"
	EventUltimateOracleCreation    = "UltimateOracleCreation"
	EventCategoricalEventCreation  = "CategoricalEventCreation"
	EventScalarEventCreation       = "ScalarEventCreation"
	EventMarketCreation            = "StandardMarketCreation"
	EventOutcomeTokenCreation      = "OutcomeTokenCreation"
	EventIssuance                  = "Issuance"
	EventRevocation                = "Revocation"
	EventTransfer                  = "Transfer"
)

// DescriptionType distinguishes the two event description variants.
type DescriptionType string

const (
	DescriptionCategorical DescriptionType = "categorical"
	DescriptionScalar      DescriptionType = "scalar"
)

// OracleKind distinguishes the two oracle variants.
type OracleKind string

const (
	OracleCentralized OracleKind = "centralized"
	OracleUltimate    OracleKind = "ultimate"
)

// EventKind distinguishes the two event contract variants.
type EventKind string

const (
	EventKindCategorical EventKind = "categorical"
	EventKindScalar      EventKind = "scalar"
)

// BlockMeta carries the block metadata of the transaction that emitted an
// event. Every entity copies it as its immutable creation block/time.
type BlockMeta struct {
	Number    uint64 `json:"number"`
	Timestamp int64  `json:"timestamp"`
}

// Time returns the block timestamp as UTC time.
func (b *BlockMeta) Time() time.Time {
	return time.Unix(b.Timestamp, 0).UTC()
}

// Param is a single named event parameter. Values arrive JSON-decoded, so
// numbers may be float64, strings, or json.Number depending on the watcher.
type Param struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// ContractEvent is a normalized, already-decoded contract event record as
// delivered by the event watcher. Params are order-insignificant and keyed by
// name.
type ContractEvent struct {
	Address string     `json:"address"`
	Name    string     `json:"name,omitempty"`
	Params  []Param    `json:"params"`
	Block   *BlockMeta `json:"block,omitempty"`
}

// Param returns the value of the named parameter.
func (e *ContractEvent) Param(name string) (any, bool) {
	for _, p := range e.Params {
		if p.Name == name {
			return p.Value, true
		}
	}
	return nil, false
}

// NormalizeAddress lowercases an address into its canonical storage form.
// Addresses arrive in mixed case from different watchers, so every lookup
// and persisted row goes through this.
func NormalizeAddress(address string) string {
	return strings.ToLower(address)
}

// ValidAddress reports whether the given string is a well-formed hex address.
func ValidAddress(address string) bool {
	return common.IsHexAddress(address)
}

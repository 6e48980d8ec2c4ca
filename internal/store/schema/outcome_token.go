package schema

import (
	"time"
)

// OutcomeToken represents the outcome_tokens table - one fungible claim per
// outcome index of an event. Rows are created at zero supply alongside their
// event; the token's contract address is bound later by the token instance
// event, so Address stays NULL until then.
type OutcomeToken struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Address is the token contract address, nil until the instance event binds it
	Address *string `gorm:"column:address;uniqueIndex;type:text"`
	// EventAddress references the event this token belongs to
	EventAddress string `gorm:"column:event_address;not null;type:text;uniqueIndex:idx_outcome_tokens_event_index,priority:1"`
	// Index is the outcome index within the event
	Index int `gorm:"column:index;not null;uniqueIndex:idx_outcome_tokens_event_index,priority:2"`
	// TotalSupply is the aggregate issued amount, stored as numeric text
	TotalSupply string `gorm:"column:total_supply;not null;type:numeric(78,0);default:0"`
	// CreationBlock is the block number of the creation event
	CreationBlock uint64 `gorm:"column:creation_block;not null"`
	// CreationTime is the block timestamp of the creation event
	CreationTime time.Time `gorm:"column:creation_time;not null;type:timestamptz"`

	// Associations
	Balances []OutcomeTokenBalance `gorm:"foreignKey:OutcomeTokenID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the OutcomeToken model
func (OutcomeToken) TableName() string {
	return "outcome_tokens"
}

// OutcomeTokenBalance represents the outcome_token_balances table - per-owner
// holdings of an outcome token, unique per (token, owner). Rows are created
// lazily on first credit and persist at zero indefinitely.
type OutcomeTokenBalance struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// OutcomeTokenID references the token being held
	OutcomeTokenID int64 `gorm:"column:outcome_token_id;not null;uniqueIndex:idx_balances_token_owner,priority:1"`
	// OwnerAddress is the holder's address
	OwnerAddress string `gorm:"column:owner_address;not null;type:text;uniqueIndex:idx_balances_token_owner,priority:2;index"`
	// Balance is the held amount, stored as numeric text
	Balance string `gorm:"column:balance;not null;type:numeric(78,0);default:0"`
	// CreatedAt is the timestamp when this balance row was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this balance was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`

	// Associations
	OutcomeToken OutcomeToken `gorm:"foreignKey:OutcomeTokenID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the OutcomeTokenBalance model
func (OutcomeTokenBalance) TableName() string {
	return "outcome_token_balances"
}

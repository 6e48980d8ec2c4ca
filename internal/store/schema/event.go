package schema

import (
	"time"
)

// CategoricalEvent represents the categorical_events table - events with a
// fixed list of named outcomes.
type CategoricalEvent struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Address is the event contract address
	Address string `gorm:"column:address;not null;uniqueIndex;type:text"`
	// FactoryAddress is the factory contract that emitted the creation event
	FactoryAddress string `gorm:"column:factory_address;not null;type:text"`
	// Creator is the address that created the event
	Creator string `gorm:"column:creator;not null;type:text;index"`
	// CreationBlock is the block number of the creation event
	CreationBlock uint64 `gorm:"column:creation_block;not null"`
	// CreationTime is the block timestamp of the creation event
	CreationTime time.Time `gorm:"column:creation_time;not null;type:timestamptz;index"`
	// CollateralToken is the token outcome tokens are collateralized with
	CollateralToken string `gorm:"column:collateral_token;not null;type:text"`
	// OracleAddress references the oracle that resolves this event
	OracleAddress string `gorm:"column:oracle_address;not null;type:text;index"`
	// OutcomeCount is the number of outcomes
	OutcomeCount int `gorm:"column:outcome_count;not null"`
}

// TableName specifies the table name for the CategoricalEvent model
func (CategoricalEvent) TableName() string {
	return "categorical_events"
}

// ScalarEvent represents the scalar_events table - events resolving to a
// value inside a numeric range, traded as a short and a long outcome token.
type ScalarEvent struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Address is the event contract address
	Address string `gorm:"column:address;not null;uniqueIndex;type:text"`
	// FactoryAddress is the factory contract that emitted the creation event
	FactoryAddress string `gorm:"column:factory_address;not null;type:text"`
	// Creator is the address that created the event
	Creator string `gorm:"column:creator;not null;type:text;index"`
	// CreationBlock is the block number of the creation event
	CreationBlock uint64 `gorm:"column:creation_block;not null"`
	// CreationTime is the block timestamp of the creation event
	CreationTime time.Time `gorm:"column:creation_time;not null;type:timestamptz;index"`
	// CollateralToken is the token outcome tokens are collateralized with
	CollateralToken string `gorm:"column:collateral_token;not null;type:text"`
	// OracleAddress references the oracle that resolves this event
	OracleAddress string `gorm:"column:oracle_address;not null;type:text;index"`
	// LowerBound is the inclusive lower bound, stored as numeric text
	LowerBound string `gorm:"column:lower_bound;not null;type:numeric(78,0)"`
	// UpperBound is the exclusive upper bound, stored as numeric text
	UpperBound string `gorm:"column:upper_bound;not null;type:numeric(78,0)"`
}

// TableName specifies the table name for the ScalarEvent model
func (ScalarEvent) TableName() string {
	return "scalar_events"
}

package schema

import (
	"time"
)

// CentralizedOracle represents the centralized_oracles table - oracles with a
// single trusted reporter, each bound to a content-addressed description.
type CentralizedOracle struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Address is the oracle contract address
	Address string `gorm:"column:address;not null;uniqueIndex;type:text"`
	// FactoryAddress is the factory contract that emitted the creation event
	FactoryAddress string `gorm:"column:factory_address;not null;type:text"`
	// Creator is the address that created the oracle
	Creator string `gorm:"column:creator;not null;type:text;index"`
	// CreationBlock is the block number of the creation event
	CreationBlock uint64 `gorm:"column:creation_block;not null"`
	// CreationTime is the block timestamp of the creation event
	CreationTime time.Time `gorm:"column:creation_time;not null;type:timestamptz;index"`
	// DescriptionID references the resolved event description
	DescriptionID int64 `gorm:"column:description_id;not null"`

	// Associations
	Description EventDescription `gorm:"foreignKey:DescriptionID"`
}

// TableName specifies the table name for the CentralizedOracle model
func (CentralizedOracle) TableName() string {
	return "centralized_oracles"
}

// UltimateOracle represents the ultimate_oracles table - escalation-layer
// oracles that may forward to another oracle. The forwarded reference is
// optional: an unresolvable forwarded oracle address is persisted as unset.
type UltimateOracle struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Address is the oracle contract address
	Address string `gorm:"column:address;not null;uniqueIndex;type:text"`
	// FactoryAddress is the factory contract that emitted the creation event
	FactoryAddress string `gorm:"column:factory_address;not null;type:text"`
	// Creator is the address that created the oracle
	Creator string `gorm:"column:creator;not null;type:text;index"`
	// CreationBlock is the block number of the creation event
	CreationBlock uint64 `gorm:"column:creation_block;not null"`
	// CreationTime is the block timestamp of the creation event
	CreationTime time.Time `gorm:"column:creation_time;not null;type:timestamptz;index"`
	// ForwardedOracle is the oracle this one escalates from, nil when the
	// referenced address was not indexed at validation time
	ForwardedOracle *string `gorm:"column:forwarded_oracle;type:text"`
	// CollateralToken is the token the oracle's challenges are staked in
	CollateralToken string `gorm:"column:collateral_token;not null;type:text"`
	// SpreadMultiplier is stored as numeric text to support 256-bit values
	SpreadMultiplier string `gorm:"column:spread_multiplier;not null;type:numeric(78,0)"`
	// ChallengePeriod is the challenge window in seconds
	ChallengePeriod uint64 `gorm:"column:challenge_period;not null"`
	// ChallengeAmount is stored as numeric text to support 256-bit values
	ChallengeAmount string `gorm:"column:challenge_amount;not null;type:numeric(78,0)"`
	// FrontRunnerPeriod is the front-runner window in seconds
	FrontRunnerPeriod uint64 `gorm:"column:front_runner_period;not null"`
}

// TableName specifies the table name for the UltimateOracle model
func (UltimateOracle) TableName() string {
	return "ultimate_oracles"
}

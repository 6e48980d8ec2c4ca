package schema

import (
	"time"
)

// Market represents the markets table - allow-listed market-maker contracts
// providing liquidity for an event's outcome tokens.
type Market struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Address is the market contract address
	Address string `gorm:"column:address;not null;uniqueIndex;type:text"`
	// FactoryAddress is the factory contract that emitted the creation event
	FactoryAddress string `gorm:"column:factory_address;not null;type:text"`
	// Creator is the address that created the market
	Creator string `gorm:"column:creator;not null;type:text;index"`
	// CreationBlock is the block number of the creation event
	CreationBlock uint64 `gorm:"column:creation_block;not null"`
	// CreationTime is the block timestamp of the creation event
	CreationTime time.Time `gorm:"column:creation_time;not null;type:timestamptz;index"`
	// OracleAddress references the oracle declared by the market
	OracleAddress string `gorm:"column:oracle_address;not null;type:text;index"`
	// EventAddress references the event the market trades on
	EventAddress string `gorm:"column:event_address;not null;type:text;index"`
	// MarketMaker is the allow-listed market-maker contract address
	MarketMaker string `gorm:"column:market_maker;not null;type:text"`
	// Fee is the market fee in parts per million
	Fee uint64 `gorm:"column:fee;not null"`
}

// TableName specifies the table name for the Market model
func (Market) TableName() string {
	return "markets"
}

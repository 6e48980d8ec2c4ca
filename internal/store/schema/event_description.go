package schema

import (
	"time"

	"gorm.io/datatypes"

	"github.com/gnosis-pm/pm-indexer/internal/domain"
)

// EventDescription represents the event_descriptions table. Descriptions are
// content-addressed and immutable: one row per content hash, shared by every
// oracle that references the hash.
type EventDescription struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// ContentHash is the content-addressed store key of the document
	ContentHash string `gorm:"column:content_hash;not null;uniqueIndex;type:text"`
	// Type is the description variant (categorical or scalar)
	Type domain.DescriptionType `gorm:"column:type;not null;type:text"`
	// Title is the human-readable event title
	Title string `gorm:"column:title;not null;type:text"`
	// Description is the long-form event description
	Description string `gorm:"column:description;not null;type:text"`
	// ResolutionDate is when the described event is expected to resolve
	ResolutionDate time.Time `gorm:"column:resolution_date;not null;type:timestamptz"`
	// Outcomes is the ordered outcome list (categorical descriptions only)
	Outcomes datatypes.JSON `gorm:"column:outcomes;type:jsonb"`
	// Unit is the measurement unit (scalar descriptions only)
	Unit *string `gorm:"column:unit;type:text"`
	// Decimals is the decimal precision of the unit (scalar descriptions only)
	Decimals *int `gorm:"column:decimals"`
	// Raw is the document exactly as fetched from the content store
	Raw datatypes.JSON `gorm:"column:raw;type:jsonb"`
	// CreatedAt is the timestamp when this description was first resolved
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the EventDescription model
func (EventDescription) TableName() string {
	return "event_descriptions"
}

// Package domain contains persistence models for the business registry.
package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

// BusinessType is the legal structure of a registered business.
type BusinessType string

const (
	TypeLimited    BusinessType = "Limited"
	TypeLLP        BusinessType = "LLP"
	TypeIndividual BusinessType = "Individual"
	TypeUnknown    BusinessType = "Unknown"
)

// ParseBusinessType normalizes free-form type labels. Unrecognized values
// collapse to TypeUnknown instead of failing the record.
func ParseBusinessType(s string) BusinessType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "limited", "ltd":
		return TypeLimited
	case "llp":
		return TypeLLP
	case "individual", "sole trader":
		return TypeIndividual
	default:
		return TypeUnknown
	}
}

// Address is the registered address embedded on a business row. Building is
// the only required component.
type Address struct {
	Building string `gorm:"type:text;not null" json:"building"`
	Street   string `gorm:"type:text" json:"street"`
	City     string `gorm:"type:text" json:"city"`
	Postcode string `gorm:"type:text" json:"postcode"`
	Country  string `gorm:"type:text" json:"country"`
}

// Lines returns the non-empty address components in display order.
func (a Address) Lines() []string {
	lines := make([]string, 0, 5)
	for _, part := range []string{a.Building, a.Street, a.City, a.Postcode, a.Country} {
		if part != "" {
			lines = append(lines, part)
		}
	}
	return lines
}

// Business represents one registered business.
type Business struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	Code        string       `gorm:"type:text;not null;uniqueIndex:ux_businesses_code" json:"code"`
	Name        string       `gorm:"type:text;not null" json:"name"`
	Type        BusinessType `gorm:"type:text;not null" json:"type"`
	PhoneNumber string       `gorm:"type:text;column:phone_number" json:"phoneNumber,omitempty"`
	VATNumber   string       `gorm:"type:text;column:vat_number" json:"vatNumber,omitempty"`
	Address     Address      `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	CreatedAt   time.Time    `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time    `gorm:"not null" json:"updatedAt"`
}

// TableName sets the database table name.
func (Business) TableName() string { return "businesses" }

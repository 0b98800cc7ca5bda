// Package domain contains persistence models for invoicing.
package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Invoice is one issued invoice. Monetary totals are derived from the line
// items at write time and stored alongside them; the line items remain the
// source of truth on recompute.
type Invoice struct {
	ID            snowflake.ID    `gorm:"primaryKey" json:"id"`
	Code          string          `gorm:"type:text;not null;uniqueIndex:ux_invoices_code" json:"code"`
	BusinessID    snowflake.ID    `gorm:"not null;index" json:"businessId"`
	BusinessName  string          `gorm:"type:text;not null" json:"businessName"`
	StartDate     time.Time       `gorm:"not null" json:"startDate"`
	DueDate       time.Time       `gorm:"not null" json:"dueDate"`
	VATPercentage decimal.Decimal `gorm:"type:numeric;not null" json:"vatPercentage"`
	Subtotal      decimal.Decimal `gorm:"type:numeric;not null" json:"subtotal"`
	VATAmount     decimal.Decimal `gorm:"type:numeric;not null" json:"vatAmount"`
	Total         decimal.Decimal `gorm:"type:numeric;not null" json:"total"`
	LineItems     []LineItem      `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"lineItems"`
	CreatedAt     time.Time       `gorm:"not null" json:"createdAt"`
	UpdatedAt     time.Time       `gorm:"not null" json:"updatedAt"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// ServiceNames joins the line item service names for display and search.
func (i Invoice) ServiceNames() string {
	names := make([]string, 0, len(i.LineItems))
	for _, item := range i.LineItems {
		if name := strings.TrimSpace(item.Service); name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}

// LineItem is one billed service on an invoice. Position preserves the order
// the services were entered in.
type LineItem struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	InvoiceID   snowflake.ID    `gorm:"not null;index" json:"-"`
	Service     string          `gorm:"type:text;not null" json:"service"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
	Amount      decimal.Decimal `gorm:"type:numeric;not null" json:"amount"`
	Position    int             `gorm:"not null" json:"-"`
}

// TableName sets the database table name.
func (LineItem) TableName() string { return "invoice_line_items" }

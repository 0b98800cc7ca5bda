package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/folio/pkg/db/pagination"
)

type CreateBusinessRequest struct {
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	PhoneNumber string  `json:"phoneNumber"`
	VATNumber   string  `json:"vatNumber"`
	Address     Address `json:"address"`
}

// ListBusinessRequest narrows the registry. Search matches name and code
// case-insensitively; the date bounds check the registration date inclusively.
type ListBusinessRequest struct {
	pagination.Pagination
	Search    string
	StartDate *time.Time
	EndDate   *time.Time
}

type ListBusinessResponse = pagination.Page[Business]

type Service interface {
	Create(ctx context.Context, req CreateBusinessRequest) (*Business, error)
	List(ctx context.Context, req ListBusinessRequest) (ListBusinessResponse, error)
	GetByID(ctx context.Context, id string) (*Business, error)
}

var (
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidBuilding  = errors.New("invalid_building")
	ErrInvalidBusiness  = errors.New("invalid_business")
	ErrBusinessExists   = errors.New("business_exists")
	ErrBusinessNotFound = errors.New("business_not_found")
)

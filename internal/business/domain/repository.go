package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, business *Business) error
	List(ctx context.Context, db *gorm.DB) ([]Business, error)
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Business, error)
}

// Package seed bootstraps the first admin account so a fresh deployment can
// be logged into.
package seed

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/smallbiznis/folio/internal/auth/domain"
	"github.com/smallbiznis/folio/internal/auth/password"
	"github.com/smallbiznis/folio/internal/config"
	"gorm.io/gorm"
)

const defaultAdminDisplay = "Folio Admin"

// EnsureAdminUser creates the bootstrap admin when no users exist. If no
// password is configured a random one is generated and printed once; the
// account is flagged is_default so a rotation can be demanded later.
func EnsureAdminUser(db *gorm.DB, cfg config.Config) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	email := strings.ToLower(strings.TrimSpace(cfg.BootstrapAdminEmail))
	if email == "" {
		return nil
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&authdomain.User{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		pass := cfg.BootstrapAdminPassword
		generated := false
		if strings.TrimSpace(pass) == "" {
			pass, err = randomPassword()
			if err != nil {
				return err
			}
			generated = true
		}

		hashed, err := password.Hash(pass)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		user := authdomain.User{
			ID:           node.Generate(),
			DisplayName:  defaultAdminDisplay,
			Email:        email,
			PasswordHash: &hashed,
			Roles:        []string{authdomain.RoleAdmin},
			IsDefault:    true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		if generated {
			fmt.Printf("bootstrap admin created: %s / %s\n", email, pass)
		}
		return nil
	})
}

func randomPassword() (string, error) {
	buf := make([]byte, 18)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

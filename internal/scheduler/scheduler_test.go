package scheduler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	authdomain "github.com/smallbiznis/folio/internal/auth/domain"
	authrepository "github.com/smallbiznis/folio/internal/auth/repository"
	"github.com/smallbiznis/folio/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func newTestScheduler(t *testing.T) (*Scheduler, *gorm.DB, *clock.FakeClock) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&authdomain.Session{}))

	fake := clock.NewFakeClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	_, sessionRepo := authrepository.New(db)

	sched := New(Params{
		Log:         zaptest.NewLogger(t),
		Clock:       fake,
		SessionRepo: sessionRepo,
		Config:      Config{RunInterval: time.Minute, SessionRetention: 30 * 24 * time.Hour},
	})
	return sched, db, fake
}

func insertSession(t *testing.T, db *gorm.DB, id int64, expiresAt time.Time, revokedAt *time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&authdomain.Session{
		ID:               snowflake.ID(id),
		UserID:           snowflake.ID(1),
		SessionTokenHash: fmt.Sprintf("hash-%d", id),
		ExpiresAt:        expiresAt,
		RevokedAt:        revokedAt,
		CreatedAt:        expiresAt.Add(-72 * time.Hour),
		LastSeenAt:       expiresAt.Add(-72 * time.Hour),
	}).Error)
}

func sessionCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&authdomain.Session{}).Count(&count).Error)
	return count
}

func TestSessionSweepPurgesOldSessions(t *testing.T) {
	sched, db, fake := newTestScheduler(t)
	now := fake.Now()

	// Expired well past the retention window.
	insertSession(t, db, 1, now.Add(-40*24*time.Hour), nil)
	// Revoked past the retention window.
	revoked := now.Add(-35 * 24 * time.Hour)
	insertSession(t, db, 2, now.Add(24*time.Hour), &revoked)
	// Expired but still inside retention.
	insertSession(t, db, 3, now.Add(-24*time.Hour), nil)
	// Live.
	insertSession(t, db, 4, now.Add(48*time.Hour), nil)

	require.NoError(t, sched.RunOnce(context.Background()))

	assert.Equal(t, int64(2), sessionCount(t, db))

	var remaining []authdomain.Session
	require.NoError(t, db.Order("id").Find(&remaining).Error)
	assert.Equal(t, snowflake.ID(3), remaining[0].ID)
	assert.Equal(t, snowflake.ID(4), remaining[1].ID)
}

func TestSessionSweepIsIdempotent(t *testing.T) {
	sched, db, fake := newTestScheduler(t)
	now := fake.Now()

	insertSession(t, db, 1, now.Add(-40*24*time.Hour), nil)

	require.NoError(t, sched.RunOnce(context.Background()))
	require.NoError(t, sched.RunOnce(context.Background()))
	assert.Equal(t, int64(0), sessionCount(t, db))
}

func TestSessionSweepPurgesMoreAsTimeAdvances(t *testing.T) {
	sched, db, fake := newTestScheduler(t)
	now := fake.Now()

	insertSession(t, db, 1, now.Add(-24*time.Hour), nil)

	require.NoError(t, sched.RunOnce(context.Background()))
	assert.Equal(t, int64(1), sessionCount(t, db))

	fake.Advance(31 * 24 * time.Hour)
	require.NoError(t, sched.RunOnce(context.Background()))
	assert.Equal(t, int64(0), sessionCount(t, db))
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.Equal(t, time.Hour, cfg.RunInterval)
	assert.Equal(t, 30*24*time.Hour, cfg.SessionRetention)
}

package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"schoolhub_backend/internals/configs"
	helperAuth "schoolhub_backend/internals/helpers/auth"
)

const defaultCleanupSpec = "@every 6h"

// StartBlacklistCleanupScheduler purges expired token_blacklist rows on a cron
// schedule (TOKEN_BLACKLIST_CLEANUP_CRON). Stop the returned cron on shutdown.
func StartBlacklistCleanupScheduler(db *gorm.DB) (*cron.Cron, error) {
	spec := configs.GetEnv("TOKEN_BLACKLIST_CLEANUP_CRON", defaultCleanupSpec)

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.AddFunc(spec, func() { CleanupBlacklist(db) }); err != nil {
		return nil, err
	}
	c.Start()
	log.Printf("[CLEANUP] token_blacklist cleanup scheduled (%s)", spec)
	return c, nil
}

func CleanupBlacklist(db *gorm.DB) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := helperAuth.PurgeExpired(ctx, db, time.Now())
	if err != nil {
		log.Printf("[CLEANUP ERROR] purge token_blacklist: %v", err)
		return
	}
	if n > 0 {
		log.Printf("[CLEANUP] %d expired tokens removed", n)
	}
}

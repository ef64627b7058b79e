package waitlistdb

import (
	"context"
	"log"

	"github.com/uptrace/bun"

	"github.com/chainsafe/waitlist-api/pkg/entrystore"
	mghelper "github.com/chainsafe/waitlist-api/pkg/pgutil/migrations"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating waitlist_entries table...")
		if err := mghelper.CreateSchema(ctx, db, &entrystore.EntryDao{}); err != nil {
			return err
		}
		// Uniqueness is enforced here rather than in application code so
		// concurrent duplicate writes fail atomically. The indexes on the
		// nullable columns are sparse: NULLs never conflict.
		if err := mghelper.CreateModelUniqueIndexes(ctx, db, &entrystore.EntryDao{},
			"email", "wallet_address", "verification_token", "post_url"); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &entrystore.EntryDao{}, "status")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping waitlist_entries table...")
		return mghelper.DropTables(ctx, db, &entrystore.EntryDao{})
	})
}

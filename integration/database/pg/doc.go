// Package pg provides PostgreSQL connection pool management and a
// Postgres-backed session store.
//
// # Configuration
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer pool.Close()
//
// # Session Store
//
//	store := pg.NewSessionStore(pool)
//	if err := store.EnsureSchema(ctx); err != nil {
//		log.Fatal(err)
//	}
//	manager := session.NewManager(store, 24*time.Hour, 5*time.Minute)
//
// Session values are stored as JSONB. Expired rows are not removed
// automatically; call Manager.CleanupExpired periodically.
//
// # Health Checking
//
//	check := pg.Healthcheck(pool)
//	if err := check(ctx); err != nil {
//		// Postgres unreachable.
//	}
package pg

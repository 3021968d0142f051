// Package redis provides Redis client initialization with connection
// verification and a Redis-backed session store.
//
// # Configuration
//
// All configuration is handled through the Config struct with environment
// variable mapping:
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
// Both redis:// and rediss:// (TLS) URL schemes are supported.
//
// # Usage
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	store := redis.NewSessionStore(client)
//	manager := session.NewManager(store, 24*time.Hour, 5*time.Minute)
//
// Sessions are stored as JSON values keyed by token, with an id-to-token
// index for lookups by session ID. Keys carry the session TTL, so expired
// sessions vanish without a cleanup job; the store's DeleteExpired is a
// no-op.
//
// # Health Checking
//
//	check := redis.Healthcheck(client)
//	if err := check(ctx); err != nil {
//		// Redis unreachable.
//	}
package redis

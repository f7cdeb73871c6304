// Package redis connects to the redis server used by session.RedisStore.
//
// Connect parses REDIS_URL style connection strings and retries the initial
// ping; Healthcheck wraps a ping for readiness probes.
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	store := session.NewRedisStore(client, session.WithTTL(cfg.SessionTTL))
package redis

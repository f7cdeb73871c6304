// Command devapi serves the curbside auth API from memory for local development.
package main

import (
	"context"
	"os"

	"github.com/dmitrymomot/curbside/internal/devapi"
	"github.com/dmitrymomot/curbside/pkg/config"
	"github.com/dmitrymomot/curbside/pkg/httpserver"
	"github.com/dmitrymomot/curbside/pkg/logger"
	"github.com/dmitrymomot/curbside/pkg/redis"
	"github.com/dmitrymomot/curbside/pkg/requestid"
)

func main() {
	var (
		logCfg   logger.Config
		httpCfg  httpserver.Config
		apiCfg   devapi.Config
		redisCfg redis.Config
	)
	config.MustLoad(&logCfg)
	config.MustLoad(&httpCfg, config.WithPrefix("DEVAPI_"))
	config.MustLoad(&apiCfg, config.WithPrefix("DEVAPI_"))
	config.MustLoad(&redisCfg)

	log := logger.New(
		logger.WithConfig(logCfg),
		logger.WithService("curbside-devapi"),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)

	ctx := context.Background()

	var opts []devapi.Option
	opts = append(opts, devapi.WithLogger(log))
	if redisCfg.Enabled() {
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			log.Error("failed to connect to redis", logger.Error(err))
			os.Exit(1)
		}
		defer client.Close()
		opts = append(opts, devapi.WithChecks(httpserver.Check{Name: "redis", Probe: redis.Healthcheck(client)}))
	}

	api, err := devapi.New(apiCfg, opts...)
	if err != nil {
		log.Error("failed to create dev api", logger.Error(err))
		os.Exit(1)
	}

	srv := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))
	if err := srv.Run(ctx, api.Handler()); err != nil {
		log.Error("server stopped", logger.Error(err))
		os.Exit(1)
	}
}

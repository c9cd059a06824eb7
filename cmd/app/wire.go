//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/goldensql/goldensql/internal/bootstrap"
	"github.com/goldensql/goldensql/internal/domain/golden"
	"github.com/goldensql/goldensql/internal/infra/config"
	httpiface "github.com/goldensql/goldensql/internal/interface/http"
	"github.com/goldensql/goldensql/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideGoldenConfig,
		providePgxPool,
		provideRecordRepository,
		provideVectorIndex,
		provideSQLRunner,
		provideStore,
		provideEmbedder,
		provideObjectStorage,
		golden.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}

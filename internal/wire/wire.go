//go:build wireinject
// +build wireinject

package wire

import (
	"gofun/internal/config"
	"gofun/internal/dbmysql"

	"github.com/google/wire"
)

func InitializeApplication(cfg *config.Config) (*Application, func(), error) {
	wire.Build(
		dbmysql.NewDB,
		ProvideMongo,
		ProvideRedis,
		StoreSet,
		ProvideMediaStore,
		ProvideMediaServer,
		ProvideSearchIndex,
		ProvideMetrics,
		ProvideEventBus,
		EngineSet,
		wire.Struct(new(Application), "*"),
	)
	return nil, nil, nil
}

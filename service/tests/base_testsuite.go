package tests

import (
	"context"
	"testing"

	"github.com/antinvestor/service-catalogue/config"
	internaltests "github.com/antinvestor/service-catalogue/internal/tests"
	events2 "github.com/antinvestor/service-catalogue/service/events"
	"github.com/antinvestor/service-catalogue/service/storage/repository"
	"github.com/pitabwire/frame"
	"github.com/pitabwire/frame/frametests"
	"github.com/pitabwire/frame/frametests/definition"
	"github.com/stretchr/testify/require"
)

type BaseTestSuite struct {
	internaltests.BaseTestSuite
}

func (bs *BaseTestSuite) CreateService(
	t *testing.T,
	depOpts *definition.DependancyOption,
) (*frame.Service, context.Context) {

	ctx := t.Context()
	catalogueConfig, err := frame.ConfigFromEnv[config.CatalogueConfig]()
	require.NoError(t, err)

	catalogueConfig.LogLevel = "debug"
	catalogueConfig.RunServiceSecurely = false
	catalogueConfig.ServerPort = ""

	res := depOpts.ByIsDatabase(ctx)
	testDS, cleanup, err0 := res.GetRandomisedDS(ctx, depOpts.Prefix())
	require.NoError(t, err0)

	t.Cleanup(func() {
		cleanup(ctx)
	})

	catalogueConfig.DatabasePrimaryURL = []string{testDS.String()}
	catalogueConfig.DatabaseReplicaURL = []string{testDS.String()}

	ctx, svc := frame.NewServiceWithContext(ctx, "catalogue tests",
		frame.WithConfig(&catalogueConfig),
		frame.WithDatastore(),
		frametests.WithNoopDriver())

	svc.Init(ctx, frame.WithRegisterEvents(
		events2.NewActivitySaveHandler(svc),
		events2.NewNotificationSaveHandler(svc)))

	err = repository.Migrate(ctx, svc, "../../migrations/0001")
	require.NoError(t, err)

	err = svc.Run(ctx, "")
	require.NoError(t, err)

	return svc, ctx
}

// Command cascade-worker is the Lambda entrypoint that replays entity
// removals from the table's stream through the cascade dispatchers.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/brewkit/cellar/catalog"
	"github.com/brewkit/cellar/config"
	"github.com/brewkit/cellar/store"
	"github.com/brewkit/cellar/stream"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration error", "error", err)
		os.Exit(1)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		logger.Error("load aws config", "error", err)
		os.Exit(1)
	}

	adapter := store.NewDynamo(dynamodb.NewFromConfig(awsCfg), store.Config{
		Table: cfg.Table,
	})

	pager := catalog.NewPager(adapter, cfg.BaseURL, int32(cfg.PageSize))
	users := catalog.NewUsers(adapter, pager)
	styles := catalog.NewStyles(adapter, pager)
	recipes := catalog.NewRecipes(adapter, pager, styles, users)
	catalog.WireCascades(users, styles, recipes)

	handler := stream.NewHandler(logger, users, styles, recipes)
	lambda.Start(handler.HandleCascadeReplay)
}

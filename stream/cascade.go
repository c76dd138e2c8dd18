// Package stream replays datastore stream events through the cascade
// dispatchers, so deletions whose fan-out was interrupted still converge.
package stream

import (
	"context"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"

	"github.com/brewkit/cellar/catalog"
)

// Handler processes DynamoDB stream events for cascade replay.
type Handler struct {
	logger      *slog.Logger
	dispatchers map[string]func(ctx context.Context, deletedID string) error
}

// NewHandler creates a stream handler over the wired registries. The same
// listeners that run synchronously after an in-process delete are re-driven
// here from the table's REMOVE events.
func NewHandler(logger *slog.Logger, users *catalog.Users, styles *catalog.Styles, recipes *catalog.Recipes) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger: logger,
		dispatchers: map[string]func(ctx context.Context, deletedID string) error{
			catalog.KindUsers:   users.Redispatch,
			catalog.KindStyles:  styles.Redispatch,
			catalog.KindRecipes: recipes.Redispatch,
		},
	}
}

// HandleCascadeReplay processes a batch of stream records. Designed to be
// used as an AWS Lambda handler; a failed record fails the batch, which
// retries and eventually dead-letters.
func (h *Handler) HandleCascadeReplay(ctx context.Context, event events.DynamoDBEvent) error {
	for _, record := range event.Records {
		if err := h.processRecord(ctx, record); err != nil {
			h.logger.Error("failed to process record",
				"eventID", record.EventID,
				"error", err,
			)
			return err
		}
	}
	return nil
}

// processRecord replays the deletion listeners for a single removed entity.
func (h *Handler) processRecord(ctx context.Context, record events.DynamoDBEventRecord) error {
	if record.EventName != "REMOVE" {
		return nil
	}

	kind := getStringAttr(record.Change.OldImage, "pk")
	id := getStringAttr(record.Change.OldImage, "id")

	dispatch, known := h.dispatchers[kind]
	if !known || id == "" {
		// Counter items and unknown partitions carry no entity id.
		return nil
	}

	h.logger.Info("replaying cascade",
		"kind", kind,
		"id", id,
	)

	if err := dispatch(ctx, id); err != nil {
		return err
	}

	h.logger.Info("cascade replay completed",
		"kind", kind,
		"id", id,
	)
	return nil
}

// getStringAttr extracts a string attribute from a DynamoDB stream image.
func getStringAttr(image map[string]events.DynamoDBAttributeValue, key string) string {
	if v, ok := image[key]; ok && v.DataType() == events.DataTypeString {
		return v.String()
	}
	return ""
}

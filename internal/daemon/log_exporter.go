package daemon

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Lucifergene/bookswap-connect/internal/models"
	"github.com/Lucifergene/bookswap-connect/internal/utils"
)

const exportInterval = 30 * time.Second

type LogExporter struct {
	Coll *mongo.Collection
}

// Run flushes unexported audit entries on a fixed interval until ctx is
// cancelled.
func (l *LogExporter) Run(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(exportInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.exportPending(ctx)
			}
		}
	}()
}

func (l *LogExporter) exportPending(ctx context.Context) {
	res, err := l.Coll.Find(ctx, bson.M{"exported": false})
	if err != nil {
		return
	}

	var logs []models.AuditLog
	if err := res.All(ctx, &logs); err != nil || len(logs) == 0 {
		return
	}

	if err := utils.ExportData(logs); err != nil {
		return
	}

	updateIds := make([]primitive.ObjectID, 0, len(logs))
	for _, entry := range logs {
		updateIds = append(updateIds, entry.ID)
	}

	l.Coll.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": updateIds}}, bson.M{"$set": bson.M{"exported": true}})
}

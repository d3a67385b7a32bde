// Command reindex_profiles pushes every stored profile back into the
// similarity oracle. Run it after an index wipe or a summary format change.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/yungbote/mentorbridge-backend/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		fmt.Printf("Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	count, err := a.Services.Indexer.ReindexAll(ctx)
	if err != nil {
		a.Log.Error("reindex aborted", "reindexed", count, "error", err)
		os.Exit(1)
	}
	a.Log.Info("reindex complete", "reindexed", count)
}

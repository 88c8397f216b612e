package main

import (
	"encoding/json"
	"fmt"
	"os"
	"reviewwidget/backend/internal/analysis"
	"reviewwidget/backend/internal/config"
	"reviewwidget/backend/internal/logger"
	"reviewwidget/backend/internal/models"
	"reviewwidget/backend/internal/storage"
	"reviewwidget/backend/internal/widget"
	"strings"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg, _ := config.Load()
	log := logger.NewLogger(cfg.DevMode)
	defer log.Sync()

	if len(os.Args) < 3 {
		fmt.Println("Usage: admin <export|stats|unhide> <widget_id>")
		os.Exit(1)
	}
	command, widgetID := os.Args[1], os.Args[2]

	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	// Redis is dialed lazily; only unhide touches it, for the widget lock.
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	defer rdb.Close()
	storageSvc := storage.NewStorageService(db, rdb, cfg.SessionTTL, log)

	switch command {
	case "export":
		if err := exportReviews(storageSvc, widgetID); err != nil {
			log.Fatalf("Error exporting reviews: %v", err)
		}
	case "stats":
		if err := printStats(storageSvc, widgetID); err != nil {
			log.Fatalf("Error reading stats: %v", err)
		}
	case "unhide":
		if err := unhide(storageSvc, widgetID); err != nil {
			log.Fatalf("Error unhiding reviews: %v", err)
		}
		fmt.Printf("Reviews of widget %s are visible again.\n", widgetID)
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

// exportReviews writes the redacted review list as JSON, in the same shape the download surface receives.
func exportReviews(s *storage.Service, widgetID string) error {
	state, err := s.LoadState(widgetID)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(widget.Redact(state.Reviews))
}

func printStats(s *storage.Service, widgetID string) error {
	state, err := s.LoadState(widgetID)
	if err != nil {
		return err
	}
	summary := analysis.Summarize(state.Reviews)

	fmt.Printf("Widget %s: %d reviews, average %.1f\n", widgetID, summary.Count, summary.Average)
	for _, b := range summary.Buckets {
		fmt.Printf("%d ★ %5.1f%% %s (%d)\n", b.Rate, b.Share*100, strings.Repeat("#", int(b.Share*20)), b.Count)
	}
	if state.Hidden {
		by := "everyone"
		if state.HiddenBy != nil {
			by = state.HiddenBy.Name
		}
		fmt.Printf("Hidden, unhide allowed for: %s\n", by)
	}
	return nil
}

// unhide clears the hidden flag the way the widget does, hidden before hidden-by,
// holding the same lock as the running servers.
func unhide(s storage.Storage, widgetID string) error {
	unlock, err := s.LockWidget(widgetID)
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.SaveField(widgetID, models.FieldHidden, false); err != nil {
		return err
	}
	return s.SaveField(widgetID, models.FieldHiddenBy, (*models.Identity)(nil))
}

// Command assigner runs one duty and location assignment batch and
// exits. Intended to be invoked daily from cron.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/budyakovan/shift-tracker-bot/config"
	"github.com/budyakovan/shift-tracker-bot/internal/dto"
	"github.com/budyakovan/shift-tracker-bot/internal/repository"
	"github.com/budyakovan/shift-tracker-bot/internal/service"
	"github.com/budyakovan/shift-tracker-bot/pkg/database"
	applogger "github.com/budyakovan/shift-tracker-bot/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	dateArg := flag.String("date", "", "date to assign (YYYY-MM-DD, default today)")
	groupArg := flag.String("group", "", "restrict to one group key")
	modeArg := flag.String("mode", service.ModeRoundRobin, "fairness mode: round_robin or least_loaded")
	skipDuties := flag.Bool("skip-duties", false, "skip the duty batch")
	skipLocations := flag.Bool("skip-locations", false, "skip the location batch")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	onDate := time.Now().UTC()
	if *dateArg != "" {
		onDate, err = dto.ParseDate(*dateArg)
		if err != nil {
			logger.Fatal("invalid -date", zap.Error(err))
		}
	}

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer func() {
		if sqlDB, _ := db.DB(); sqlDB != nil {
			sqlDB.Close()
		}
	}()

	repo := repository.NewRepository(db)
	svc := service.NewService(repo, cfg, nil, nil, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	exitCode := 0

	if !*skipDuties {
		result, err := svc.Duty.AssignForDate(ctx, onDate, *groupArg, *modeArg, nil)
		if err != nil {
			logger.Error("duty batch failed", zap.Error(err))
			exitCode = 1
		} else {
			for _, skip := range result.Skips {
				logger.Warn("duty skipped",
					zap.String("group", skip.GroupKey),
					zap.String("duty", skip.DutyCode),
					zap.String("reason", skip.Reason),
				)
			}
			logger.Info("duty batch done",
				zap.String("date", result.Date),
				zap.Int("written", result.Written),
				zap.Int("skipped", len(result.Skips)),
			)
		}
	}

	if !*skipLocations {
		groups, err := targetGroupKeys(ctx, repo, *groupArg)
		if err != nil {
			logger.Error("listing groups failed", zap.Error(err))
			exitCode = 1
		}
		for _, key := range groups {
			result, err := svc.Location.AssignLocations(ctx, key, onDate)
			if err != nil {
				logger.Error("location batch failed",
					zap.String("group", key), zap.Error(err))
				exitCode = 1
				continue
			}
			logger.Info("location batch done",
				zap.String("group", key),
				zap.String("date", result.Date),
				zap.Int("written", result.Written),
			)
		}
	}

	os.Exit(exitCode)
}

func targetGroupKeys(ctx context.Context, repo *repository.Repository, groupKey string) ([]string, error) {
	if groupKey != "" {
		return []string{groupKey}, nil
	}
	groups, err := repo.Group.List(ctx)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(groups))
	for _, g := range groups {
		keys = append(keys, g.Key)
	}
	return keys, nil
}

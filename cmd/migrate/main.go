// migrate 管理 postgres 版本化 schema：up | down | status
package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/d60-Lab/tuneboxd/config"
	"github.com/d60-Lab/tuneboxd/pkg/database"
	"github.com/d60-Lab/tuneboxd/pkg/logger"
)

func main() {
	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.Database.Driver != "postgres" {
		logger.Fatal("versioned migrations require postgres; sqlite uses auto migrate",
			zap.String("driver", cfg.Database.Driver))
	}
	// 迁移由 goose 负责，关闭 gorm 自动建表
	cfg.Database.AutoMigrate = false
	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Fatal("database init failed", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("database handle", zap.Error(err))
	}
	defer sqlDB.Close()

	m, err := database.NewMigrator(sqlDB)
	if err != nil {
		logger.Fatal("migrator init failed", zap.Error(err))
	}

	ctx := context.Background()
	switch cmd {
	case "up":
		err = m.Up(ctx)
	case "down":
		err = m.Down(ctx)
	case "status":
		var states []database.MigrationStatus
		states, err = m.Status(ctx)
		for _, s := range states {
			mark := "pending"
			if s.Applied {
				mark = "applied"
			}
			fmt.Printf("%-8d %-8s %s\n", s.Version, mark, s.Path)
		}
	default:
		fmt.Fprintf(os.Stderr, "usage: migrate [up|down|status]\n")
		os.Exit(2)
	}
	if err != nil {
		logger.Fatal("migrate failed", zap.String("cmd", cmd), zap.Error(err))
	}
}

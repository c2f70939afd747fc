package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/d60-Lab/wordstack/config"
	"github.com/d60-Lab/wordstack/internal/model"
	"github.com/d60-Lab/wordstack/internal/seed"
	"github.com/d60-Lab/wordstack/pkg/database"
	"github.com/d60-Lab/wordstack/pkg/logger"
)

// 用法：go run ./cmd/seed；设置 ADMIN_ID（可选 ADMIN_USERNAME）时同时创建管理员资料
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Fatal("init database", zap.Error(err))
	}
	defer database.Close(db)
	if err := model.AutoMigrate(db); err != nil {
		logger.Fatal("auto migrate", zap.Error(err))
	}

	ctx := context.Background()
	sum, err := seed.Run(ctx, db)
	if err != nil {
		logger.Fatal("seed", zap.Error(err))
	}
	fmt.Printf("seeded eras=%d poets=%d themes=%d poems=%d links=%d\n", sum.Eras, sum.Poets, sum.Themes, sum.Poems, sum.Links)

	if id := os.Getenv("ADMIN_ID"); id != "" {
		name := os.Getenv("ADMIN_USERNAME")
		if name == "" {
			name = "admin"
		}
		if err := seed.Admin(ctx, db, id, name); err != nil {
			logger.Fatal("seed admin", zap.Error(err))
		}
		fmt.Printf("admin profile ready: %s\n", id)
	}
}

package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	api "github.com/quizforge/quizforge/internal/api/http"
	"github.com/quizforge/quizforge/internal/auth"
	"github.com/quizforge/quizforge/internal/bank"
	"github.com/quizforge/quizforge/internal/config"
	"github.com/quizforge/quizforge/internal/db"
	"github.com/quizforge/quizforge/internal/storage"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := config.FromEnv()

	var store bank.Store
	switch cfg.DBDriver {
	case "memory":
		store = bank.NewInMemoryStore()
	default:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
		if err != nil {
			log.Fatalf("db open failed: %v", err)
		}
		store = bank.NewSQLStore(dbh)
	}

	blobBase := os.Getenv("BLOB_BASE_PATH")
	var blobs *storage.FSStore
	if blobBase != "" {
		var err error
		blobs, err = storage.NewFSStore(blobBase)
		if err != nil {
			log.Fatalf("blob store: %v", err)
		}
	}

	authSvc := auth.NewAuthService(cfg.AuthSecret)
	handler := api.New(cfg, store, authSvc, blobs, log)

	log.WithFields(logrus.Fields{"addr": cfg.HTTPAddr, "mode": cfg.Mode, "db": cfg.DBDriver}).
		Info("gateway listening")
	if err := http.ListenAndServe(cfg.HTTPAddr, handler); err != nil {
		log.Fatalf("http server: %v", err)
	}
}

// Package http assembles the gateway's routes. The presentation frontend is
// an external collaborator; everything here serves it the normalized data
// model and grading verdicts.
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/quizforge/quizforge/internal/auth"
	"github.com/quizforge/quizforge/internal/bank"
	"github.com/quizforge/quizforge/internal/config"
	"github.com/quizforge/quizforge/internal/rbac"
	"github.com/quizforge/quizforge/internal/storage"
)

// New builds the gateway router. blobs may be nil to disable upload
// archiving.
func New(cfg config.Config, store bank.Store, authSvc *auth.AuthService, blobs *storage.FSStore, log *logrus.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(RequestLogger(log))
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, cfg.AdminUser, cfg.AdminPassHash))

	// Protected API (JWT -> role in context -> RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.With(rbac.Require("bank:create")).
			Post("/banks", UploadBankHandler(store, blobs, cfg.MaxChoices))
		if cfg.Mode == config.ModeOffline {
			// Reads from the gateway host's filesystem; never exposed online.
			pr.With(rbac.Require("bank:import")).
				Post("/banks/import-folder", ImportFolderHandler(store, cfg.MaxChoices))
		}
		pr.With(rbac.Require("bank:view")).
			Get("/banks", ListBanksHandler(store))
		pr.With(rbac.Require("bank:view")).
			Get("/banks/{bankID}", GetBankHandler(store, false))
		pr.With(rbac.Require("bank:view-full")).
			Get("/banks/{bankID}/full", GetBankHandler(store, true))

		pr.With(rbac.Require("attempt:create")).
			Post("/attempts", CreateAttemptHandler(store))
		pr.With(rbac.Require("attempt:save")).
			Post("/attempts/{attemptID}/responses", SaveResponsesHandler(store))
		pr.With(rbac.Require("attempt:submit")).
			Post("/attempts/{attemptID}/submit", SubmitAttemptHandler(store))
		pr.With(rbac.RequireAny("attempt:view-own", "attempt:view-all")).
			Get("/attempts/{attemptID}", GetAttemptHandler(store))
		pr.With(rbac.RequireAny("attempt:view-own", "attempt:view-all")).
			Get("/attempts/{attemptID}/report", AttemptReportHandler(store))
	})

	return r
}

package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/skillsync/skillsync/internal/api/http"
	"github.com/skillsync/skillsync/internal/auth"
	"github.com/skillsync/skillsync/internal/bank"
	"github.com/skillsync/skillsync/internal/config"
	"github.com/skillsync/skillsync/internal/db"
	"github.com/skillsync/skillsync/internal/quiz"
	"github.com/skillsync/skillsync/internal/rbac"
	"github.com/skillsync/skillsync/internal/storage"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	store := quiz.NewSQLStore(dbh)
	settings := quiz.NewSettings(store)
	if err := settings.EnsureDefaults(ctx); err != nil {
		log.Fatalf("settings bootstrap: %v", err)
	}
	engine := quiz.NewEngine(store, settings)
	loader := bank.NewLoader(store)
	users := auth.NewUserStore(dbh)
	authSvc := auth.NewAuthService(cfg.AuthSecret, cfg.TokenTTL)

	if cfg.SeedOnStart {
		if qs, err := store.ListQuestions(ctx); err == nil && len(qs) == 0 {
			if res, err := loader.Seed(ctx); err != nil {
				log.Printf("seed: %v", err)
			} else {
				log.Printf("seeded %d sample questions", res.Inserted)
			}
		}
	}

	blobs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/register", auth.RegisterHandler(users, authSvc))
	r.Post("/auth/login", auth.LoginHandler(users, authSvc))

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		// Student quiz flow
		pr.With(rbac.Require("quiz:take")).
			Get("/quiz/generate/{studentID}", api.GenerateQuizHandler(engine))
		pr.With(rbac.Require("quiz:take")).
			Post("/quiz/submit", api.SubmitQuizHandler(engine))
		pr.With(rbac.RequireAny("quiz:view-own", "quiz:view-all")).
			Get("/quiz/dashboard/{studentID}", api.DashboardHandler(engine))
		pr.With(rbac.RequireAny("quiz:view-own", "quiz:view-all")).
			Get("/quiz/profile/{studentID}", api.TopicProfileHandler(engine))

		// Student registry
		pr.With(rbac.Require("student:register")).
			Post("/students", api.CreateStudentHandler(store))
		pr.With(rbac.RequireAny("quiz:view-own", "quiz:view-all")).
			Get("/students/sap/{sap}", api.StudentBySAPHandler(store))

		// Uploads (stored only; parsed elsewhere)
		pr.With(rbac.Require("files:own")).
			Post("/files", api.UploadFileHandler(users, blobs))
		pr.With(rbac.Require("files:own")).
			Get("/files", api.ListFilesHandler(users))

		// Admin: bank management
		pr.With(rbac.Require("bank:list")).
			Get("/quiz/questions", api.ListQuestionsHandler(store))
		pr.With(rbac.Require("bank:manage")).
			Post("/quiz/questions", api.AddQuestionHandler(store))
		pr.With(rbac.Require("bank:manage")).
			Post("/quiz/questions/import", api.ImportQuestionsJSONHandler(loader))
		pr.With(rbac.Require("bank:manage")).
			Post("/quiz/questions/import-xlsx", api.ImportQuestionsXLSXHandler(loader))
		pr.With(rbac.Require("bank:manage")).
			Post("/quiz/seed", api.SeedQuestionsHandler(loader))

		// Admin: policy tunables
		pr.With(rbac.Require("settings:read")).
			Get("/quiz/settings", api.ListSettingsHandler(settings))
		pr.With(rbac.Require("settings:write")).
			Post("/quiz/settings", api.UpdateSettingHandler(settings))

		// Admin: accounts
		pr.With(rbac.Require("users:list")).
			Get("/admin/users", api.ListUsersHandler(users))
	})

	log.Printf("listening on %s (db=%s)", cfg.HTTPAddr, cfg.DBDriver)
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		log.Fatal(err)
	}
}

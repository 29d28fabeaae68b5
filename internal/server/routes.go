package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	store := deps.Store

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("FarmQuest API", "/openapi.json", "/docs"))
	r.Get("/ws/events", handleWSEvents(logger, deps.Broker))

	r.Route("/api", func(r chi.Router) {
		r.Get("/events", handleEvents(deps.Broker))
		r.Put("/language", handleSetLanguage(deps.Language))

		r.Route("/session", func(r chi.Router) {
			r.Get("/", handleGetSession(store))
			r.Post("/", handleInitSession(store))
			r.Delete("/", handleClearSession(store))
			r.Post("/continue", handleContinueSession(store))
			r.Post("/load", handleLoadSession(store))
			r.With(requireSession(store)).Put("/crop", handleSelectCrop(store))
		})

		// Everything below needs an active session.
		r.Group(func(r chi.Router) {
			r.Use(requireSession(store))

			r.Get("/levels", handleListLevels(store))
			r.Route("/levels/{levelID}", func(r chi.Router) {
				r.Use(levelIDMiddleware)
				r.Get("/progress", handleLevelProgress(store))
				r.Post("/start", handleStartLevel(store))
				r.Post("/start-with-questions", handleStartLevelWithQuestions(store))
			})

			r.Route("/attempt", func(r chi.Router) {
				r.Get("/question", handleCurrentQuestion(store))
				r.Post("/select", handleSelectAnswer(store))
				r.Post("/submit", handleSubmitAnswer(store))
				r.Post("/next", handleNextQuestion(store))
				r.Post("/finish", handleFinishLevel(store))
			})
		})
	})

	if deps.WebDir != "" {
		if info, err := os.Stat(deps.WebDir); err == nil && info.IsDir() {
			logger.Info("serving web client", "dir", deps.WebDir)
			r.NotFound(handleSPA(os.DirFS(deps.WebDir)))
		}
	}
}

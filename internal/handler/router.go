package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/todo-api/pkg/respond"
)

func NewRouter(todos *TodoHandler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter() // Создаем роутер
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, r, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route(basePath, func(r chi.Router) {
		r.Get("/", todos.List)
		r.Post("/", todos.Create)
		r.Get("/{id:[0-9]+}", todos.Get)
		r.Put("/{id:[0-9]+}", todos.Update)
		r.Delete("/{id:[0-9]+}", todos.Delete)
	})

	return r
}

package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tasknest/tasknest-api/internal/api/middleware"
	"github.com/tasknest/tasknest-api/internal/api/shared"
)

// buildRouter assembles the chi router. Registration, login, the public
// picture read and the health check are open; everything else sits
// behind bearer-token authentication.
func (a *application) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.TraceMiddleware())

	r.Get("/health", handleHealth)

	r.Post("/users", a.authHandler.Register)
	r.Post("/users/login", a.authHandler.Login)
	r.Get("/tasks/{id}/picture", a.taskHandler.GetPicture)

	r.Group(func(r chi.Router) {
		r.Use(a.authMw.Authenticate)

		r.Get("/users/me", a.authHandler.GetMe)
		r.Delete("/users/me", a.authHandler.DeleteMe)

		r.Post("/tasks", a.taskHandler.Create)
		r.Get("/tasks", a.taskHandler.List)
		r.Get("/tasks/{id}", a.taskHandler.Get)
		r.Patch("/tasks/{id}", a.taskHandler.Update)
		r.Delete("/tasks/{id}", a.taskHandler.Delete)
		r.Post("/tasks/{id}", a.taskHandler.UploadPicture)
		r.Delete("/tasks/{id}/picture", a.taskHandler.DeletePicture)
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

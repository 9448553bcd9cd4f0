package http

import (
	"github.com/MKhiriev/go-task-keeper/internal/ratelimit"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// APIPrefix is the mount point of every route.
const APIPrefix = "/api/v1"

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(h.withTraceID, h.withLogging, middleware.Recoverer)
	router.Use(middleware.Compress(5, "application/json"))
	router.Use(withGzipRequest)
	if h.requestTimeout > 0 {
		router.Use(middleware.Timeout(h.requestTimeout))
	}

	router.NotFound(notFound)
	router.MethodNotAllowed(CheckHTTPMethod(router))

	router.Route(APIPrefix, func(r chi.Router) {
		r.Get("/health", h.health)
		r.Get("/version", h.getServerVersion)

		r.Route("/auth", func(r chi.Router) {
			// anonymous auth endpoints share the strict budget
			r.Group(func(r chi.Router) {
				r.Use(h.withRateLimit(ratelimit.ClassAuth))
				r.Post("/register", h.register)
				r.Post("/login", h.login)
				r.Post("/refresh", h.refresh)
				r.Post("/request-password-reset", h.requestPasswordReset)
				r.Post("/reset-password", h.resetPassword)
			})

			r.Group(func(r chi.Router) {
				r.Use(h.auth)
				r.Post("/logout", h.logout)
				r.Get("/me", h.me)
				r.Put("/me", h.updateMe)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(h.withRateLimit(ratelimit.ClassGeneral), h.auth)

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", h.listCategories)
				r.Post("/", h.createCategory)
				r.Get("/{id}", h.getCategory)
				r.Put("/{id}", h.updateCategory)
				r.Delete("/{id}", h.deleteCategory)
				r.Get("/{id}/tasks", h.listCategoryTasks)
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", h.listTasks)
				r.Post("/", h.createTask)
				r.Get("/stats/overview", h.taskStats)
				r.Get("/{id}", h.getTask)
				r.Put("/{id}", h.updateTask)
				r.Delete("/{id}", h.deleteTask)
				r.Post("/{id}/restore", h.restoreTask)
				r.Post("/{id}/archive", h.archiveTask)
			})
		})
	})

	return router
}

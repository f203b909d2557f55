package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterConfig struct {
	CORSOrigins []string
}

func NewRouter(h *Handler, cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))

	// rate limit (100 req / minute by IP)
	r.Use(httprate.LimitByIP(100, 1*time.Minute))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   originsIfSet(cfg.CORSOrigins),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/registration", h.Register)
		r.Post("/login", h.Login)
		r.Post("/refresh-token", h.Refresh)
		r.Post("/logout", h.Logout)
	})

	r.Route("/security", func(r chi.Router) {
		r.Get("/devices", h.ListDevices)
		r.Delete("/devices", h.TerminateOtherDevices)
		r.Delete("/devices/{deviceId}", h.TerminateDevice)
	})

	r.Route("/blogs", func(r chi.Router) {
		r.Get("/", h.ListBlogs)
		r.Get("/{blogId}", h.GetBlog)
		r.Get("/{blogId}/posts", h.ListPosts)

		r.Group(func(r chi.Router) {
			r.Use(h.RequireAccess)
			r.Post("/", h.CreateBlog)
			r.Put("/{blogId}", h.UpdateBlog)
			r.Delete("/{blogId}", h.DeleteBlog)
			r.Post("/{blogId}/posts", h.CreatePost)
		})
	})

	r.Route("/posts", func(r chi.Router) {
		r.Get("/{postId}", h.GetPost)
		r.Get("/{postId}/comments", h.ListComments)

		r.Group(func(r chi.Router) {
			r.Use(h.RequireAccess)
			r.Put("/{postId}", h.UpdatePost)
			r.Delete("/{postId}", h.DeletePost)
			r.Post("/{postId}/comments", h.CreateComment)
			r.Put("/{postId}/like-status", h.SetPostLikeStatus)
		})
	})

	r.Route("/comments", func(r chi.Router) {
		r.Get("/{commentId}", h.GetComment)

		r.Group(func(r chi.Router) {
			r.Use(h.RequireAccess)
			r.Put("/{commentId}", h.UpdateComment)
			r.Delete("/{commentId}", h.DeleteComment)
			r.Put("/{commentId}/like-status", h.SetCommentLikeStatus)
		})
	})

	return r
}

func originsIfSet(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

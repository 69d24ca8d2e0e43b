package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/GoArmGo/ArtGenApp/internal/handler"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// runServer запускает HTTP сервер
func (a *App) runServer(ctx context.Context) error {
	h := handler.NewHandler(
		a.galleryUseCase,
		a.communityUseCase,
		a.generationUseCase,
		a.generateLimiter,
		a.logger,
	)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(a.Config.RequestTimeout))
	r.Use(handler.RequestLogger(a.logger))

	r.Get("/health", a.healthCheck)

	// все остальные маршруты требуют идентичности
	r.Group(func(r chi.Router) {
		r.Use(handler.Authenticate(a.identity, a.logger))

		r.Post("/generate", h.GenerateImage)

		r.Get("/feed", h.GetFeed)
		r.Route("/posts/{postID}", func(r chi.Router) {
			r.Get("/", h.GetPostDetail)
			r.Post("/like", h.ToggleLike)
			r.Get("/like", h.GetLikeState)
			r.Get("/comments", h.GetComments)
			r.Post("/comments", h.CreateComment)
		})

		r.Route("/gallery", func(r chi.Router) {
			r.Get("/", h.GetGallery)
			r.Post("/upload", h.UploadImage)
			r.Put("/{imageID}", h.UpdateImage)
			r.Delete("/{imageID}", h.DeleteImage)
			r.Post("/{imageID}/share", h.ShareImage)
		})

		r.Get("/notifications", h.GetNotifications)
	})

	serverAddr := fmt.Sprintf(":%s", a.Config.ServerPort)
	server := &http.Server{
		Addr:    serverAddr,
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening", "addr", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful Shutdown
	select {
	case err := <-errCh:
		return fmt.Errorf("ошибка при запуске сервера: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutdown signal received, stopping server")

	ctxServer, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxServer); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	a.logger.Info("server stopped")
	return nil
}

// healthCheck отвечает 200, если бд доступна.
func (a *App) healthCheck(w http.ResponseWriter, r *http.Request) {
	if err := a.db.PingContext(r.Context()); err != nil {
		a.logger.Error("health check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}

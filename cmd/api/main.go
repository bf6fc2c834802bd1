package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alicebob/miniredis/v2"

	"precinct/internal/app"
	"precinct/internal/config"
	"precinct/internal/forum"
	"precinct/internal/search"
	"precinct/internal/session"
)

func main() {
	cfg := config.Load()

	catalog, err := forum.NewCatalog(forum.SeedCategories())
	if err != nil {
		log.Fatalf("catalog construction failed: %v", err)
	}
	store := forum.NewMemStore(catalog, forum.SeedUsers(), forum.SeedThreads(), forum.SeedPosts())

	// Without a configured Redis the server embeds one in-process, keeping
	// all state process-local.
	redisURL := strings.TrimSpace(cfg.RedisURL)
	if redisURL == "" {
		embedded, err := miniredis.Run()
		if err != nil {
			log.Fatalf("embedded redis failed: %v", err)
		}
		defer embedded.Close()
		redisURL = "redis://" + embedded.Addr()
		log.Printf("Using embedded redis for sessions")
	} else {
		log.Printf("Using external redis for sessions")
	}
	sessions, err := session.NewRedisStore(redisURL, cfg.SessionTTL)
	if err != nil {
		log.Fatalf("redis connection failed: %v", err)
	}
	defer sessions.Close()

	var meiliClient *search.Meili
	if strings.TrimSpace(cfg.MeiliURL) != "" {
		meiliClient = search.NewMeili(cfg.MeiliURL, cfg.MeiliMasterKey)
		defer meiliClient.Close()
	}
	searchService := search.NewService(meiliClient, search.NewMemory(store))
	searchService.Bootstrap(searchRecords(store.Snapshot()))

	service := app.NewService(store, searchService, sessions)
	httpServer := app.NewHTTPServer(service, cfg.CORSOrigin)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Precinct API listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func searchRecords(snap forum.Snapshot) ([]search.ThreadRecord, []search.PostRecord) {
	threads := make([]search.ThreadRecord, 0, len(snap.Threads))
	for _, t := range snap.Threads {
		threads = append(threads, search.ThreadRecord{
			ID: t.ID, Title: t.Title, CategoryID: t.CategoryID, AuthorID: t.AuthorID,
		})
	}
	posts := make([]search.PostRecord, 0, len(snap.Posts))
	for _, p := range snap.Posts {
		posts = append(posts, search.PostRecord{
			ID: p.ID, ThreadID: p.ThreadID, AuthorID: p.AuthorID, Body: p.Content,
		})
	}
	return threads, posts
}

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"learnhub/internal/api"
	"learnhub/internal/app/service"
	"learnhub/internal/common/security"
	"learnhub/internal/domain/repository"
	"learnhub/internal/platform/config"
	"learnhub/internal/platform/store"
	"learnhub/internal/remote"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")

	// 2. Initialize JWT
	security.InitJWT()
	fmt.Println("JWT initialized.")

	// 3. Initialize the persistent store
	kv := store.ConnectRedis(
		config.AppConfig.RedisAddr,
		config.AppConfig.RedisPassword,
		config.AppConfig.RedisDB,
	)
	defer kv.Close()

	// 4. Initialize the remote service client
	remoteAPI := remote.NewClient(config.AppConfig.RemoteAPIBaseURL, config.AppConfig.RemoteAPITimeout)

	// 5. Initialize Repositories
	prefix := config.AppConfig.StoreKeyPrefix
	userRepo := repository.NewKVUserRepository(kv, prefix)
	sessionRepo := repository.NewKVSessionRepository(kv, prefix)
	courseRepo := repository.NewKVCourseRepository(kv, prefix)
	enrollmentRepo := repository.NewKVEnrollmentRepository(kv, prefix)

	// 6. Initialize Services
	identityService := service.NewIdentityService(userRepo, sessionRepo, remoteAPI)
	catalogService := service.NewCatalogService(courseRepo, enrollmentRepo, remoteAPI, identityService)

	catalogService.Subscribe(func(event service.Event) {
		if event.Kind == service.EventCourseCompleted {
			log.Printf("User %s completed course %s", event.UserID, event.CourseID)
		}
	})

	// 7. Restore the session and hydrate state before serving anything
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()
	if err := identityService.Restore(startupCtx); err != nil {
		log.Printf("Session restore failed, starting logged out: %v", err)
	}
	if err := catalogService.Hydrate(startupCtx); err != nil {
		log.Fatalf("Could not hydrate catalog state: %v", err)
	}
	fmt.Println("Catalog state hydrated.")

	// 8. Initialize Router & HTTP Server
	router := api.NewRouter(identityService, catalogService)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully.")
}

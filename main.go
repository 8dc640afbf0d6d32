package main

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	cfg := LoadConfig()

	catalog, err := newCatalog(cfg)
	if err != nil {
		log.Fatalf("catalog: %v", err)
	}

	newStorage, err := storageFactory(cfg)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	auth := NewAuthProvider(cfg.JWTSecret)
	server := NewAPIServer(cfg.ListenAddr, catalog, auth, newStorage)
	if err := server.Run(); err != nil {
		log.Fatal(err)
	}
}

func newCatalog(cfg Config) (Catalog, error) {
	switch cfg.CatalogSource {
	case "static":
		return NewStaticCatalog(SeedProducts, SeedCategories), nil
	case "file":
		return LoadCatalogFile(cfg.CatalogFile)
	case "http":
		return NewHTTPCatalog(cfg.CatalogURL), nil
	case "postgres":
		pg, err := NewPostgresCatalog(cfg.PostgresConn)
		if err != nil {
			return nil, err
		}
		if err := pg.Init(); err != nil {
			return nil, err
		}
		return pg, nil
	}
	return nil, fmt.Errorf("unknown catalog source %q", cfg.CatalogSource)
}

func storageFactory(cfg Config) (func(string) (Storage, error), error) {
	switch cfg.StorageBackend {
	case "memory":
		return func(string) (Storage, error) { return NewMemoryStorage(), nil }, nil
	case "file":
		return func(sessionID string) (Storage, error) {
			return NewFileStorage(filepath.Join(cfg.StorageDir, sessionID+".json"))
		}, nil
	case "redis":
		return func(sessionID string) (Storage, error) {
			return NewRedisStorage(cfg.RedisAddr, sessionID)
		}, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}

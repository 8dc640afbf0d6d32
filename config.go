package main

import "os"

type Config struct {
	ListenAddr string
	JWTSecret  string

	// memory, file or redis
	StorageBackend string
	StorageDir     string
	RedisAddr      string

	// static, file, http or postgres
	CatalogSource string
	CatalogFile   string
	CatalogURL    string
	PostgresConn  string
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func LoadConfig() Config {
	return Config{
		ListenAddr:     getEnv("LISTEN_ADDR", ":8080"),
		JWTSecret:      getEnv("JWT_SECRET", "devSecret"),
		StorageBackend: getEnv("STORAGE_BACKEND", "file"),
		StorageDir:     getEnv("STORAGE_DIR", "./data"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		CatalogSource:  getEnv("CATALOG_SOURCE", "static"),
		CatalogFile:    getEnv("CATALOG_FILE", "./catalog.json"),
		CatalogURL:     getEnv("CATALOG_URL", ""),
		PostgresConn:   getEnv("POSTGRES_CONN", ""),
	}
}

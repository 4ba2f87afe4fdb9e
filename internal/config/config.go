package config

import (
	"log"
	"os"
	"strconv"
)

const (
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

type Config struct {
	Port         string
	DBDSN        string
	Store        string
	LogFile      string
	TemplatesDir string
	Seed         int64 // 0 picks a random seed
	GenerateMax  int
	DemoDevices  int // generated per category on first start with an empty store
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "devinv.db"
	} // sqlite file in working directory
	store := os.Getenv("STORE")
	if store != StoreMemory {
		store = StoreSQLite
	}
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./devinv.log"
	}
	templates := os.Getenv("TEMPLATES_DIR")
	if templates == "" {
		templates = "./web/templates"
	}

	cfg := Config{
		Port:         port,
		DBDSN:        dsn,
		Store:        store,
		LogFile:      logFile,
		TemplatesDir: templates,
		Seed:         int64(envInt("SEED", 0)),
		GenerateMax:  envInt("GENERATE_MAX", 50),
		DemoDevices:  envInt("DEMO_DEVICES", 0),
	}
	log.Printf("[config] PORT=%s STORE=%s DB_DSN=%s LOG_FILE=%s TEMPLATES_DIR=%s GENERATE_MAX=%d DEMO_DEVICES=%d",
		cfg.Port, cfg.Store, cfg.DBDSN, cfg.LogFile, cfg.TemplatesDir, cfg.GenerateMax, cfg.DemoDevices)
	return cfg
}

func envInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("[config] ignoring %s=%q: %v", key, raw, err)
		return def
	}
	return n
}

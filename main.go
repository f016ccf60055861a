// main.go
//
// Entry point for the word-ladder server. Loads configuration from the
// environment, builds the lexicon once, opens and migrates the SQLite
// database, wires the engine, and serves HTTP.

package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wordladder/go-server/internal/game"
	"github.com/wordladder/go-server/internal/httpserver"
	"github.com/wordladder/go-server/internal/ladder"
	"github.com/wordladder/go-server/internal/lexicon"
	"github.com/wordladder/go-server/internal/pairs"
	"github.com/wordladder/go-server/internal/store"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	lex, err := lexicon.New()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word lists")
	}

	db, err := openDB(getEnv("DATABASE_PATH", "./data/app.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	if err := migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	finder := ladder.NewFinder(lex)
	selector := pairs.NewSelector(time.Now)
	engine := game.NewEngine(lex, finder, selector, time.Now)

	mem := store.NewMemoryStore()
	srv := httpserver.New(mem, db, engine, lex)
	port := getEnv("PORT", "5175")
	log.Info().Str("port", port).Msg("starting wordladder server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

package main

import (
	"log"

	"github.com/joho/godotenv"

	"plantid-go/internal/ai"
	"plantid-go/internal/config"
	"plantid-go/internal/database"
	httpserver "plantid-go/internal/http"
	"plantid-go/internal/models"
	"plantid-go/internal/session"
	"plantid-go/internal/storage"
)

func main() {
	_ = godotenv.Load(".env")

	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal(err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Identification{}, &models.Session{}); err != nil {
		log.Fatal(err)
	}

	store, err := storage.NewStore(cfg.UploadDir)
	if err != nil {
		log.Fatal(err)
	}

	r := httpserver.NewServer(cfg, db, ai.NewClient(cfg), store, session.NewGormStore(db))
	log.Printf("listening on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/zavattaro/modinha-boutique-app/configs"
	"github.com/zavattaro/modinha-boutique-app/middlewares"
	"github.com/zavattaro/modinha-boutique-app/routes"
)

func main() {
	cfg := configs.LoadConfig()

	// DB
	configs.ConnectionDB(cfg.DBSource)
	configs.SetupDatabase()

	if err := configs.SeedAdmin(); err != nil {
		log.Fatalf("seed admin failed: %v", err)
	}
	if err := configs.SeedProducts(); err != nil {
		log.Fatalf("seed products failed: %v", err)
	}

	// HTTP
	r := gin.Default()
	r.Use(middlewares.CORSMiddleware())

	routes.RegisterRoutes(r, cfg)

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Println("server running at", addr)
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}

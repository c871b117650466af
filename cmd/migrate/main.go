package main

import (
	"flag"
	"log"

	"schoolhub_backend/internals/configs"
	database "schoolhub_backend/internals/databases"
	"schoolhub_backend/internals/seeds"
)

func main() {
	seed := flag.Bool("seed", false, "insert the platform accounts from internals/seeds after migrating")
	flag.Parse()

	configs.LoadEnv()
	db := configs.InitSeederDB()

	log.Println("[MIGRATE] running AutoMigrate...")
	if err := db.AutoMigrate(database.Models()...); err != nil {
		log.Fatalf("[MIGRATE] failed: %v", err)
	}
	log.Printf("[MIGRATE] %d tables up to date", len(database.Models()))

	if *seed {
		seeds.RunAllSeeds(db)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

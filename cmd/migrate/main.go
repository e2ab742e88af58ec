package main

import (
	"log"

	"github.com/joho/godotenv"

	"egsa-loan-service/internal/config"
	appDomain "egsa-loan-service/internal/domain/application"
	"egsa-loan-service/internal/infrastructure/db"
)

// One-shot schema migration for databases created before the
// monthly_payment column existed. AutoMigrate is additive, so running
// it against an up-to-date database changes nothing.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	gdb, err := db.Open(cfg)
	if err != nil {
		log.Fatal("failed to open database: ", err)
	}

	m := gdb.Migrator()
	hadColumn := m.HasTable(&appDomain.Application{}) &&
		m.HasColumn(&appDomain.Application{}, "monthly_payment")

	if err := gdb.AutoMigrate(&appDomain.Application{}); err != nil {
		log.Fatal("migration failed: ", err)
	}

	if hadColumn {
		log.Println("column 'monthly_payment' already exists, no changes made")
	} else {
		log.Println("applications schema migrated, 'monthly_payment' column ensured")
	}
}

// Bulk CSV import into the risk register from the command line.
// cmd/import-risks/main.go
package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"risk-management-api/config"
	"risk-management-api/services"
)

func main() {
	filePath := flag.String("file", "", "path to the CSV file to import")
	actorID := flag.Int("actor", 0, "user id recorded in the change log")
	flag.Parse()

	if *filePath == "" || *actorID <= 0 {
		log.Fatal("usage: import-risks -file register.csv -actor <user_id>")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	config.InitDB()

	f, err := os.Open(*filePath)
	if err != nil {
		log.Fatal("Failed to open import file:", err)
	}
	defer f.Close()

	summary, err := services.NewRiskImportService(config.DB).ImportCSV(f, *actorID)
	if err != nil {
		log.Fatal("Import failed:", err)
	}

	log.Printf("Imported %d risks, skipped %d", summary.Imported, summary.Skipped)
	for _, e := range summary.Errors {
		log.Printf("  %s", e)
	}
}

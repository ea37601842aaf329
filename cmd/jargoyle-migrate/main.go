package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jargoyle/jargoyle/internal/config"
	"github.com/jargoyle/jargoyle/internal/database"
	"github.com/jargoyle/jargoyle/internal/session"
)

func main() {
	cmd := "up"
	if len(os.Args) > 2 {
		fmt.Println("Usage: jargoyle-migrate [up|sweep]")
		os.Exit(1)
	}
	if len(os.Args) == 2 {
		cmd = os.Args[1]
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := database.New(ctx, config.LoadDatabaseURL())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	switch cmd {
	case "up":
		if err := db.Migrate(ctx); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		fmt.Printf("Applied %d migrations\n", database.MigrationCount())
	case "sweep":
		n, err := session.NewPGStore(db).DeleteExpired(ctx, time.Now())
		if err != nil {
			log.Fatalf("Failed to delete expired sessions: %v", err)
		}
		fmt.Printf("Deleted %d expired sessions\n", n)
	default:
		fmt.Println("Usage: jargoyle-migrate [up|sweep]")
		os.Exit(1)
	}
}

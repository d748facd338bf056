// Package main provides admin account management for Folio.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"folio/internal/config"
	"folio/internal/database"
	"folio/internal/models"
	"folio/internal/repository"
	"folio/internal/service"
)

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  go run ./cmd/admin create <email> <password> [name]  - Create an admin account")
	fmt.Println("  go run ./cmd/admin passwd <email> <password>         - Set an admin password")
	fmt.Println("  go run ./cmd/admin list                              - List admin accounts")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = database.Close(db) }()

	accounts := repository.NewAccountRepository(db)
	ctx := context.Background()

	switch command := os.Args[1]; command {
	case "create":
		if len(os.Args) < 4 {
			usage()
			os.Exit(1)
		}
		name := "Admin"
		if len(os.Args) > 4 {
			name = strings.Join(os.Args[4:], " ")
		}
		err = createAdmin(ctx, accounts, os.Args[2], os.Args[3], name)
	case "passwd":
		if len(os.Args) < 4 {
			usage()
			os.Exit(1)
		}
		err = setPassword(ctx, accounts, os.Args[2], os.Args[3])
	case "list":
		err = listAdmins(ctx, accounts)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		usage()
		os.Exit(1)
	}

	if err != nil {
		log.Fatalf("%s failed: %v", os.Args[1], err)
	}
}

func createAdmin(ctx context.Context, accounts repository.AccountRepository, email, password, name string) error {
	hash, err := service.HashPassword(password)
	if err != nil {
		return err
	}
	account := &models.Account{Name: name, Email: email, PasswordHash: hash}
	if err := accounts.Create(ctx, account); err != nil {
		return err
	}
	fmt.Printf("Created admin %s (ID: %d)\n", account.Email, account.ID)
	return nil
}

func setPassword(ctx context.Context, accounts repository.AccountRepository, email, password string) error {
	account, err := accounts.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if account == nil {
		return fmt.Errorf("no account with email %s", email)
	}
	hash, err := service.HashPassword(password)
	if err != nil {
		return err
	}
	if err := accounts.UpdatePassword(ctx, account.ID, hash); err != nil {
		return err
	}
	fmt.Printf("Password updated for %s\n", account.Email)
	return nil
}

func listAdmins(ctx context.Context, accounts repository.AccountRepository) error {
	list, err := accounts.List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("No admin accounts")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tEMAIL\tNAME\tCREATED")
	for _, a := range list {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", a.ID, a.Email, a.Name, a.CreatedAt.Format("2006-01-02"))
	}
	return w.Flush()
}

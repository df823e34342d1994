package service

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"quill/app/repositories"
)

// HandleCommand handles database subcommands and returns an exit code.
func HandleCommand(args []string) int {
	if len(args) < 1 {
		printDbHelp()
		osExit(1)
		return 1
	}

	cmd := args[0]
	rest, err := parseDbFlags(args[1:])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		osExit(1)
		return 1
	}

	switch cmd {
	case "clean":
		err = clean()
	case "init":
		err = initDb()
	case "backup":
		_, err = backup()
	case "restore":
		if len(rest) < 1 {
			err = errors.New("backup file path required for restore")
		} else {
			err = restore(rest[0])
		}
	case "help":
		printDbHelp()
		return 0
	default:
		fmt.Printf("Unknown db command: %s\n\n", cmd)
		printDbHelp()
		osExit(1)
		return 1
	}

	if err != nil {
		fmt.Printf("Error: %v\n", err)
		osExit(1)
		return 1
	}
	return 0
}

// parseDbFlags applies -db and -backups and returns the positional args.
func parseDbFlags(args []string) ([]string, error) {
	fs := flag.NewFlagSet("db", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&dbPath, "db", dbPath, "badger database directory")
	fs.StringVar(&backupDir, "backups", backupDir, "backup directory")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return fs.Args(), nil
}

// printDbHelp prints help for database subcommands.
func printDbHelp() {
	helpText := `Usage: quill db <command> [-db <dir>] [-backups <dir>]

Commands:
  init                            Initialize a new empty database
  clean                           Remove the database
  backup                          Create a backup of the database
  restore <file>                  Restore database from backup
  help                            Display this help message
`
	fmt.Println(helpText)
}

// openStore opens the Badger store at dbPath. Opening fails while a
// running server holds the directory lock.
func openStore() (*repositories.Repository, error) {
	if dbPath == "" {
		return nil, errors.New("database path is empty")
	}
	repo, err := repositories.NewRepository(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return repo, nil
}

// contents counts the users and posts held by repo.
func contents(repo *repositories.Repository) (users, posts int, err error) {
	ctx := context.Background()
	us, err := repo.Users().List(ctx)
	if err != nil {
		return 0, 0, err
	}
	ps, err := repo.Posts().List(ctx, 0, 0)
	if err != nil {
		return 0, 0, err
	}
	return len(us), len(ps), nil
}

// clean drops every key and then removes the database directory.
func clean() error {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Println("Database is already clean (does not exist)")
		return nil
	}

	if !confirm("Are you sure you want to clean the database? This cannot be undone.") {
		fmt.Println("Operation cancelled")
		return nil
	}

	repo, err := openStore()
	if err != nil {
		return err
	}
	if err := repo.Clear(); err != nil {
		_ = repo.Close()
		return fmt.Errorf("failed to clear database: %w", err)
	}
	if err := repo.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	if err := os.RemoveAll(dbPath); err != nil {
		return fmt.Errorf("failed to remove database: %w", err)
	}
	fmt.Println("Database cleaned successfully")
	return nil
}

// initDb creates a new empty database at dbPath.
func initDb() error {
	if _, err := os.Stat(dbPath); err == nil {
		return fmt.Errorf("database already exists at %s; use 'clean' first to reinitialize", dbPath)
	}

	repo, err := openStore()
	if err != nil {
		return err
	}
	if err := repo.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	fmt.Println("Database initialized successfully")
	return nil
}

// backup writes a full backup of the database into backupDir and returns
// the file it wrote.
func backup() (string, error) {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return "", fmt.Errorf("no database exists to backup at %s", dbPath)
	}

	if err := os.MkdirAll(backupDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	repo, err := openStore()
	if err != nil {
		return "", err
	}
	defer repo.Close()

	users, posts, err := contents(repo)
	if err != nil {
		return "", fmt.Errorf("failed to read database: %w", err)
	}

	backupFile := filepath.Join(backupDir, fmt.Sprintf("backup_%d.db", time.Now().UnixNano()))
	f, err := os.Create(backupFile)
	if err != nil {
		return "", fmt.Errorf("failed to create backup file: %w", err)
	}

	_, err = repo.DB().Backup(f, 0)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(backupFile)
		return "", fmt.Errorf("failed to backup database: %w", err)
	}

	fmt.Printf("Database backed up successfully to %s (%d users, %d posts)\n", backupFile, users, posts)
	return backupFile, nil
}

// restore replaces the database with the contents of a backup file.
func restore(backupFile string) error {
	fi, err := os.Stat(backupFile)
	if os.IsNotExist(err) {
		return fmt.Errorf("backup file does not exist: %s", backupFile)
	}
	if err != nil {
		return fmt.Errorf("failed to stat backup file: %w", err)
	}
	if fi.Size() == 0 {
		return fmt.Errorf("backup file is empty: %s", backupFile)
	}

	if _, err := os.Stat(dbPath); err == nil {
		if !confirm("Existing database found. Do you want to replace it?") {
			fmt.Println("Operation cancelled")
			return nil
		}
		// Opening first refuses to replace a database a server is using.
		repo, err := openStore()
		if err != nil {
			return err
		}
		if err := repo.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		if err := os.RemoveAll(dbPath); err != nil {
			return fmt.Errorf("failed to remove existing database: %w", err)
		}
	}

	f, err := os.Open(backupFile)
	if err != nil {
		return fmt.Errorf("failed to open backup file: %w", err)
	}
	defer f.Close()

	repo, err := openStore()
	if err != nil {
		return err
	}
	defer repo.Close()

	err = func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic occurred during restore: %v", r)
			}
		}()
		return repo.DB().Load(f, 4)
	}()
	if err != nil {
		return fmt.Errorf("failed to restore database: %w", err)
	}

	users, posts, err := contents(repo)
	if err != nil {
		return fmt.Errorf("failed to read restored database: %w", err)
	}
	fmt.Printf("Database restored successfully (%d users, %d posts)\n", users, posts)
	return nil
}

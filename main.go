package main

import (
	"fmt"
	"os"
	"strings"

	"quill/service"
)

// CliVersion is reported by the version command.
const CliVersion = "1.0.0"

var exit = os.Exit

func main() {
	RealMain()
}

// RealMain dispatches os.Args to a subcommand.
func RealMain() {
	if len(os.Args) < 2 {
		printHelp()
		exit(1)
		return
	}

	cmd := strings.ToLower(os.Args[1])
	switch cmd {
	case "help":
		printHelp()
	case "version":
		fmt.Printf("quill version %s\n", CliVersion)
	case "serve":
		if code := service.RunAppServer(os.Args[2:]); code != 0 {
			exit(code)
		}
	case "db":
		if code := service.HandleCommand(os.Args[2:]); code != 0 {
			exit(code)
		}
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printHelp()
		exit(1)
	}
}

func printHelp() {
	helpText := `Usage: quill <command> [options]
Commands:
  help                           Display this help message.
  version                        Show version information.
  serve [options]                Run the API server.
      -a <addr>                  Listen address (default :8080).
      -s <secret>                Token signing secret (or QUILL_SECRET_KEY).
      -t <minutes>               Token lifetime (default 60).
      -storage badger|postgres   Storage backend (default badger).
      -db <dir>                  Badger directory (default data/badger).
      -d <dsn>                   PostgreSQL DSN.
      -cost <n>                  bcrypt cost.
      -log <level>               debug, info, warn or error.
      -c <file>                  JSON config file.
  db <command>                   Manage the Badger database:
      init                       Initialize a new empty database.
      clean                      Remove the database.
      backup                     Create a backup of the database.
      restore <file>             Restore database from backup.
`
	fmt.Println(helpText)
}

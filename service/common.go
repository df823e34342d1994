package service

import (
	"fmt"
	"os"
)

// Database path - variable to allow testing with different paths
var dbPath = "data/badger"

// Backup directory - variable to allow testing with different paths
var backupDir = "data/backups"

var osExit = os.Exit

// confirm asks a yes/no question on stdout and reads the answer from stdin.
func confirm(question string) bool {
	fmt.Print(question + " [y/N] ")
	var response string
	fmt.Scanln(&response)
	return response == "y" || response == "Y"
}

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/cmd/analyze"
	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/cmd/categorize"
	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/cmd/export"
	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/cmd/importcsv"
	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/cmd/root"
)

func init() {
	// Load environment variables silently first, so the log level is known
	// before any logging happens
	loadEnvSilently()
	configureLogLevelDirectly()

	root.Cmd.AddCommand(analyze.Cmd)
	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(export.Cmd)
	root.Cmd.AddCommand(importcsv.Cmd)
}

// loadEnvSilently loads environment variables without logging anything
func loadEnvSilently() {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return
		}
	}
	_ = godotenv.Load(envFile)
}

// configureLogLevelDirectly sets the global log level for all logrus
// instances before any command output
func configureLogLevelDirectly() {
	logLevelStr := os.Getenv("LOG_LEVEL")
	if logLevelStr == "" {
		logLevelStr = "info"
	}

	logLevel, err := logrus.ParseLevel(strings.ToLower(logLevelStr))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

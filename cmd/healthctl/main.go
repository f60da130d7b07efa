package main

import (
	"fmt"
	"healthassistant/internal/app"
	"healthassistant/internal/cli"
	"healthassistant/internal/config"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional for the CLI
	_ = godotenv.Load()

	if os.Getenv("HEALTHCTL_VERBOSE") == "" {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	return cli.NewRootCmd(a).Execute()
}

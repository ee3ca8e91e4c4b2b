package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/mkrebs/marksync/internal/cli"
)

func main() {
	// Optional .env for credentials like MARKSYNC_REMOTE_PASSWORD.
	_ = godotenv.Load()

	if err := cli.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

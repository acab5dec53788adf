package main

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	if err := newApp(defaultRunner()).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "memegallery: %v\n", err)
		os.Exit(1)
	}
}

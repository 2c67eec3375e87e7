package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/idilsaglam/storelocator/internal/cli"
	"github.com/idilsaglam/storelocator/internal/config"
)

func main() {
	// Root flags (apply to every subcommand)
	configPath := flag.String("config", config.DefaultPath(), "path to config.yaml")
	theme := flag.String("theme", "", "classic|neon|mono (overrides config)")
	flag.Parse()

	// Hand the remaining args to the CLI runner.
	args := flag.Args()
	if len(args) == 0 {
		args = []string{"browse"}
	}

	code := cli.Run(args, cli.Options{
		ConfigPath: *configPath,
		Theme:      *theme,
	})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}

package main

import (
	"flag"
	"log"

	"github.com/danmuck/locuslink/internal/config"
)

func main() {
	kind := flag.String("kind", "client", "config kind: client|hostsim")
	output := flag.String("output", "", "output path for config template")
	validate := flag.Bool("validate", false, "validate an existing config file")
	input := flag.String("input", "", "config path for validation (defaults to per-kind cmd path)")
	force := flag.Bool("force", false, "overwrite existing config file")
	flag.Parse()

	path, ok := defaultPath(*kind)
	if !ok {
		log.Fatalf("unknown kind: %s", *kind)
	}

	if *validate {
		if *input != "" {
			path = *input
		}
		switch *kind {
		case "client":
			if _, err := config.LoadClientConfig(path); err != nil {
				log.Fatal(err)
			}
		case "hostsim":
			if _, err := config.LoadHostSimConfig(path); err != nil {
				log.Fatal(err)
			}
		}
		log.Printf("Validated %s config at %s", *kind, path)
		return
	}

	if *output != "" {
		path = *output
	}
	if err := config.WriteTemplate(path, *kind, *force); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote %s config template to %s", *kind, path)
}

func defaultPath(kind string) (string, bool) {
	switch kind {
	case "client":
		return "cmd/locusctl/config.toml", true
	case "hostsim":
		return "cmd/hostsim/config.toml", true
	default:
		return "", false
	}
}

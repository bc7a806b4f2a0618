package config

import (
	"flag"
	"fmt"
)

const HelpMessage = `
uberspeed dispatch server

Usage:
  dispatch [-config-path config.yaml]

Configuration is read from the YAML file and the environment; environment
variables win. See config/config.go for the full list of variables.
`

func PrintHelp() {
	if HelpMessage != "" {
		fmt.Printf("%s", HelpMessage)
	} else {
		flag.Usage()
	}
}

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/adrg/xdg"
	"github.com/rkjdid/util"
	"github.com/rs/zerolog/log"
	"github.com/solar3s/ippower/logging"
	"github.com/solar3s/ippower/web"
)

const (
	exitOK     = 0
	exitConfig = 1
	exitUsage  = 2
	// exitFatal is returned on any error met talking to the firmware.
	exitFatal = 119
)

const defaultConfigFile = "ippower/config.toml"

var (
	cfgPath  = flag.String("config", "", "path to config (defaults to $XDG_CONFIG_HOME/"+defaultConfigFile+")")
	callPath = flag.String("path", "", "path to the ACPI call interface, overrides config")
	simulate = flag.Bool("sim", false, "drive an in-memory firmware instead of the ACPI call interface")
	output   = flag.String("o", "text", "output format: text, json or yaml")
	verbose  = flag.Bool("v", false, "debug logging, traces every ACPI call")
	version  = flag.Bool("version", false, "print version & exit")
)

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "usage: %s [flags] [command]\n\ncommands:\n", os.Args[0])
	fmt.Fprintln(out, "  status                  print every power setting (default)")
	fmt.Fprintln(out, "  get <setting>           print one setting")
	fmt.Fprintln(out, "  set <setting> <value>   change one setting")
	fmt.Fprintln(out, "  apply                   apply the profile from config")
	fmt.Fprintln(out, "  serve                   run the http API")
	fmt.Fprintln(out, "\nsettings: PerformanceMode, RapidCharge, BatteryConservation")
	fmt.Fprintln(out, "values: Intelligent, Performance, BatterySave, On, Off")
	fmt.Fprintln(out, "\nflags:")
	flag.PrintDefaults()
}

// loadConfig reads path over the defaults. A missing file is created with
// the defaults. An empty path stands for the XDG location.
func loadConfig(path string) (cfg *web.Config, loadedPath string, created bool, err error) {
	if path == "" {
		path, err = xdg.ConfigFile(defaultConfigFile)
		if err != nil {
			return nil, "", false, fmt.Errorf("couldn't locate config directory: %w", err)
		}
	}

	c := web.DefaultConfig
	err = util.ReadTomlFile(&c, path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, path, false, fmt.Errorf("error reading config %q: %w", path, err)
		}
		c = web.DefaultConfig
		if err = util.WriteTomlFile(c, path); err != nil {
			return nil, path, false, fmt.Errorf("error creating config %q: %w", path, err)
		}
		created = true
	}

	if err = c.Validate(); err != nil {
		return nil, path, created, fmt.Errorf("config %q: %w", path, err)
	}
	return &c, path, created, nil
}

func main() {
	flag.Usage = usage
	flag.Parse()

	// print version & exit
	if *version {
		fmt.Printf("ippower %s\n", Version)
		os.Exit(exitOK)
	}

	cfg, path, created, err := loadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitConfig)
	}
	if *callPath != "" {
		cfg.CallPath = *callPath
	}
	if *simulate {
		cfg.Simulate = true
	}
	if *verbose {
		cfg.Debug = true
		cfg.Web.Verbose = true
	}

	if err := logging.Init(cfg.Log, cfg.Debug); err != nil {
		fmt.Fprintln(os.Stderr, "error initializing logging:", err)
		os.Exit(exitConfig)
	}
	if created {
		log.Info().Str("path", path).Msg("created new config file")
	}
	log.Debug().Str("path", path).Msg("using config file")

	c := &cli{
		cfg:    cfg,
		out:    os.Stdout,
		errOut: os.Stderr,
		format: *output,
	}
	os.Exit(c.run(flag.Args()))
}

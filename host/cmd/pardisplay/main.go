package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"pardisplay/core"
	"pardisplay/host/backend"
	"pardisplay/host/config"
	"pardisplay/host/logging"
)

var (
	configPath = flag.String("config", "", "TOML configuration file")
	backendArg = flag.String("backend", "", "Port backend: ppdev, ubw or gpio")
	device     = flag.String("device", "", "Device path for the ppdev or ubw backend")
	controller = flag.String("controller", "", "Controller family (e.g. SED1335, GU3900, GU300)")
	protocol   = flag.String("protocol", "", "Protocol override: busy, channel or select")
	delay      = flag.Int("delay", -1, "Settle delay units after each register write")
	busyLimit  = flag.Int("busy-limit", -1, "Maximum busy polls per byte (0 = wait forever)")
	verbose    = flag.Bool("verbose", false, "Enable verbose output")
	list       = flag.Bool("list", false, "List known controllers and exit")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] [command args...]\n\n", os.Args[0])
		fmt.Fprintln(os.Stderr, "Without a command an interactive prompt is started.")
		flag.PrintDefaults()
		printHelp(os.Stderr)
	}
	flag.Parse()

	if *list {
		printControllers(os.Stdout)
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logCfg := logging.DefaultConfig(logging.ProfileRuntime)
	if lvl, ok := logging.ParseLevel(cfg.Log.Level); ok {
		logCfg.Level = lvl
	}
	if *verbose {
		logCfg.Level = zerolog.DebugLevel
	}
	logging.ApplyEnv(&logCfg)
	log := logging.New("pardisplay", logCfg)

	p, err := cfg.ResolveProtocol()
	if err != nil {
		log.Fatal().Err(err).Msg("no protocol")
	}

	port, err := backend.Open(cfg, log)
	if err != nil {
		log.Error().Err(err).Str("backend", cfg.Backend).Msg("failed to open port")
		os.Exit(1)
	}
	defer port.Close()

	s := &session{
		port:   port,
		writer: core.NewWriter(p, cfg.CoreTiming()).WithLogger(log),
		out:    os.Stdout,
	}
	log.Info().Str("protocol", p.String()).Str("controller", cfg.Controller).Msg("display ready")

	if args := flag.Args(); len(args) > 0 {
		if err := s.exec(args[0], args[1:]); err != nil && !errors.Is(err, errQuit) {
			log.Error().Err(err).Msg("command failed")
			port.Close()
			os.Exit(1)
		}
		return
	}

	// Interactive command loop
	fmt.Println("Enter commands (type 'help' for available commands, 'quit' to exit):")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		err := s.execLine(scanner.Text())
		if errors.Is(err, errQuit) {
			fmt.Println("Goodbye!")
			return
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}

	if err := scanner.Err(); err != nil {
		log.Error().Err(err).Msg("error reading input")
	}
}

// loadConfig reads the config file if given and applies flag overrides
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return nil, err
		}
	}

	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFlags(cfg *config.Config) {
	if *backendArg != "" {
		cfg.Backend = *backendArg
	}
	if *device != "" {
		switch cfg.Backend {
		case config.BackendUBW:
			cfg.UBW.Device = *device
		default:
			cfg.PPDev.Device = *device
		}
	}
	if *controller != "" {
		cfg.Controller = *controller
	}
	if *protocol != "" {
		cfg.Protocol = *protocol
	}
	if *delay >= 0 {
		cfg.Timing.SettleDelay = *delay
	}
	if *busyLimit >= 0 {
		cfg.Timing.BusyPollLimit = *busyLimit
	}
}

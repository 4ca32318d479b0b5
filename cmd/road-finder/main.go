package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ironsheep/road-finder/internal/cli"
	"github.com/ironsheep/road-finder/internal/config"
	"github.com/ironsheep/road-finder/internal/road"
	"github.com/ironsheep/road-finder/internal/server"
	"github.com/ironsheep/road-finder/internal/waypoint"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and --help before flag parsing
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("road-finder %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			usage()
			return
		}
	}

	var (
		mcp         = flag.Bool("mcp", false, "Serve MCP over stdin/stdout instead of prompting for paths")
		configPath  = flag.String("config", "", "Path to a TOML tuning file")
		output      = flag.String("output", "", "Path of the annotated image (default out.png)")
		maxWidth    = flag.Int("max-width", 0, "Downscale wider images to this width before processing")
		verbose     = flag.Bool("verbose", false, "Log every attempt at info level")
		jcodePath   = flag.String("jcode", "", "Write the waypoints of every success to this JCode file")
		port        = flag.String("serial", "", "Stream waypoints to the robot on this serial port")
		baud        = flag.Int("baud", 0, "Serial baud rate (default 115200)")
		markerColor = flag.String("marker-color", "", "Waypoint marker color as hex (default #FF0000)")
		labelDump   = flag.String("debug-labels", "", "Write the labeled working image of every success here")
	)
	flag.Usage = usage
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		fatal("failed to load configuration", err)
	}
	if err := settings.FromEnv(os.LookupEnv); err != nil {
		fatal("failed to read environment", err)
	}

	// Flags given explicitly win over file and environment
	var flagErr error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "output":
			settings.Output = *output
		case "max-width":
			settings.MaxWidth = *maxWidth
		case "verbose":
			settings.Road.Verbose = *verbose
		case "jcode":
			settings.Waypoints.JCodePath = *jcodePath
		case "serial":
			settings.Serial.Port = *port
		case "baud":
			settings.Serial.Baud = *baud
		case "marker-color":
			flagErr = errors.Join(flagErr, settings.SetMarkerColor(*markerColor))
		case "debug-labels":
			settings.Road.DebugLabelsPath = *labelDump
		}
	})
	if flagErr != nil {
		fatal("invalid flag", flagErr)
	}
	if err := settings.Validate(); err != nil {
		fatal("invalid configuration", err)
	}

	// Logging goes to stderr (stdout is for the prompt or the MCP protocol)
	level, _ := settings.Level()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	road.SetLogger(logger)
	slog.Debug("starting road-finder", "version", Version, "built", BuildTime, "commit", GitCommit)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *mcp {
		server.Version = Version
		if err := server.New(settings).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			fatal("server error", err)
		}
		return
	}

	loop := cli.New(settings, os.Stdin, os.Stdout, os.Stderr)
	if settings.Serial.Port != "" {
		dev, err := waypoint.OpenSerial(settings.Serial.Port, settings.Serial.Baud)
		if err != nil {
			fatal("failed to connect to robot", err)
		}
		defer dev.Close()
		// Controllers reset when the port opens
		time.Sleep(2 * time.Second)
		loop.Device = dev
	}
	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("input error", "error", err)
	}
}

func usage() {
	fmt.Println("road-finder - find the road in camera images")
	fmt.Println()
	fmt.Println("Usage: road-finder [options]")
	fmt.Println()
	fmt.Println("Prompts for image paths on stdin, writes each annotated result to")
	fmt.Println("out.png and logs a summary of the centerline. With --mcp it serves")
	fmt.Println("the same operations as an MCP server over stdin/stdout.")
	fmt.Println()
	fmt.Println("Annotated images mark each centerline point in the marker color and,")
	fmt.Println("unless [waypoints] simplify_tolerance is 0, draw the simplified")
	fmt.Println("centerline over them in green.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	flag.CommandLine.SetOutput(os.Stdout)
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  ROAD_FINDER_LOG_LEVEL=debug    Enable debug logging")
	fmt.Println("  ROAD_FINDER_OUTPUT=path        Annotated image path")
	fmt.Println("  ROAD_FINDER_MAX_WIDTH=n        Downscale wider images")
}

func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Fatal: %s: %v\n", msg, err)
	os.Exit(1)
}

package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/woozymasta/geocrs/internal/config"
	"github.com/woozymasta/geocrs/internal/logger"
	"github.com/woozymasta/geocrs/internal/processor"
	"github.com/woozymasta/geocrs/internal/server"
	"github.com/woozymasta/geocrs/pkg/proj"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config"     env:"CONFIG_FILE"    description:"Optional configuration file"`
	Addr       string `short:"a" long:"addr"       env:"LISTEN_ADDRESS" description:"Address to listen on"          default:"0.0.0.0"`
	Port       int    `short:"p" long:"port"       env:"LISTEN_PORT"    description:"Port to listen on"             default:"8080"`
	MaxBody    int64  `short:"m" long:"max-body"   env:"MAX_BODY"       description:"Maximum request size in bytes" default:"33554432"`
	Projection string `short:"P" long:"projection" env:"PROJECTION"     description:"Default target projection for obsolete output"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	// Setup Logging
	opts.Logger.Setup()

	// Load Config
	cfg := &config.Config{}
	if opts.ConfigFile != "" {
		var err error
		cfg, err = config.Load(opts.ConfigFile)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
	}

	if opts.Projection != "" {
		cfg.DefaultProjection = opts.Projection
	}

	if err := processor.RegisterProjections(proj.Default, cfg.Projections); err != nil {
		log.Fatal().Err(err).Msg("Failed to register projections")
	}

	srvCtx := server.NewServerContext(cfg, proj.Default)
	if opts.MaxBody > 0 {
		srvCtx.MaxBodySize = opts.MaxBody
	}

	listenAddr := fmt.Sprintf("%s:%d", opts.Addr, opts.Port)
	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           srvCtx.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().
		Str("addr", listenAddr).
		Msg("Web server started")

	if err := srv.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

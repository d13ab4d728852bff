package main

import (
	"os"

	"github.com/woozymasta/geocrs/internal/config"
	"github.com/woozymasta/geocrs/internal/logger"
	"github.com/woozymasta/geocrs/internal/processor"
	"github.com/woozymasta/geocrs/pkg/geocrs"
	"github.com/woozymasta/geocrs/pkg/proj"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config"     env:"CONFIG_FILE" description:"Optional configuration file with custom projections"`
	Input      string `short:"i" long:"in"         description:"Input GeoJSON path. Reads from stdin if empty"`
	Output     string `short:"o" long:"out"        description:"Output path. Writes to stdout if empty"`
	Projection string `short:"P" long:"projection" env:"PROJECTION" description:"Target projection identifier (default EPSG:3857)"`
	Datum      string `short:"d" long:"datum"      description:"PROJ.4 definition registered under --projection"`
	InFormat   string `short:"I" long:"in-format"  description:"Input format, guessed from extension if empty" choice:"json" choice:"yaml"`
	Format     string `short:"f" long:"format"     description:"Output format" choice:"json" choice:"yaml" default:"json"`
	Precision  int    `long:"precision"            description:"Significant digits kept in JSON numbers, 0 keeps all"`
	Indent     bool   `long:"indent"               description:"Indent JSON output"`
	AllKinds   bool   `short:"A" long:"all-kinds"  description:"Also reproject bare Feature, geometry and GeometryCollection documents"`
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

	opts.Logger.Setup()

	projection := opts.Projection
	if opts.ConfigFile != "" {
		cfg, err := config.Load(opts.ConfigFile)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
		if err := processor.RegisterProjections(proj.Default, cfg.Projections); err != nil {
			log.Fatal().Err(err).Msg("Failed to register projections")
		}
		if projection == "" {
			projection = cfg.DefaultProjection
		}
	}

	if opts.Datum != "" && projection == "" {
		log.Warn().Msg("--datum ignored without --projection")
	}

	doc, err := processor.ReadDocument(opts.Input, opts.InFormat)
	if err != nil {
		log.Fatal().Err(err).Str("input", opts.Input).Msg("Failed to read document")
	}

	var convOpts []geocrs.Option
	if opts.AllKinds {
		convOpts = append(convOpts, geocrs.WithAllKinds())
	}

	out, err := geocrs.New(convOpts...).Obsolete(doc, projection, opts.Datum)
	if err != nil {
		log.Fatal().Err(err).Str("projection", projection).Msg("Failed to convert document")
	}

	err = processor.WriteDocument(opts.Output, out, processor.Output{
		Format:    opts.Format,
		Precision: opts.Precision,
		Indent:    opts.Indent,
	})
	if err != nil {
		log.Fatal().Err(err).Str("output", opts.Output).Msg("Failed to write document")
	}

	log.Debug().
		Str("type", out.Type).
		Str("crs", out.CRS.Properties.Name).
		Msg("Document converted")
}

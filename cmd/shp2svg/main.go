package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"shp2svg/internal/geom"
	"shp2svg/internal/render"
	"shp2svg/internal/server"
	"shp2svg/internal/svgpath"
	"shp2svg/internal/tui"
)

func main() {
	def := svgpath.DefaultOptions()
	maxSize := flag.Float64("max-size", def.MaxSize, "pixel length of the longer side of the extent")
	key := flag.String("key", def.Key, "attribute whose value keys each path")
	tx := flag.Int("translate-x", 0, "horizontal offset added to every coordinate")
	ty := flag.Int("translate-y", 0, "vertical offset added to every coordinate")
	centroid := flag.Bool("centroid", false, "include the projected centroid of each shape")
	format := flag.String("format", "json", "output format (json, svg)")
	outPath := flag.String("o", "", "output file path (default: stdout)")
	title := flag.String("title", "", "SVG document title (default: collection name)")
	labels := flag.Bool("labels", false, "label centroids with their key in SVG output")
	serve := flag.String("serve", "", "serve the datasets over HTTP on this address, e.g. :8080")
	preview := flag.Bool("tui", false, "open the dataset in the terminal previewer")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: shp2svg [flags] FILE...\n\nReads .geojson, .json, .wkt, .csv and .kml polygon datasets.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()

	opts := svgpath.Options{
		MaxSize:         *maxSize,
		Key:             *key,
		Offset:          svgpath.Offset{DX: *tx, DY: *ty},
		IncludeCentroid: *centroid,
	}

	if *preview {
		var m tea.Model
		if flag.NArg() > 0 {
			m = tui.NewWithPath(flag.Arg(0), opts)
		} else {
			m = tui.New(opts)
		}
		if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run(); err != nil {
			log.Fatal().Err(err).Msg("previewer failed")
		}
		return
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	reg := server.NewRegistry()
	var first *geom.Collection
	for _, p := range flag.Args() {
		c, err := geom.Load(p)
		if err != nil {
			log.Fatal().Err(err).Str("path", p).Msg("load dataset")
		}
		log.Debug().Str("collection", c.Slug).Int("shapes", len(c.Shapes)).Strs("fields", c.Fields).Msg("loaded")
		reg.Add(c)
		if first == nil {
			first = c
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *serve != "" {
		if err := runServer(ctx, *serve, server.NewHandler(reg, log, opts), log); err != nil {
			log.Fatal().Err(err).Msg("server failed")
		}
		return
	}

	if flag.NArg() > 1 {
		log.Warn().Int("datasets", flag.NArg()).Msg("only the first dataset is converted; use -serve for several")
	}
	c := first

	res, err := svgpath.ProjectContext(ctx, c.Shapes, opts)
	if err != nil {
		log.Fatal().Err(err).Str("collection", c.Slug).Msg("projection failed")
	}
	log.Info().
		Str("collection", c.Slug).
		Int("paths", len(res.Paths)).
		Int("width", res.Canvas.Width).
		Int("height", res.Canvas.Height).
		Float64("scale", res.Scale).
		Msg("projected")

	var out io.Writer = os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatal().Err(err).Msg("create output")
		}
		defer f.Close()
		out = f
	}

	switch *format {
	case "json":
		enc := json.NewEncoder(out)
		err = enc.Encode(res)
	case "svg":
		st := render.DefaultStyle()
		st.Title = *title
		if st.Title == "" {
			st.Title = c.Name
		}
		st.Labels = *labels
		err = render.WriteSVG(out, res, st)
	default:
		log.Fatal().Str("format", *format).Msg("unknown format")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("write output")
	}
}

func runServer(ctx context.Context, addr string, h *server.Handler, log zerolog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("listening")
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

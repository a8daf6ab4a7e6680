package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/joho/godotenv"
	"github.com/namsral/flag"
	opentracing "github.com/opentracing/opentracing-go"
	zipkin "github.com/openzipkin/zipkin-go-opentracing"

	"github.com/retro-framework/glob-playground/framework"
	"github.com/retro-framework/glob-playground/framework/controller"
	"github.com/retro-framework/glob-playground/framework/matcher"
	"github.com/retro-framework/glob-playground/projections"
)

type config struct {
	port        string
	engine      string
	logLevel    string
	sessionSize int
	sessionTTL  time.Duration
	zipkinURL   string
	influxAddr  string
	influxDB    string
}

func parseConfig(args []string) (config, error) {
	var (
		cfg config
		fs  = flag.NewFlagSet("playground-server", flag.ContinueOnError)
	)
	fs.StringVar(&cfg.port, "port", "8080", "port to listen on")
	fs.StringVar(&cfg.engine, "engine", matcher.DefaultEngine, "glob engine for new sessions")
	fs.StringVar(&cfg.logLevel, "log_level", "info", "debug, info, warn or error")
	fs.IntVar(&cfg.sessionSize, "session_size", 1024, "maximum number of live sessions")
	fs.DurationVar(&cfg.sessionTTL, "session_ttl", 6*time.Hour, "idle time after which a session expires")
	fs.StringVar(&cfg.zipkinURL, "zipkin_url", "", "zipkin span collector, e.g. http://localhost:9411/api/v1/spans")
	fs.StringVar(&cfg.influxAddr, "influx_addr", "", "influxdb address, e.g. http://localhost:8086")
	fs.StringVar(&cfg.influxDB, "influx_db", "playground", "influxdb database for evaluation metrics")
	err := fs.Parse(args)
	return cfg, err
}

func main() {

	// A missing .env is fine, the environment and flags still apply.
	_ = godotenv.Load()

	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	var (
		ctx, cancel = context.WithCancel(context.Background())
		logger      = framework.NewLogfmt(os.Stderr, framework.ParseLevel(cfg.logLevel))
		listenAddr  = fmt.Sprintf(":%s", cfg.port)
		observers   []controller.Observer
	)
	defer cancel()

	if cfg.zipkinURL != "" {
		collector, err := zipkin.NewHTTPCollector(cfg.zipkinURL)
		if err != nil {
			log.Fatal(err)
		}
		defer collector.Close()

		tracer, err := zipkin.NewTracer(
			zipkin.NewRecorder(collector, false, listenAddr, "glob-playground-server"),
		)
		if err != nil {
			log.Fatal(err)
		}
		opentracing.SetGlobalTracer(tracer)
		logger.Infof("tracing to %s", cfg.zipkinURL)
	}

	if cfg.influxAddr != "" {
		reporter, err := projections.NewInfluxReporter(projections.InfluxConfig{
			Addr:     cfg.influxAddr,
			Database: cfg.influxDB,
			Engine:   cfg.engine,
		}, logger.With("component", "influx"))
		if err != nil {
			log.Fatal(err)
		}
		go reporter.Run(ctx)
		observers = append(observers, reporter)
		logger.Infof("publishing evaluations to %s/%s", cfg.influxAddr, cfg.influxDB)
	}

	srv, err := newServer(cfg.engine, cfg.sessionSize, cfg.sessionTTL, logger, observers...)
	if err != nil {
		log.Fatal(err)
	}

	s := &http.Server{
		Addr:           listenAddr,
		Handler:        handlers.CombinedLoggingHandler(os.Stdout, srv.routes()),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	logger.Infof("listening on %s with engine %s", listenAddr, cfg.engine)
	log.Fatal(s.ListenAndServe())
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	kitprometheus "github.com/go-kit/kit/metrics/prometheus"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/micro"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/flarexio/ragblade"
	"github.com/flarexio/ragblade/embedding"
	"github.com/flarexio/ragblade/embedding/hashing"
	"github.com/flarexio/ragblade/generation"
	"github.com/flarexio/ragblade/persistence/chromem"
	"github.com/flarexio/ragblade/persistence/flat"
	"github.com/flarexio/ragblade/vector"

	embedOllama "github.com/flarexio/ragblade/embedding/ollama"
	embedOpenAI "github.com/flarexio/ragblade/embedding/openai"
	genOllama "github.com/flarexio/ragblade/generation/ollama"
	genOpenAI "github.com/flarexio/ragblade/generation/openai"
	mcpE "github.com/flarexio/ragblade/mcp"
	httpT "github.com/flarexio/ragblade/transport/http"
	natsT "github.com/flarexio/ragblade/transport/nats"
)

func main() {
	cmd := &cli.Command{
		Name:  "ragblade",
		Usage: "RAGBlade retrieval-augmented answering service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "path",
				Usage: "Path to the RAGBlade service",
			},
			&cli.StringFlag{
				Name:    "nats",
				Usage:   "NATS server URL, NATS transport is disabled when empty",
				Sources: cli.EnvVars("NATS_URL"),
			},
			&cli.BoolFlag{
				Name:  "http",
				Usage: "Enable HTTP transport",
				Value: true,
			},
			&cli.StringFlag{
				Name:  "http-addr",
				Usage: "HTTP server address",
				Value: ":8080",
			},
		},
		Action: run,
	}

	err := cmd.Run(context.Background(), os.Args)
	if err != nil {
		log.Fatal(err.Error())
	}
}

func loadConfig(path string) (ragblade.Config, error) {
	var cfg ragblade.Config

	f, err := os.Open(filepath.Join(path, "config.yaml"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}

		return cfg, err
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func newEmbedder(cfg embedding.Config) (vector.Embedder, error) {
	switch cfg.Provider {
	case embedding.ProviderHashing, "":
		return hashing.NewHashingEmbedder(cfg.Dimension), nil

	case embedding.ProviderOpenAI:
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		return embedOpenAI.NewOpenAIEmbedder(cfg)

	case embedding.ProviderOllama:
		return embedOllama.NewOllamaEmbedder(cfg)

	default:
		return nil, fmt.Errorf("%w: unsupported embedding provider %q", ragblade.ErrConfiguration, cfg.Provider)
	}
}

func newIndex(cfg vector.Config) (vector.Index, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ragblade.ErrConfiguration, err)
	}

	switch cfg.Backend {
	case vector.BackendFlat, "":
		return flat.NewFlatIndex(), nil

	case vector.BackendChromem:
		idx, err := chromem.NewChromemIndex(cfg)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ragblade.ErrConfiguration, err)
		}

		return idx, nil

	default:
		return nil, fmt.Errorf("%w: unsupported vector backend %q", ragblade.ErrConfiguration, cfg.Backend)
	}
}

func newGenerator(cfg generation.Config) (generation.Generator, error) {
	switch cfg.Provider {
	case generation.ProviderOpenAI, "":
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		return genOpenAI.NewOpenAIGenerator(cfg)

	case generation.ProviderOllama:
		return genOllama.NewOllamaGenerator(cfg)

	default:
		return nil, fmt.Errorf("%w: unsupported generation provider %q", ragblade.ErrConfiguration, cfg.Provider)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return err
		}

		path = filepath.Join(homeDir, ".flarex", "ragblade")
	}

	log, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer log.Sync()

	zap.ReplaceGlobals(log)

	if err := godotenv.Load(filepath.Join(path, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}

	embedder, err := newEmbedder(cfg.Embedding)
	if err != nil {
		return fmt.Errorf("%w: %w", ragblade.ErrConfiguration, err)
	}

	index, err := newIndex(cfg.Vector)
	if err != nil {
		return err
	}

	generator, err := newGenerator(cfg.Generation)
	if err != nil {
		return fmt.Errorf("%w: %w", ragblade.ErrConfiguration, err)
	}

	encoder := vector.NewEncoder(embedder, cfg.Vector.Normalize())

	svc, err := ragblade.NewService(ctx, cfg, encoder, index, generator)
	if err != nil {
		return err
	}

	svc = ragblade.LoggingMiddleware(log)(svc)

	fieldKeys := []string{"method", "error"}
	svc = ragblade.InstrumentingMiddleware(
		kitprometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: "ragblade",
			Name:      "requests_total",
			Help:      "Number of requests received.",
		}, fieldKeys),
		kitprometheus.NewHistogramFrom(stdprometheus.HistogramOpts{
			Namespace: "ragblade",
			Name:      "request_duration_seconds",
			Help:      "Total duration of requests in seconds.",
			Buckets:   stdprometheus.DefBuckets,
		}, fieldKeys),
		kitprometheus.NewHistogramFrom(stdprometheus.HistogramOpts{
			Namespace: "ragblade",
			Name:      "best_match_distance",
			Help:      "Squared L2 distance of the best match.",
			Buckets:   stdprometheus.LinearBuckets(0, 0.25, 9),
		}, []string{"method"}),
	)(svc)

	endpoints := ragblade.MakeEndpoints(svc)

	// Add NATS Transport
	if natsURL := cmd.String("nats"); natsURL != "" {
		opts := []nats.Option{
			nats.Name("RAGBlade Server"),
		}

		natsCreds := filepath.Join(path, "user.creds")
		if _, err := os.Stat(natsCreds); err == nil {
			opts = append(opts, nats.UserCredentials(natsCreds))
		}

		edgeID := "local"
		if idBytes, err := os.ReadFile(filepath.Join(path, "id")); err == nil {
			edgeID = strings.TrimSpace(string(idBytes))
		}

		nc, err := nats.Connect(natsURL, opts...)
		if err != nil {
			return err
		}
		defer nc.Drain()

		srv, err := micro.AddService(nc, micro.Config{
			Name:    "ragblade",
			Version: "1.0.0",
		})

		if err != nil {
			return err
		}
		defer srv.Stop()

		topic := "edges." + edgeID + ".ragblade"

		root := srv.AddGroup(topic)
		natsT.AddEndpoints(root, endpoints)

		log.Info("nats transport enabled", zap.String("topic", topic))
	}

	if cmd.Bool("http") {
		r := gin.Default()
		r.Use(
			httpT.RequestIDMiddleware(),
			httpT.CORSMiddleware(allowedOrigins(cfg)...),
		)

		httpT.AddRouters(r, endpoints)
		httpT.AddMetricsRouter(r)

		mcpEndpoints := make(map[mcp.MCPMethod]mcpE.MCPEndpoint)
		mcpEndpoints[mcp.MethodInitialize] = mcpE.InitializeEndpoint(svc)
		mcpEndpoints[mcp.MethodPing] = mcpE.PingEndpoint(svc)
		mcpEndpoints[mcp.MethodToolsList] = mcpE.ListToolsEndpoint(svc)
		mcpEndpoints[mcp.MethodToolsCall] = mcpE.CallToolEndpoint(svc)
		httpT.AddStreamableRouters(r, mcpEndpoints)

		httpAddr := cmd.String("http-addr")
		go r.Run(httpAddr)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sign := <-quit

	log.Info("graceful shutdown", zap.String("signal", sign.String()))
	return nil
}

func allowedOrigins(cfg ragblade.Config) []string {
	if len(cfg.AllowedOrigins) == 0 {
		return []string{"http://localhost:3000"}
	}

	return cfg.AllowedOrigins
}

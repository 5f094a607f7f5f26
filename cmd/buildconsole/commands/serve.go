package commands

import (
	"fmt"
	"net/http"
	"time"

	"github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"github.com/rs/zerolog"
	"github.com/savaki/buildconsole/internal/di"
	"github.com/savaki/buildconsole/internal/query"
	"github.com/savaki/buildconsole/internal/services"
	"github.com/urfave/cli/v2"
)

// ServeCommand returns the serve command exposing the queries over GraphQL
func ServeCommand(logger *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start an HTTP server exposing the GraphQL API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "listen",
				Usage: "Address to listen on; defaults to the configured address",
			},
		},
		Action: func(c *cli.Context) error {
			return serveAction(c, logger)
		},
	}
}

func serveAction(c *cli.Context, logger *zerolog.Logger) error {
	container, err := setupContainer(c)
	if err != nil {
		return err
	}

	client := di.MustGet[*query.Client](container)
	defer client.Close()

	config := di.MustGet[*services.Config](container)
	schema := di.MustGet[*graphql.Schema](container)

	addr := c.String("listen")
	if addr == "" {
		addr = config.Listen
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           loggingMiddleware(*logger)(newRouter(schema)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-c.Context.Done()
		_ = server.Close()
	}()

	logger.Info().
		Str("addr", addr).
		Str("base_url", config.BaseURL).
		Msg("Starting HTTP server")

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}

func newRouter(schema *graphql.Schema) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("POST /graphql", &relay.Handler{Schema: schema})
	return mux
}

// loggingMiddleware logs details about each request and response
func loggingMiddleware(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ctx := logger.WithContext(r.Context())
			r = r.WithContext(ctx)

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, r)

			zerolog.Ctx(ctx).Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status_code", rw.statusCode).
				Dur("duration", time.Since(start)).
				Msg("Request completed")
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

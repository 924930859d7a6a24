package main

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/cors"

	"github.com/vongohren/fpl-ai-assist/internal/cache"
	"github.com/vongohren/fpl-ai-assist/internal/config"
	"github.com/vongohren/fpl-ai-assist/internal/fplapi"
	"github.com/vongohren/fpl-ai-assist/internal/logging"
	"github.com/vongohren/fpl-ai-assist/internal/websearch"
)

type toolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func main() {
	var (
		addr        = flag.String("addr", ":8080", "HTTP listen address")
		mcpPath     = flag.String("path", "/mcp", "HTTP path for MCP endpoint")
		requireAuth = flag.Bool("require-auth", false, "require API key auth via FPL_MCP_API_KEY")
		authHeader  = flag.String("auth-header", "X-API-Key", "HTTP header to read API key from")
	)
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	store := cache.New(cfg.CacheFile, log)
	if removed := store.Cleanup(); removed > 0 {
		log.Info("cache cleanup", "removed", removed)
	}

	client := fplapi.NewClient(fplapi.ClientConfig{
		Cookie:   cfg.Cookie,
		XAPIAuth: cfg.XAPIAuth,
	}, log)
	search := websearch.NewClient(cfg.BraveAPIKey, log)

	app := newApp(cfg, client, store, search, log)

	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "fpl-ai-assist",
			Version: "1.0.0",
		},
		nil,
	)

	registry := make([]toolInfo, 0, 8)

	addTool(server, &registry, &mcp.Tool{
		Name:        "get_my_squad",
		Description: "Current 15-man squad with prices, form, captaincy and next fixtures",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args SquadArgs) (*mcp.CallToolResult, any, error) {
		out, err := app.buildSquad(ctx, args)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolMarshal(out)
	})

	addTool(server, &registry, &mcp.Tool{
		Name:        "get_fixtures",
		Description: "Fixtures for a gameweek with difficulty ratings, optionally filtered by team",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args FixturesArgs) (*mcp.CallToolResult, any, error) {
		out, err := app.buildFixtures(ctx, args)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolMarshal(out)
	})

	addTool(server, &registry, &mcp.Tool{
		Name:        "search_players",
		Description: "Filter and rank the player catalog (name, position, team, price, form, minutes)",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args SearchPlayersArgs) (*mcp.CallToolResult, any, error) {
		out, err := app.buildPlayerSearch(ctx, args)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolMarshal(out)
	})

	addTool(server, &registry, &mcp.Tool{
		Name:        "get_fixture_difficulty",
		Description: "Fixture difficulty window for a team: blanks, doubles, average and league-wide rank",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args FixtureDifficultyArgs) (*mcp.CallToolResult, any, error) {
		out, err := app.buildFixtureDifficulty(ctx, args)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolMarshal(out)
	})

	addTool(server, &registry, &mcp.Tool{
		Name:        "suggest_transfers",
		Description: "Upgrade candidates for the weakest pick in each position, within budget and the 3-per-club rule",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args TransferSuggestionsArgs) (*mcp.CallToolResult, any, error) {
		out, err := app.buildTransferSuggestions(ctx, args)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolMarshal(out)
	})

	addTool(server, &registry, &mcp.Tool{
		Name:        "get_community_trends",
		Description: "Player mentions, sentiment and hot topics from community chatter (needs BRAVE_API_KEY)",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args TrendsArgs) (*mcp.CallToolResult, any, error) {
		out, err := app.buildCommunityTrends(ctx, args)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolMarshal(out)
	})

	addTool(server, &registry, &mcp.Tool{
		Name:        "get_prompt_context",
		Description: "Template variables (GW, bank, free transfers, chips) and optional template population",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args PromptContextArgs) (*mcp.CallToolResult, any, error) {
		out, err := app.buildPromptContext(ctx, args)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolMarshal(out)
	})

	handler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})

	apiKey := strings.TrimSpace(os.Getenv("FPL_MCP_API_KEY"))
	if *requireAuth && apiKey == "" {
		log.Error("FPL_MCP_API_KEY is required when --require-auth is set")
		os.Exit(1)
	}

	withAuth := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				next(w, r)
				return
			}
			key := strings.TrimSpace(r.Header.Get(*authHeader))
			if key == "" {
				if authz := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
					key = strings.TrimSpace(authz[7:])
				}
			}
			if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized"}`))
				return
			}
			next(w, r)
		}
	}

	router := mux.NewRouter()
	router.HandleFunc("/health", withAuth(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})).Methods(http.MethodGet)

	router.HandleFunc("/tools", withAuth(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		b, _ := json.MarshalIndent(map[string]any{"tools": registry}, "", "  ")
		w.Write(b)
	})).Methods(http.MethodGet)

	router.HandleFunc("/cache/stats", withAuth(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		b, _ := json.MarshalIndent(store.Stats(), "", "  ")
		w.Write(b)
	})).Methods(http.MethodGet)

	router.HandleFunc("/cache/clear", withAuth(func(w http.ResponseWriter, r *http.Request) {
		store.Clear()
		log.Info("cache cleared via admin endpoint")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"cleared"}`))
	})).Methods(http.MethodPost)

	router.PathPrefix(*mcpPath).Handler(withAuth(func(w http.ResponseWriter, r *http.Request) {
		handler.ServeHTTP(w, r)
	}))

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})

	srv := &http.Server{
		Addr:         *addr,
		Handler:      c.Handler(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Info("MCP HTTP server listening", "addr", *addr, "path", *mcpPath)
	if err := srv.ListenAndServe(); err != nil {
		log.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func addTool[T any](server *mcp.Server, registry *[]toolInfo, tool *mcp.Tool, handler func(context.Context, *mcp.CallToolRequest, T) (*mcp.CallToolResult, any, error)) {
	*registry = append(*registry, toolInfo{Name: tool.Name, Description: tool.Description})
	mcp.AddTool(server, tool, handler)
}

// toolMarshal pretty-prints a result payload as MCP text content.
func toolMarshal(v any) (*mcp.CallToolResult, any, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError(err), nil, nil
	}
	return toolJSONBytes(b), nil, nil
}

func toolJSONBytes(res []byte) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(res)},
		},
	}
}

// toolError flags the failure on the result; the process never dies on a
// per-call error.
func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}

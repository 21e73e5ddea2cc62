package mcpserver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/aman-cerp/semindex/internal/config"
	"github.com/aman-cerp/semindex/internal/indexer"
	"github.com/aman-cerp/semindex/internal/query"
	"github.com/aman-cerp/semindex/internal/store"
)

// serverVersion is reported in the MCP implementation handshake.
const serverVersion = "0.1.0"

// Server bridges an outer MCP client to the indexing and retrieval
// pipelines, validating every tool parameter at the boundary (§6).
type Server struct {
	mcp     *mcp.Server
	indexer *indexer.Indexer
	store   *store.Store
	query   *query.Processor
	cfg     *config.Config
	logger  *slog.Logger
}

// NewServer constructs a Server and registers its tools.
func NewServer(ix *indexer.Indexer, s *store.Store, qp *query.Processor, cfg *config.Config) (*Server, error) {
	if ix == nil {
		return nil, fmt.Errorf("mcpserver: indexer is required")
	}
	if s == nil {
		return nil, fmt.Errorf("mcpserver: store is required")
	}
	if qp == nil {
		return nil, fmt.Errorf("mcpserver: query processor is required")
	}
	if cfg == nil {
		cfg = config.NewConfig()
	}

	srv := &Server{
		indexer: ix,
		store:   s,
		query:   qp,
		cfg:     cfg,
		logger:  slog.Default(),
	}

	srv.mcp = mcp.NewServer(
		&mcp.Implementation{
			Name:    "semindex",
			Version: serverVersion,
		},
		nil,
	)

	srv.registerTools()

	return srv, nil
}

// MCPServer returns the underlying SDK server instance.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

// registerTools wires every tool name to its typed handler.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "index_repository",
		Description: "Index or incrementally re-index a repository: scans files, chunks and embeds them, and persists the result for retrieval.",
	}, s.handleIndexRepository)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_indexed_repos",
		Description: "List every repository currently indexed, with its type and file count.",
	}, s.handleListIndexedRepos)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "search_codebase",
		Description: "Semantic search across one or more indexed repositories: retrieves relevant files, code snippets, symbols, and import context for a natural-language or code query.",
	}, s.handleSearchCodebase)

	s.logger.Info("mcp tools registered", slog.Int("count", 3))
}

// Serve runs the server on the given transport until ctx is canceled.
// Only stdio (or an empty transport) is served; any other value, including
// "sse", which config validation accepts, returns an error.
func (s *Server) Serve(ctx context.Context, transport string) error {
	s.logger.Info("starting mcp server", slog.String("transport", transport))

	switch transport {
	case "stdio", "":
		err := s.mcp.Run(ctx, &mcp.StdioTransport{})
		if err != nil && err != context.Canceled {
			s.logger.Error("mcp server stopped with error", slog.String("error", err.Error()))
			return err
		}
		s.logger.Info("mcp server stopped")
		return nil
	default:
		return fmt.Errorf("mcpserver: unknown transport %q (supported: stdio)", transport)
	}
}

// Close releases server resources. The underlying SDK server has none of
// its own; it stops when its Run context is canceled.
func (s *Server) Close() error {
	return nil
}

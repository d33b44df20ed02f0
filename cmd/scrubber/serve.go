package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/moinsen-dev/scrubber/internal/mcp"
	"github.com/moinsen-dev/scrubber/internal/sanitize"

	"github.com/mark3labs/mcp-go/server"
)

var (
	servePort     int
	servePatterns string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run as MCP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		rules, err := loadRules(servePatterns)
		if err != nil {
			return err
		}
		home, _ := os.UserHomeDir()
		engine := sanitize.New(rules, home)
		srv := mcpserver.NewScrubberServer(engine, rules)

		port, _ := cmd.Flags().GetInt("port")
		if port > 0 {
			// SSE transport
			return server.NewSSEServer(srv.MCPServer(),
				server.WithBaseURL(fmt.Sprintf("http://localhost:%d", port)),
			).Start(fmt.Sprintf(":%d", port))
		}
		// Default: stdio transport
		return server.NewStdioServer(srv.MCPServer()).Listen(context.Background(), os.Stdin, os.Stdout)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (0 = stdio)")
	serveCmd.Flags().StringVar(&servePatterns, "patterns", "", "Extra pattern file merged over the defaults")
	rootCmd.AddCommand(serveCmd)
}

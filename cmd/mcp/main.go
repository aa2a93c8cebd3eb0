package main

import (
	"log"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"voice-journal/pkg/mcptools"
)

func main() {
	// Stdout carries the protocol.
	log.SetOutput(os.Stderr)

	if err := server.ServeStdio(mcptools.NewServer(nil)); err != nil {
		log.Fatalf("MCP server failed: %v", err)
	}
}

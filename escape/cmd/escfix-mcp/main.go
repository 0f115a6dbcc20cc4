package main

import (
	"context"
	"log"
	"os"

	flags "github.com/jessevdk/go-flags"
	"github.com/viant/mcp-protocol/schema"
	mcpsrv "github.com/viant/mcp/server"

	esmcp "github.com/viant/escfix/escape/mcp"
	essvc "github.com/viant/escfix/escape/service"
)

// Options defines CLI flags for the escfix MCP server.
type Options struct {
	HTTPAddr   string `short:"a" long:"addr" description:"HTTP listen address (empty disables HTTP)"`
	DiffBytes  int    `long:"diff-bytes" description:"preview diff size cap"`
	MaxEdits   int    `long:"max-edits" description:"default per-file edit cap (0 = unlimited)"`
	PreviewTTL int    `long:"preview-ttl" description:"preview cache TTL in seconds"`
	UseData    bool   `long:"use-data" description:"return tool results in the data field instead of text"`
}

func main() {

	// Parse CLI flags
	var opts Options
	if _, err := flags.NewParser(&opts, flags.Default).Parse(); err != nil {
		os.Exit(2)
	}

	svc := essvc.NewService(&essvc.Config{
		DiffBytes:         opts.DiffBytes,
		MaxEditsPerFile:   opts.MaxEdits,
		PreviewTTLSeconds: opts.PreviewTTL,
		UseData:           opts.UseData,
	})

	options := []mcpsrv.Option{
		mcpsrv.WithImplementation(schema.Implementation{Name: "escfix-mcp", Version: "0.1.0"}),
		mcpsrv.WithNewHandler(esmcp.NewHandler(svc)),
		mcpsrv.WithEndpointAddress(opts.HTTPAddr),
		mcpsrv.WithRootRedirect(true),
		mcpsrv.WithStreamableURI("/mcp"),
	}

	server, err := mcpsrv.New(options...)
	if err != nil {
		log.Fatal(err)
	}
	if opts.HTTPAddr != "" {
		// Enable streamable HTTP so /mcp endpoint is active
		server.UseStreamableHTTP(true)
		if err := server.HTTP(context.Background(), opts.HTTPAddr).ListenAndServe(); err != nil {
			log.Fatal(err)
		}
	}
}

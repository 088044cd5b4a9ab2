// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Scribe editing tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/scribe/internal/editorservice"
	"github.com/starford/scribe/internal/export"
	"github.com/starford/scribe/internal/markup"
	"github.com/starford/scribe/internal/search"
)

// MarkupSyntaxURI is the resource holding MarkupSyntaxContract.
const MarkupSyntaxURI = "scribe://markup-syntax"

// Server wraps the MCP server with Scribe tools.
type Server struct {
	mcp *server.MCPServer
	svc *editorservice.Service
}

// New creates a new MCP server with all Scribe tools registered.
func New(svc *editorservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Scribe",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	idParam := mcp.WithString("id", mcp.Description("Document id (empty for the active document)"))

	s.mcp.AddTool(mcp.NewTool("list_documents",
		mcp.WithDescription("List open documents with their ids, names and lock state."),
	), s.listDocuments)

	s.mcp.AddTool(mcp.NewTool("read_document",
		mcp.WithDescription("Read the full content of an open document in Scribe markup."),
		idParam,
	), s.readDocument)

	s.mcp.AddTool(mcp.NewTool("create_document",
		mcp.WithDescription("Open a new document. Content MUST use Scribe markup; read the "+
			"contract first via the get_markup_contract tool or the "+MarkupSyntaxURI+" resource."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Document name; the extension picks the kind (.md, .txt, other)")),
		mcp.WithString("content", mcp.Description("Initial content in Scribe markup")),
	), s.createDocument)

	s.mcp.AddTool(mcp.NewTool("edit_document",
		mcp.WithDescription("Replace the whole content of a document. The edit is recorded in its undo history."),
		idParam,
		mcp.WithString("content", mcp.Required(), mcp.Description("New content in Scribe markup")),
		mcp.WithString("if_match", mcp.Description("Checksum the current content must have")),
	), s.editDocument)

	s.mcp.AddTool(mcp.NewTool("format_range",
		mcp.WithDescription("Wrap a byte range of a document in formatting markup."),
		idParam,
		mcp.WithNumber("start", mcp.Required(), mcp.Description("Range start (byte offset)")),
		mcp.WithNumber("end", mcp.Required(), mcp.Description("Range end (byte offset, exclusive)")),
		mcp.WithString("style", mcp.Required(), mcp.Enum("heading", "bold", "italic", "highlight", "strike")),
		mcp.WithString("color", mcp.Enum("yellow", "green", "blue", "pink"), mcp.Description("Highlight color")),
	), s.formatRange)

	s.mcp.AddTool(mcp.NewTool("find_in_document",
		mcp.WithDescription("Find all matches of a query in a document. Returns offsets and lengths in bytes."),
		idParam,
		mcp.WithString("query", mcp.Required(), mcp.Description("Literal text, or an RE2 pattern when regex is true")),
		mcp.WithBoolean("regex", mcp.Description("Treat query as a regular expression")),
		mcp.WithBoolean("case_sensitive", mcp.Description("Match case exactly")),
	), s.findInDocument)

	s.mcp.AddTool(mcp.NewTool("replace_in_document",
		mcp.WithDescription("Replace every match of a query with literal text as a single undoable edit."),
		idParam,
		mcp.WithString("query", mcp.Required()),
		mcp.WithString("replacement", mcp.Description("Literal replacement text")),
		mcp.WithBoolean("regex"),
		mcp.WithBoolean("case_sensitive"),
	), s.replaceInDocument)

	s.mcp.AddTool(mcp.NewTool("undo",
		mcp.WithDescription("Step a document one entry back in its history."),
		idParam,
	), s.undo)

	s.mcp.AddTool(mcp.NewTool("redo",
		mcp.WithDescription("Step a document one entry forward in its history."),
		idParam,
	), s.redo)

	s.mcp.AddTool(mcp.NewTool("export_document",
		mcp.WithDescription("Export a document as plain text, markup or a standalone HTML page."),
		idParam,
		mcp.WithString("format", mcp.Enum("txt", "md", "html", "print"), mcp.Description("Export format (default txt)")),
	), s.exportDocument)

	s.mcp.AddTool(mcp.NewTool("search_documents",
		mcp.WithDescription("Search names and text of all open documents."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchDocuments)

	s.mcp.AddTool(mcp.NewTool("get_markup_contract",
		mcp.WithDescription("Returns the Scribe markup syntax. "+
			"Call this before creating or editing documents to produce valid formatting."),
	), s.getMarkupContract)

	s.mcp.AddResource(
		mcp.NewResource(MarkupSyntaxURI, "Markup Syntax",
			mcp.WithResourceDescription("Inline markup syntax persisted in Scribe documents."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readMarkupResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func searchOptions(req mcp.CallToolRequest) search.Options {
	return search.Options{
		Regex:         req.GetBool("regex", false),
		CaseSensitive: req.GetBool("case_sensitive", false),
	}
}

func (s *Server) listDocuments(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items := s.svc.List(ctx)
	if len(items) == 0 {
		return mcp.NewToolResultText("no open documents"), nil
	}
	lines := make([]string, 0, len(items))
	for _, it := range items {
		line := it.ID + "\t" + it.Name
		if it.Locked {
			line += "\t(locked)"
		}
		if it.Active {
			line += "\t(active)"
		}
		lines = append(lines, line)
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) readDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	d, err := s.svc.Get(ctx, req.GetString("id", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(d.Content), nil
}

func (s *Server) createDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	d, err := s.svc.Open(ctx, name, req.GetString("content", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s (%s)", d.Name, d.ID)), nil
}

func (s *Server) editDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	d, err := s.svc.Edit(ctx, req.GetString("id", ""), content, req.GetString("if_match", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("updated: %s checksum=%s", d.ID, d.Checksum)), nil
}

func (s *Server) formatRange(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, err := req.RequireInt("start")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	end, err := req.RequireInt("end")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	style, err := req.RequireString("style")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	d, err := s.svc.Format(ctx, req.GetString("id", ""),
		editorservice.Range{Start: start, End: end},
		markup.Style(style), markup.Color(req.GetString("color", "")))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(d.Content), nil
}

func (s *Server) findInDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.svc.Find(ctx, req.GetString("id", ""), query, searchOptions(req))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if res.Error != "" {
		return mcp.NewToolResultError(res.Error), nil
	}
	return jsonResult(res.Matches)
}

func (s *Server) replaceInDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.svc.ReplaceAll(ctx, req.GetString("id", ""), query, req.GetString("replacement", ""), searchOptions(req))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if res.Error != "" {
		return mcp.NewToolResultError(res.Error), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("replaced %d occurrence(s)", res.Count)), nil
}

func (s *Server) undo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	d, err := s.svc.Undo(ctx, req.GetString("id", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(d.Content), nil
}

func (s *Server) redo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	d, err := s.svc.Redo(ctx, req.GetString("id", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(d.Content), nil
}

func (s *Server) exportDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	format := export.Format(req.GetString("format", string(export.FormatText)))
	res, err := s.svc.Export(ctx, req.GetString("id", ""), format)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(res.Body), nil
}

func (s *Server) searchDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.SearchAll(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(results)
}

func (s *Server) getMarkupContract(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(MarkupSyntaxContract), nil
}

func (s *Server) readMarkupResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      MarkupSyntaxURI,
			MIMEType: "text/markdown",
			Text:     MarkupSyntaxContract,
		},
	}, nil
}

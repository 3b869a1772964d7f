// Package lsp implements a language server for preference (.pref)
// theory files: live syntax diagnostics, inconsistency warnings, and
// semantic token highlighting while the rule text is edited.
package lsp

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/cprefsql/cprefengine/token"
)

// Define the set of supported semantic token types (as required by the LSP spec)
var SemanticTokenTypes = []string{
	"keyword",
	"variable",
	"number",
	"string",
	"operator",
}

// Define the set of supported semantic token modifiers
var SemanticTokenModifiers = []string{
	"declaration",
}

// TheoryHandler implements the LSP server handlers for preference
// theory documents
type TheoryHandler struct {
	mu      sync.RWMutex
	content map[string]string
}

// NewTheoryHandler creates and returns a new TheoryHandler instance
func NewTheoryHandler() *TheoryHandler {
	return &TheoryHandler{
		content: make(map[string]string),
	}
}

// Initialize responds to the LSP client's initialize request and advertises the server's capabilities
func (h *TheoryHandler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Println("LSP Initialize called")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
			CompletionProvider: &protocol.CompletionOptions{
				ResolveProvider: ptrBool(false),
			},
			SemanticTokensProvider: &protocol.SemanticTokensOptions{
				Legend: protocol.SemanticTokensLegend{
					TokenTypes:     SemanticTokenTypes,
					TokenModifiers: SemanticTokenModifiers,
				},
				Full: ptrBool(true),
			},
		},
	}, nil
}

// Initialized is called after the client receives the server's capabilities and completes initialization
func (h *TheoryHandler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Println("Preference LSP Initialized")
	return nil
}

// Shutdown handles the LSP shutdown request
func (h *TheoryHandler) Shutdown(ctx *glsp.Context) error {
	log.Println("Preference LSP Shutdown")
	return nil
}

// SetTrace handles trace level changes from the client
func (h *TheoryHandler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	return nil
}

// TextDocumentDidOpen handles file open notifications from the editor
func (h *TheoryHandler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	log.Printf("Opened file: %s\n", params.TextDocument.URI)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return fmt.Errorf("failed to convert URI %s: %w", params.TextDocument.URI, err)
	}

	h.mu.Lock()
	h.content[path] = params.TextDocument.Text
	h.mu.Unlock()

	diagnostics := CollectDiagnostics(path, params.TextDocument.Text)
	sendDiagnosticNotification(ctx, params.TextDocument.URI, diagnostics)

	return nil
}

// TextDocumentDidClose handles file close notifications from the editor
func (h *TheoryHandler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	log.Printf("Closed file: %s\n", params.TextDocument.URI)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return fmt.Errorf("failed to convert URI %s: %w", params.TextDocument.URI, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.content, path)

	return nil
}

// TextDocumentDidChange handles file change notifications from the editor
func (h *TheoryHandler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	log.Printf("Changed file: %s\n", params.TextDocument.URI)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return fmt.Errorf("failed to convert URI %s: %w", params.TextDocument.URI, err)
	}

	// Sync kind is Full, so the last change carries the whole document.
	text, ok := h.documentText(path)
	for _, change := range params.ContentChanges {
		if whole, isWhole := change.(protocol.TextDocumentContentChangeEventWhole); isWhole {
			text, ok = whole.Text, true
		}
	}
	if !ok {
		return nil
	}

	h.mu.Lock()
	h.content[path] = text
	h.mu.Unlock()

	diagnostics := CollectDiagnostics(path, text)
	sendDiagnosticNotification(ctx, params.TextDocument.URI, diagnostics)

	return nil
}

// TextDocumentCompletion offers the grammar's keywords plus every
// attribute already mentioned in the document
func (h *TheoryHandler) TextDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (interface{}, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, fmt.Errorf("failed to convert URI %s: %w", params.TextDocument.URI, err)
	}

	text, _ := h.documentText(path)

	var items []protocol.CompletionItem
	kindKeyword := protocol.CompletionItemKindKeyword
	for _, kw := range []string{token.IF, token.THEN, token.AND, token.BETTER} {
		kw := kw
		items = append(items, protocol.CompletionItem{Label: kw, Kind: &kindKeyword})
	}
	kindVariable := protocol.CompletionItemKindVariable
	for _, attr := range documentAttributes(text) {
		attr := attr
		items = append(items, protocol.CompletionItem{Label: attr, Kind: &kindVariable})
	}

	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        items,
	}, nil
}

// TextDocumentSemanticTokensFull handles semantic token requests for the entire document
func (h *TheoryHandler) TextDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	log.Println("TextDocumentSemanticTokensFull called for:", params.TextDocument.URI)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, fmt.Errorf("failed to convert URI %s: %w", params.TextDocument.URI, err)
	}

	text, ok := h.documentText(path)
	if !ok {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", path, err)
		}
		text = string(raw)
		h.mu.Lock()
		h.content[path] = text
		h.mu.Unlock()
	}

	tokens := CollectSemanticTokens(path, text)

	var data []uint32
	var prevLine, prevStart uint32

	// Encode tokens into LSP wire format (delta-line, delta-start compression)
	for _, tok := range tokens {
		deltaLine := tok.Line - prevLine
		var deltaStart uint32
		if deltaLine == 0 {
			deltaStart = tok.StartChar - prevStart
		} else {
			deltaStart = tok.StartChar
		}

		data = append(data, deltaLine, deltaStart, tok.Length, uint32(tok.TokenType), uint32(tok.TokenModifiers))

		prevLine = tok.Line
		prevStart = tok.StartChar
	}

	return &protocol.SemanticTokens{
		Data: data,
	}, nil
}

func (h *TheoryHandler) documentText(path string) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	text, ok := h.content[path]
	return text, ok
}

// Convert URI to platform-local file path
func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}

	path := u.Path

	// On Windows, remove leading slash (e.g., /C:/...) -> C:/...
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}

	return filepath.FromSlash(path), nil
}

func sendDiagnosticNotification(ctx *glsp.Context, uri protocol.URI, diagnostics []protocol.Diagnostic) {
	if diagnostics == nil {
		diagnostics = []protocol.Diagnostic{}
	}

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func ptrBool(b bool) *bool {
	return &b
}

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}

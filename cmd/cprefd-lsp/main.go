package main

import (
	"log"
	"os"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/cprefsql/cprefengine/internal/lsp"
)

const lsName = "cpref" // Name identifier for the language server

var (
	version = "0.0.1"        // Server version
	handler protocol.Handler // Protocol handler instance (wired up below)
)

func main() {
	// Configure debug logging (1 = debug level, nil = default logger)
	commonlog.Configure(1, nil)

	theoryHandler := lsp.NewTheoryHandler()

	// Wire up the handler with specific LSP method implementations
	handler = protocol.Handler{
		Initialize:                     theoryHandler.Initialize,
		Initialized:                    theoryHandler.Initialized,
		Shutdown:                       theoryHandler.Shutdown,
		SetTrace:                       theoryHandler.SetTrace,
		TextDocumentDidOpen:            theoryHandler.TextDocumentDidOpen,
		TextDocumentDidClose:           theoryHandler.TextDocumentDidClose,
		TextDocumentDidChange:          theoryHandler.TextDocumentDidChange,
		TextDocumentCompletion:         theoryHandler.TextDocumentCompletion,
		TextDocumentSemanticTokensFull: theoryHandler.TextDocumentSemanticTokensFull,
	}

	s := server.NewServer(&handler, lsName, false)

	log.Println("Starting preference LSP server", version)

	// Serve over standard input/output, the transport editors use for LSP
	err := s.RunStdio()
	if err != nil {
		log.Println("Error starting preference LSP server:", err)
		os.Exit(1)
	}
}

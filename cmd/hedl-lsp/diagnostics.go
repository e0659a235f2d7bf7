package main

import (
	"context"
	"sync"

	"github.com/dweve/hedl-format/go-hedl/ir"
	"github.com/dweve/hedl-format/go-hedl/parse"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"
)

type documentStore struct {
	mu   sync.RWMutex
	docs map[string]*document
}

type document struct {
	uri     string
	content string
	version int32

	// doc is nil when the content does not parse; err then holds the
	// failure reported as a diagnostic.
	doc *ir.Document
	err error
}

func (ds *documentStore) get(uri string) *document {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.docs[uri]
}

func (ds *documentStore) put(uri string, content string, version int32) *document {
	doc, err := parse.ParseString(content)
	d := &document{
		uri:     uri,
		content: content,
		version: version,
		doc:     doc,
		err:     err,
	}
	ds.mu.Lock()
	ds.docs[uri] = d
	ds.mu.Unlock()
	return d
}

func (ds *documentStore) remove(uri string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	delete(ds.docs, uri)
}

func (s *Server) publishDiagnostics(ctx context.Context, uri string) {
	doc := s.docs.get(uri)
	if doc == nil {
		return
	}

	diagnostics := diagnose(doc)
	s.log.Debug("publish diagnostics", zap.String("uri", uri), zap.Int("count", len(diagnostics)))

	if s.conn != nil {
		s.conn.Notify(ctx, protocol.MethodTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
			URI:         protocol.DocumentURI(uri),
			Diagnostics: diagnostics,
		})
	}
}

func diagnose(doc *document) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}
	if doc.err == nil {
		return diagnostics
	}

	diagnostic := protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   protocol.Position{Line: 0, Character: 0},
		},
		Severity: protocol.DiagnosticSeverityError,
		Message:  doc.err.Error(),
		Source:   "hedl",
	}
	if de, ok := ir.AsError(doc.err); ok && de.Line > 0 {
		line := uint32(de.Line - 1)
		char := uint32(0)
		if de.Column > 0 {
			char = uint32(de.Column - 1)
		}
		diagnostic.Range = protocol.Range{
			Start: protocol.Position{Line: line, Character: char},
			End:   protocol.Position{Line: line, Character: char + 1},
		}
		diagnostic.Code = de.Kind.String()
		diagnostic.Message = de.Message
	}
	return append(diagnostics, diagnostic)
}

func (s *Server) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.docs.put(string(params.TextDocument.URI), params.TextDocument.Text, params.TextDocument.Version)
	s.publishDiagnostics(ctx, string(params.TextDocument.URI))
	return nil
}

func (s *Server) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	doc := s.docs.get(string(params.TextDocument.URI))
	if doc == nil {
		return nil
	}

	content := doc.content
	for _, change := range params.ContentChanges {
		rangeVal := change.Range
		if rangeVal.Start.Line == 0 && rangeVal.Start.Character == 0 && rangeVal.End.Line == 0 && rangeVal.End.Character == 0 {
			// Full document replacement.
			content = change.Text
			continue
		}
		startOffset := lineColToOffset(content, int(rangeVal.Start.Line), int(rangeVal.Start.Character))
		endOffset := lineColToOffset(content, int(rangeVal.End.Line), int(rangeVal.End.Character))
		if startOffset <= endOffset && endOffset <= len(content) {
			content = content[:startOffset] + change.Text + content[endOffset:]
		}
	}

	s.docs.put(string(params.TextDocument.URI), content, params.TextDocument.Version)
	s.publishDiagnostics(ctx, string(params.TextDocument.URI))
	return nil
}

func (s *Server) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.docs.remove(string(params.TextDocument.URI))
	return nil
}

// lineColToOffset maps a 0-based line/character position to a byte offset.
func lineColToOffset(content string, line, col int) int {
	currentLine := 0
	currentCol := 0
	for i, r := range content {
		if currentLine == line && currentCol == col {
			return i
		}
		if r == '\n' {
			currentLine++
			currentCol = 0
		} else {
			currentCol++
		}
	}
	return len(content)
}

package lspclient

import "github.com/sansio/lspclient/internal/rpc"

// documentTable records, per open document URI, the sync kind the server
// negotiated so didChange payloads can be validated against it. The core
// never stores document content or increments version numbers itself
// (spec §3, "Document model").
type documentTable struct {
	open map[rpc.DocumentURI]rpc.TextDocumentSyncKind
}

func newDocumentTable() *documentTable {
	return &documentTable{open: make(map[rpc.DocumentURI]rpc.TextDocumentSyncKind)}
}

func (d *documentTable) open_(uri rpc.DocumentURI, kind rpc.TextDocumentSyncKind) {
	d.open[uri] = kind
}

func (d *documentTable) close(uri rpc.DocumentURI) {
	delete(d.open, uri)
}

// syncKind returns the negotiated sync kind for uri and whether the
// document is currently open.
func (d *documentTable) syncKind(uri rpc.DocumentURI) (rpc.TextDocumentSyncKind, bool) {
	kind, ok := d.open[uri]
	return kind, ok
}

package lspclient

import "github.com/sansio/lspclient/internal/rpc"

// progressTracker tracks, per token, whether a begin has been observed so
// a report/end without a matching begin can be flagged as a protocol
// error rather than silently accepted (spec §3, "Progress tokens").
type progressTracker struct {
	started map[string]bool
}

func newProgressTracker() *progressTracker {
	return &progressTracker{started: make(map[string]bool)}
}

// observe records kind for token and reports whether it was well-formed:
// begin always succeeds (re-opening an in-flight stream is tolerated);
// report/end without a prior begin fails.
func (p *progressTracker) observe(token rpc.ProgressToken, kind rpc.WorkDoneProgressKind) bool {
	key := token.String()
	switch kind {
	case rpc.ProgressBegin:
		p.started[key] = true
		return true
	case rpc.ProgressReport:
		return p.started[key]
	case rpc.ProgressEnd:
		ok := p.started[key]
		delete(p.started, key)
		return ok
	default:
		return false
	}
}

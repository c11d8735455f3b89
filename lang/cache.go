package lang

import (
	"bytes"
	"context"
	"encoding/gob"
	"log/slog"
	"strconv"
	"sync"

	"github.com/zeebo/xxh3"
)

// parseCache stores parsed templates keyed by a hash of the template name,
// source and the options that affect parsing. Parsed nodes are immutable
// and shared by every engine with the same options.
var parseCache sync.Map

// entry is the parse state of one cached template.
type entry struct {
	once  sync.Once
	nodes []node
	err   error
}

// parseKey holds the options a parse depends on.
type parseKey struct {
	Version int
}

// hashOptions encodes options using gob and hashes with xxh3.
// Returns a hash that uniquely identifies the options configuration.
func hashOptions(key parseKey) uint64 {
	var buf bytes.Buffer

	_ = gob.NewEncoder(&buf).Encode(key)

	return xxh3.Hash(buf.Bytes())
}

// parseCached returns the nodes of source, parsing it once per distinct
// name, source and options.
func (e *Engine) parseCached(ctx context.Context, name, source string) ([]node, error) {
	sourceHash := xxh3.HashString(source)
	nameHash := xxh3.HashString(name)
	key := strconv.FormatUint(sourceHash^e.optsHash, 36) + ":" +
		strconv.FormatUint(nameHash, 36)

	value, cacheHit := parseCache.LoadOrStore(key, new(entry))

	cached, ok := value.(*entry)
	if !ok {
		return nil, ErrParse.With(slog.String("issue", "invalid entry type in cache"))
	}

	e.cfg.logger.TraceContext(ctx, "cache lookup",
		slog.String("template", name),
		slog.String("source_hash", strconv.FormatUint(sourceHash, 16)),
		slog.String("opts_hash", strconv.FormatUint(e.optsHash, 16)),
		slog.Bool("cache_hit", cacheHit))

	cached.once.Do(func() {
		c := newCompiler(e.registry, e.cfg.version, e.cfg.logger)
		cached.nodes, cached.err = parse(ctx, name, source, c.compile, e.cfg.logger)
	})

	return cached.nodes, cached.err
}

// ClearCache removes all parsed templates.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	parseCache.Clear()
}

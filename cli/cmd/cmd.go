package cmd

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/ftl/lang"
	"github.com/ardnew/ftl/log"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type engineOptionsKey struct{}

// WithEngineOptions returns a new context.Context carrying the options every
// command uses to construct its [lang.Engine].
func WithEngineOptions(ctx context.Context, opts ...lang.Option) context.Context {
	return context.WithValue(ctx, engineOptionsKey{}, opts)
}

// engineFrom constructs a [lang.Engine] from the options stored by
// [WithEngineOptions]. The default logger is appended so engine tracing
// follows the --log-* flags.
func engineFrom(ctx context.Context) (*lang.Engine, error) {
	opts, _ := ctx.Value(engineOptionsKey{}).([]lang.Option)
	opts = append(opts[:len(opts):len(opts)], lang.WithLogger(log.Default()))

	e, err := lang.New(opts...)
	if err != nil {
		return nil, ErrEngine.Wrap(err)
	}

	return e, nil
}

type outputKey struct{}

// WithOutput returns a new context.Context whose commands write to w.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

// outputFrom returns the writer stored by [WithOutput], or os.Stdout.
func outputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}

	return os.Stdout
}

type (
	dataFilesKey struct{}
	dataFiles    struct {
		read     []io.Reader
		hasStdin bool
	}
)

// readers returns the data file readers in load order, stdin last.
func (d *dataFiles) readers() []io.Reader {
	if !d.hasStdin {
		return d.read
	}

	return append(d.read[:len(d.read):len(d.read)], os.Stdin)
}

// load decodes every data file and merges the results. Keys of later files
// replace those of earlier ones.
func (d *dataFiles) load(ctx context.Context) (map[string]any, error) {
	vars := map[string]any{}

	for i, r := range d.readers() {
		m, err := lang.LoadData(ctx, r)
		if err != nil {
			return nil, ErrReadData.Wrap(err).With(slog.Int("file", i))
		}

		maps.Copy(vars, m)

		if c, ok := r.(io.Closer); ok && r != os.Stdin {
			_ = c.Close()
		}
	}

	log.TraceContext(ctx, "data model loaded",
		slog.Int("files", len(d.read)),
		slog.Bool("stdin", d.hasStdin),
		slog.Int("keys", len(vars)))

	return vars, nil
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// WithDataFiles returns a new context.Context containing the data model
// files given with --data.
//
// Files are deduplicated by resolving symlinks and comparing device/inode
// pairs. All occurrences of "-" are replaced with a single stdin reader,
// which is loaded after all regular files.
func WithDataFiles(ctx context.Context, paths []string) context.Context {
	return context.WithValue(ctx, dataFilesKey{}, buildDataFiles(paths))
}

// buildDataFiles opens each unique path. It returns nil when nothing could
// be opened.
func buildDataFiles(paths []string) *dataFiles {
	if len(paths) == 0 {
		return nil
	}

	var files dataFiles

	files.read = make([]io.Reader, 0, len(paths))
	seen := make(map[fileKey]struct{})

	stdinInfo, _ := os.Stdin.Stat()
	stdinKey, _ := makeFileKey(stdinInfo)

	for _, path := range paths {
		if path == stdinSource {
			seen[stdinKey] = struct{}{}

			continue
		}

		reader, ok := openUniqueFile(path, seen)
		if !ok {
			continue
		}

		files.read = append(files.read, reader)
	}

	// Stdin may have been included via "-" or as a named file.
	// Both of which will be represented by stdinKey in seen.
	_, files.hasStdin = seen[stdinKey]

	if len(files.read) == 0 && !files.hasStdin {
		return nil
	}

	return &files
}

// openUniqueFile opens the file at path if it hasn't been seen before.
// It resolves symlinks and uses device/inode to detect duplicates.
func openUniqueFile(path string, seen map[fileKey]struct{}) (io.Reader, bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, false
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, false
	}

	key, ok := makeFileKey(info)
	if !ok {
		return nil, false
	}

	if _, exists := seen[key]; exists {
		return nil, false
	}

	seen[key] = struct{}{}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, false
	}

	return file, true
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	if info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

func dataFilesFrom(ctx context.Context) *dataFiles {
	d, _ := ctx.Value(dataFilesKey{}).(*dataFiles)

	return d
}

// dataFrom loads the data model stored by [WithDataFiles]. Without data
// files the model is empty.
func dataFrom(ctx context.Context) (map[string]any, error) {
	d := dataFilesFrom(ctx)
	if d == nil {
		return map[string]any{}, nil
	}

	return d.load(ctx)
}

// openInput opens path for reading, or returns stdin for "-".
func openInput(path string) (io.ReadCloser, error) {
	if path == stdinSource {
		return io.NopCloser(os.Stdin), nil
	}

	return os.Open(path)
}

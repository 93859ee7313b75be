package filesort

import (
	"go.uber.org/zap"

	"github.com/bglogos/FileSort/internal/fs"
	"github.com/bglogos/FileSort/internal/lineio"
)

// DefaultThreshold is the size in bytes below which a file is sorted in
// memory, and above which a bucket is partitioned again.
const DefaultThreshold int64 = 100 << 20

// Codec selects the encoding of workspace bucket files.
type Codec = lineio.Codec

const (
	CodecNone = lineio.CodecNone
	CodecLZ4  = lineio.CodecLZ4
	CodecZstd = lineio.CodecZstd
)

// ParseCodec maps a name ("none", "lz4", "zstd") to a Codec.
func ParseCodec(name string) (Codec, error) { return lineio.ParseCodec(name) }

// Option is a functional option for configuring a Sorter.
type Option func(*config)

type config struct {
	threshold    int64
	workspaceDir string // empty means beside the input
	log          *zap.Logger
	fsys         fs.FileSystem
	codec        Codec
	mmap         bool
	sync         bool
}

func defaultConfig() *config {
	return &config{
		threshold: DefaultThreshold,
		log:       zap.NewNop(),
		fsys:      fs.Default,
		mmap:      true,
		sync:      true,
	}
}

// WithThreshold sets the in-memory limit T in bytes. Files smaller than T are
// sorted in memory; workspace buckets larger than T are split again.
func WithThreshold(n int64) Option {
	return func(c *config) {
		c.threshold = n
	}
}

// WithWorkspaceDir places the scratch directory under dir instead of beside
// the input file. The directory is created if missing.
func WithWorkspaceDir(dir string) Option {
	return func(c *config) {
		c.workspaceDir = dir
	}
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l == nil {
			l = zap.NewNop()
		}
		c.log = l
	}
}

// WithFileSystem replaces the file system used for the input, the output and
// the workspace.
func WithFileSystem(fsys fs.FileSystem) Option {
	return func(c *config) {
		c.fsys = fsys
	}
}

// WithCodec compresses workspace bucket files. Bucket sizes are still measured
// in decoded bytes.
func WithCodec(codec Codec) Option {
	return func(c *config) {
		c.codec = codec
	}
}

// WithMmap enables or disables memory-mapped loading in the in-memory sorter.
// Mapping is only used for plain local files; it is on by default.
func WithMmap(enabled bool) Option {
	return func(c *config) {
		c.mmap = enabled
	}
}

// WithSync controls whether the output is fsynced before Sort returns.
// Default true.
func WithSync(enabled bool) Option {
	return func(c *config) {
		c.sync = enabled
	}
}

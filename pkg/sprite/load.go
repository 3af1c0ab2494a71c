package sprite

import (
	"context"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	// Decoders for every extension the pipeline accepts.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/packforge/atlaspack/pkg/errors"
)

// LoadOptions configures discovery and decoding.
type LoadOptions struct {
	// Premultiply and Trim are forwarded to [New].
	Premultiply bool
	Trim        bool

	// Jobs bounds concurrent decodes. Zero means GOMAXPROCS.
	Jobs int

	// Logger receives per-file progress. Nil disables logging.
	Logger *log.Logger
}

// ListFiles walks the given files and directories in lexical order and
// returns the image file paths found. Non-image files inside directories
// are skipped silently; a non-image path given explicitly is an
// INVALID_INPUT error, since the caller asked for it by name.
func ListFiles(inputs []string) ([]string, error) {
	var paths []string
	for _, input := range inputs {
		info, err := os.Stat(input)
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "input not found: %s", input)
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "stat %s", input)
		}

		if !info.IsDir() {
			if !errors.IsImageExtension(filepath.Ext(input)) {
				return nil, errors.New(errors.ErrCodeInvalidInput, "not an image file: %s", input)
			}
			paths = append(paths, input)
			continue
		}

		err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if errors.IsImageExtension(filepath.Ext(path)) {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "walk %s", input)
		}
	}
	return paths, nil
}

// Load decodes every image file reachable from inputs into sprites.
//
// Decoding runs concurrently on a bounded pool, but the returned slice is
// in discovery order regardless of which decode finished first. Names are
// derived from the file path with the extension stripped; a duplicate name
// aborts the run with DUPLICATE_NAME before any packing happens.
func Load(ctx context.Context, inputs []string, opts LoadOptions) ([]*Sprite, error) {
	paths, err := ListFiles(inputs)
	if err != nil {
		return nil, err
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	sprites := make([]*Sprite, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if opts.Logger != nil {
				opts.Logger.Debug("reading file", "path", path)
			}
			s, err := loadOne(path, opts)
			if err != nil {
				return err
			}
			sprites[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Names must be unique: each ends up as the key in descriptor files.
	seen := make(map[string]string, len(sprites))
	for i, s := range sprites {
		if err := errors.ValidateSpriteName(s.Name); err != nil {
			return nil, err
		}
		if prev, ok := seen[s.Name]; ok {
			return nil, errors.New(errors.ErrCodeDuplicateName,
				"sprite name %q derived from both %s and %s", s.Name, prev, paths[i])
		}
		seen[s.Name] = paths[i]
	}

	return sprites, nil
}

func loadOne(path string, opts LoadOptions) (*Sprite, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "input not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeCodec, err, "open %s", path)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCodec, err, "decode %s", path)
	}

	return New(Name(path), img, Options{
		Premultiply: opts.Premultiply,
		Trim:        opts.Trim,
	}), nil
}

// Name derives the sprite name from a file path: the path with its
// extension stripped, cleaned, and slash-separated on every platform.
// Leading parent and root segments are dropped so that inputs outside the
// working directory still yield portable names.
func Name(path string) string {
	p := filepath.ToSlash(filepath.Clean(strings.TrimSuffix(path, filepath.Ext(path))))
	for strings.HasPrefix(p, "../") {
		p = strings.TrimPrefix(p, "../")
	}
	return strings.TrimPrefix(p, "/")
}

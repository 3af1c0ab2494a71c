package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/packforge/atlaspack/pkg/pipeline"
)

// packFlags collects every pack flag so config merging can see them in one
// place.
type packFlags struct {
	size        int
	width       int
	height      int
	pad         int
	rotate      bool
	trim        bool
	premultiply bool
	unique      bool
	defaults    bool
	noShrink    bool
	debug       bool
	heuristic   string
	extension   string
	xml         bool
	json        bool
	binary      bool
	jobs        int
	force       bool
}

// packCommand creates the pack command, the main entry point of the tool.
func (c *CLI) packCommand() *cobra.Command {
	var (
		flags      packFlags
		configPath string
		noCache    bool
		redisAddr  string
	)

	cmd := &cobra.Command{
		Use:   "pack OUTPUT INPUT...",
		Short: "Pack sprite images into texture atlases",
		Long: `Pack sprite images into texture atlases.

OUTPUT is the artifact base path: its directory receives the files and its
basename stems the artifact names (e.g. build/atlas produces build/atlas0.png
and build/atlas.json). INPUT arguments are image files or directories that
are walked recursively.

Packing is deterministic: the same inputs and options always produce the
same sheets. A run over unchanged inputs is skipped entirely unless --force
is given. Defaults can be placed in an atlaspack.toml file; explicit flags
always win.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			opts := buildPackOptions(flags, args, cfg, cmd.Flags().Changed)
			return c.runPack(cmd, opts, noCache, redisAddr)
		},
	}

	cmd.Flags().IntVarP(&flags.size, "size", "s", pipeline.DefaultSize, "canvas width and height (64-4096)")
	cmd.Flags().IntVar(&flags.width, "width", 0, "canvas width, overrides --size")
	cmd.Flags().IntVar(&flags.height, "height", 0, "canvas height, overrides --size")
	cmd.Flags().IntVarP(&flags.pad, "pad", "P", pipeline.DefaultPadding, "padding around each sprite (0-16)")
	cmd.Flags().BoolVarP(&flags.rotate, "rotate", "r", false, "allow 90 degree rotation of sprites")
	cmd.Flags().BoolVarP(&flags.trim, "trim", "t", false, "trim transparent borders off sprites")
	cmd.Flags().BoolVarP(&flags.premultiply, "premultiply", "p", false, "premultiply color channels by alpha")
	cmd.Flags().BoolVarP(&flags.unique, "unique", "u", false, "pack identical bitmaps only once")
	cmd.Flags().BoolVarP(&flags.defaults, "default", "d", false, "shorthand for --json --premultiply --trim --unique")
	cmd.Flags().BoolVar(&flags.noShrink, "no-shrink", false, "keep the full canvas size instead of shrinking to content")
	cmd.Flags().BoolVar(&flags.debug, "debug", false, "draw placement outlines on the atlases")
	cmd.Flags().StringVarP(&flags.heuristic, "heuristic", "H", pipeline.DefaultHeuristic, "placement heuristic: best-area, best-short-side, best-long-side, bottom-left, contact-point")
	cmd.Flags().StringVarP(&flags.extension, "extension", "e", pipeline.DefaultExtension, "atlas image format: png, jpg, jpeg, gif, bmp, tif, tiff")
	cmd.Flags().BoolVarP(&flags.xml, "xml", "x", false, "write an XML descriptor")
	cmd.Flags().BoolVarP(&flags.json, "json", "j", false, "write a JSON descriptor (default when no format is chosen)")
	cmd.Flags().BoolVarP(&flags.binary, "binary", "b", false, "write a binary descriptor")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "parallel decode/compose workers (0 = all CPUs)")
	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "re-run even when inputs are unchanged")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file (default atlaspack.toml if present)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the plan cache")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "redis address for a shared plan cache (host:port)")

	return cmd
}

// buildPackOptions maps flags, arguments and config onto pipeline options.
// Precedence: explicit flags, then config file, then built-in defaults.
func buildPackOptions(flags packFlags, args []string, cfg Config, changed func(string) bool) pipeline.Options {
	if flags.defaults {
		flags.json = true
		flags.premultiply = true
		flags.trim = true
		flags.unique = true
	}

	opts := pipeline.Options{
		Output:      args[0],
		Inputs:      args[1:],
		Width:       flags.size,
		Height:      flags.size,
		Rotate:      flags.rotate,
		Trim:        flags.trim,
		Premultiply: flags.premultiply,
		Unique:      flags.unique,
		NoShrink:    flags.noShrink,
		Debug:       flags.debug,
		Heuristic:   flags.heuristic,
		Extension:   flags.extension,
		Jobs:        flags.jobs,
		Force:       flags.force,
	}
	if flags.width != 0 {
		opts.Width = flags.width
	}
	if flags.height != 0 {
		opts.Height = flags.height
	}
	if changed("pad") {
		pad := flags.pad
		opts.Padding = &pad
	}
	for _, f := range []struct {
		set  bool
		name string
	}{
		{flags.xml, "xml"},
		{flags.json, "json"},
		{flags.binary, "binary"},
	} {
		if f.set {
			opts.Formats = append(opts.Formats, f.name)
		}
	}

	cfg.apply(&opts, changed)
	return opts
}

// runPack executes the pipeline and reports the results.
func (c *CLI) runPack(cmd *cobra.Command, opts pipeline.Options, noCache bool, redisAddr string) error {
	ctx := cmd.Context()

	runner, err := c.newRunner(ctx, noCache, redisAddr)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	opts.Logger = c.Logger
	prog := newProgress(c.Logger)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Packing %s...", opts.BaseName()))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Packing failed")
		return err
	}
	spinner.Stop()

	if result.Skipped {
		printInfo("Inputs unchanged, nothing to do (use --force to re-pack)")
		return nil
	}

	prog.done(fmt.Sprintf("Packed %d sprites into %d atlases", result.Stats.SpriteCount, result.Stats.AtlasCount))

	printSuccess("Wrote %s", opts.BaseName())
	for _, path := range result.ImagePaths {
		printFile(path)
	}
	for _, path := range result.DescriptorPaths {
		printFile(path)
	}
	printStats(result.Stats.SpriteCount, result.Stats.AtlasCount, result.CacheInfo.PlanHit)
	if result.Stats.DedupCount > 0 {
		printDetail("%d duplicate bitmaps folded", result.Stats.DedupCount)
	}
	if len(result.DescriptorPaths) > 0 {
		printNextStep("Inspect the result", fmt.Sprintf("atlaspack inspect %s", result.DescriptorPaths[0]))
	}

	return nil
}

package main

import (
	"context"
	"fmt"
	"strconv"

	"mosaic-gallery/internal/catalog"
	"mosaic-gallery/internal/cdnurl"
	"mosaic-gallery/internal/database"
	"mosaic-gallery/internal/gallery"
	"mosaic-gallery/internal/identity"
	"mosaic-gallery/internal/indexer"
	"mosaic-gallery/internal/layout"
	"mosaic-gallery/internal/logging"
	"mosaic-gallery/internal/media"
	"mosaic-gallery/internal/mediatypes"
	"mosaic-gallery/internal/sizetier"
	"mosaic-gallery/internal/startup"

	"github.com/spf13/cobra"
)

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// parseOverride returns "" for an empty name.
func parseOverride(name string) (sizetier.Tier, error) {
	if name == "" {
		return "", nil
	}
	return sizetier.Parse(name)
}

func newNormalizer(overridesPath string) (*identity.Normalizer, error) {
	n := identity.NewDefault()
	if overridesPath == "" {
		return n, nil
	}
	if err := identity.LoadOverridesInto(n, overridesPath); err != nil {
		return nil, err
	}
	return n, nil
}

func openDatabase(ctx context.Context, path string) (*database.Database, func(), error) {
	db, err := database.New(ctx, path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
	}
	return db, func() {
		if err := db.Close(); err != nil {
			logging.Warn("failed to close database: %v", err)
		}
	}, nil
}

// TierResult is the output of the tier command.
type TierResult struct {
	ViewportWidth  float64       `json:"viewportWidth"`
	PixelDensity   float64       `json:"pixelDensity"`
	EffectiveWidth float64       `json:"effectiveWidth"`
	Tier           sizetier.Tier `json:"tier"`
	Overridden     bool          `json:"overridden"`
}

func newTierCmd(opts *rootOptions) *cobra.Command {
	var width, dpr float64
	var override string

	cmd := &cobra.Command{
		Use:   "tier",
		Short: "Resolve the size tier for a viewport",
		Example: `  galleryctl tier --width 390 --dpr 3
  galleryctl tier --width 390 --tier originals`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tier, err := parseOverride(override)
			if err != nil {
				return err
			}
			effective := sizetier.EffectiveWidth(width, dpr)
			res := TierResult{
				ViewportWidth:  width,
				PixelDensity:   dpr,
				EffectiveWidth: effective,
				Tier:           sizetier.ResolveWithOverride(effective, tier),
				Overridden:     tier != "",
			}
			return emit(cmd.OutOrStdout(), opts, res,
				[]string{"WIDTH", "DPR", "EFFECTIVE", "TIER"},
				func() [][]string {
					return [][]string{{ftoa(width), ftoa(dpr), ftoa(effective), res.Tier.String()}}
				})
		},
	}

	cmd.Flags().Float64Var(&width, "width", 0, "Viewport width in density-independent pixels")
	cmd.Flags().Float64Var(&dpr, "dpr", 1, "Device pixel density")
	cmd.Flags().StringVar(&override, "tier", "", "Explicit tier that bypasses breakpoint selection")

	return cmd
}

// URLResult is the output of the url command.
type URLResult struct {
	Folder       string        `json:"folder"`
	Tier         sizetier.Tier `json:"tier"`
	RelativePath string        `json:"relativePath"`
	URL          string        `json:"url"`
}

func newURLCmd(opts *rootOptions) *cobra.Command {
	var author, folder, filename, tierName, basePath, root, format string

	cmd := &cobra.Command{
		Use:   "url",
		Short: "Compose the CDN URL for an image",
		Example: `  galleryctl url --author "Edward Weston" --filename pepper.jpg --tier w800
  galleryctl url --folder edward-weston --filename pepper.jpg --tier originals`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := startup.ReadConfig()
			if err != nil {
				return err
			}
			tier, err := sizetier.Parse(tierName)
			if err != nil {
				return err
			}
			if folder == "" {
				if author == "" {
					return fmt.Errorf("one of --author or --folder is required")
				}
				n, err := newNormalizer(cfg.AuthorOverrides)
				if err != nil {
					return err
				}
				folder = n.Folder(author)
			}

			composer := cdnurl.New(valueOr(root, cfg.CDNRoot), valueOr(format, cfg.OptimizedFormat))
			asset := cdnurl.Asset{
				Folder:   folder,
				Filename: filename,
				BasePath: valueOr(basePath, cfg.CDNBasePath),
				Tier:     tier,
			}
			res := URLResult{
				Folder:       folder,
				Tier:         tier,
				RelativePath: composer.RelativePath(asset),
				URL:          composer.Compose(asset),
			}
			return emit(cmd.OutOrStdout(), opts, res,
				[]string{"FOLDER", "TIER", "URL"},
				func() [][]string { return [][]string{{res.Folder, res.Tier.String(), res.URL}} })
		},
	}

	cmd.Flags().StringVar(&author, "author", "", "Author name, resolved to a folder")
	cmd.Flags().StringVar(&folder, "folder", "", "Folder slug, used as is")
	cmd.Flags().StringVar(&filename, "filename", "", "Original filename")
	cmd.Flags().StringVar(&tierName, "tier", sizetier.W400.String(), "Size tier")
	cmd.Flags().StringVar(&basePath, "base-path", "", "Collection base path (default CDN_BASE_PATH)")
	cmd.Flags().StringVar(&root, "root", "", "URL root (default CDN_ROOT)")
	cmd.Flags().StringVar(&format, "format", "", "Optimized format (default OPTIMIZED_FORMAT)")
	_ = cmd.MarkFlagRequired("filename")

	return cmd
}

func valueOr(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

// SlugResult is one resolved author.
type SlugResult struct {
	Author string `json:"author"`
	Folder string `json:"folder"`
	Rule   string `json:"rule"`
}

func newSlugCmd(opts *rootOptions) *cobra.Command {
	var overrides string

	cmd := &cobra.Command{
		Use:     "slug AUTHOR...",
		Short:   "Resolve author names to CDN folders",
		Example: `  galleryctl slug "Dorothea Lange" "Eugène Atget"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("overrides") {
				cfg, err := startup.ReadConfig()
				if err != nil {
					return err
				}
				overrides = cfg.AuthorOverrides
			}
			n, err := newNormalizer(overrides)
			if err != nil {
				return err
			}

			results := make([]SlugResult, 0, len(args))
			for _, author := range args {
				folder, rule := n.Resolve(author)
				results = append(results, SlugResult{Author: author, Folder: folder, Rule: rule})
			}
			return emit(cmd.OutOrStdout(), opts, results,
				[]string{"AUTHOR", "FOLDER", "RULE"},
				func() [][]string {
					rows := make([][]string, len(results))
					for i, r := range results {
						rows[i] = []string{r.Author, r.Folder, r.Rule}
					}
					return rows
				})
		},
	}

	cmd.Flags().StringVar(&overrides, "overrides", "", "Author override YAML file (default AUTHOR_OVERRIDES)")

	return cmd
}

// LayoutResult is the output of the layout command.
type LayoutResult struct {
	Grid         layout.Budget       `json:"grid"`
	DetailHeader layout.DetailHeader `json:"detailHeader"`
}

func newLayoutCmd(opts *rootOptions) *cobra.Command {
	var width, height, threshold float64

	cmd := &cobra.Command{
		Use:     "layout",
		Short:   "Compute layout budgets for a screen",
		Example: `  galleryctl layout --width 1024 --height 1366`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("threshold") {
				cfg, err := startup.ReadConfig()
				if err != nil {
					return err
				}
				threshold = cfg.TabletBreakpoint
			}
			res := LayoutResult{
				Grid:         layout.Compute(width, height, threshold),
				DetailHeader: layout.ComputeDetailHeader(width, height, threshold),
			}
			return emit(cmd.OutOrStdout(), opts, res,
				[]string{"TABLET", "ITEM", "IMAGE", "RESERVED", "ROWS", "HEADER"},
				func() [][]string {
					g := res.Grid
					return [][]string{{
						strconv.FormatBool(g.Tablet),
						strconv.Itoa(g.ItemHeight),
						strconv.Itoa(g.ImageHeight),
						strconv.Itoa(g.Reserved()),
						strconv.Itoa(g.VisibleRows),
						strconv.Itoa(res.DetailHeader.Height),
					}}
				})
		},
	}

	cmd.Flags().Float64Var(&width, "width", 0, "Device width in density-independent pixels")
	cmd.Flags().Float64Var(&height, "height", 0, "Device height in density-independent pixels")
	cmd.Flags().Float64Var(&threshold, "threshold", layout.DefaultTabletThreshold, "Tablet width threshold (default TABLET_BREAKPOINT)")

	return cmd
}

func newGalleryCmd(opts *rootOptions) *cobra.Command {
	var width, height, dpr float64
	var override, dbPath string

	cmd := &cobra.Command{
		Use:     "gallery AUTHOR",
		Short:   "Print an author's gallery from the catalog",
		Example: `  galleryctl gallery "Dorothea Lange" --width 390 --height 844 --dpr 3`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := startup.ReadConfig()
			if err != nil {
				return err
			}
			tier, err := parseOverride(override)
			if err != nil {
				return err
			}
			n, err := newNormalizer(cfg.AuthorOverrides)
			if err != nil {
				return err
			}
			db, closeDB, err := openDatabase(cmd.Context(), valueOr(dbPath, cfg.DatabasePath))
			if err != nil {
				return err
			}
			defer closeDB()

			resolver := gallery.NewResolver(cdnurl.New(cfg.CDNRoot, cfg.OptimizedFormat), n)
			svc := gallery.NewService(db, resolver, cfg.TabletBreakpoint)
			page := svc.Gallery(cmd.Context(), args[0], layout.Metrics{Width: width, Height: height, PixelDensity: dpr}, tier)

			return emit(cmd.OutOrStdout(), opts, page,
				[]string{"ID", "FILENAME", "ORIENTATION", "URL"},
				func() [][]string {
					rows := make([][]string, len(page.Items))
					for i, it := range page.Items {
						rows[i] = []string{strconv.FormatInt(it.ID, 10), it.Filename, string(it.Orientation), it.URL}
					}
					return rows
				})
		},
	}

	cmd.Flags().Float64Var(&width, "width", 0, "Viewport width in density-independent pixels")
	cmd.Flags().Float64Var(&height, "height", 0, "Viewport height in density-independent pixels")
	cmd.Flags().Float64Var(&dpr, "dpr", 1, "Device pixel density")
	cmd.Flags().StringVar(&override, "tier", "", "Explicit tier")
	cmd.Flags().StringVar(&dbPath, "db", "", "Catalog database path (default DATABASE_DIR/catalog.db)")

	return cmd
}

func newIndexCmd(opts *rootOptions) *cobra.Command {
	var sourceDir, dbPath, basePath string

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Run one index pass over the source tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := startup.ReadConfig()
			if err != nil {
				return err
			}
			db, closeDB, err := openDatabase(cmd.Context(), valueOr(dbPath, cfg.DatabasePath))
			if err != nil {
				return err
			}
			defer closeDB()

			idx := indexer.New(db, valueOr(sourceDir, cfg.SourceDir), valueOr(basePath, cfg.CDNBasePath), 0)
			defer idx.Stop()
			if err := idx.Index(); err != nil {
				return err
			}

			stats := db.GetStats()
			return emit(cmd.OutOrStdout(), opts, stats,
				[]string{"IMAGES", "AUTHORS", "SENSITIVE", "ALWAYS SHOWN", "DURATION"},
				func() [][]string {
					return [][]string{{
						strconv.Itoa(stats.TotalImages),
						strconv.Itoa(stats.TotalAuthors),
						strconv.Itoa(stats.SensitiveImages),
						strconv.Itoa(stats.AlwaysShownImages),
						stats.IndexDuration,
					}}
				})
		},
	}

	cmd.Flags().StringVar(&sourceDir, "source", "", "Source directory (default SOURCE_DIR)")
	cmd.Flags().StringVar(&dbPath, "db", "", "Catalog database path (default DATABASE_DIR/catalog.db)")
	cmd.Flags().StringVar(&basePath, "base-path", "", "Collection base path (default CDN_BASE_PATH)")

	return cmd
}

func newRenderCmd(opts *rootOptions) *cobra.Command {
	var author, sourceDir, originDir, dbPath string
	var tierNames []string
	var force bool

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render tier derivatives for catalog images",
		Example: `  galleryctl render
  galleryctl render --author "Lewis Hine" --tier w400 --tier originals --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := startup.ReadConfig()
			if err != nil {
				return err
			}
			tiers := make([]sizetier.Tier, 0, len(tierNames))
			for _, name := range tierNames {
				t, err := sizetier.Parse(name)
				if err != nil {
					return err
				}
				tiers = append(tiers, t)
			}
			n, err := newNormalizer(cfg.AuthorOverrides)
			if err != nil {
				return err
			}
			db, closeDB, err := openDatabase(cmd.Context(), valueOr(dbPath, cfg.DatabasePath))
			if err != nil {
				return err
			}
			defer closeDB()

			rows, err := catalogRows(cmd.Context(), db, author)
			if err != nil {
				return err
			}

			composer := cdnurl.New(cfg.CDNRoot, cfg.OptimizedFormat)
			if needsVips(tiers, composer) {
				if err := media.InitVips(); err != nil {
					logging.Warn("libvips unavailable: %v", err)
				}
				defer media.ShutdownVips()
			}

			r := media.NewRenditioner(valueOr(sourceDir, cfg.SourceDir), valueOr(originDir, cfg.OriginDir), composer, n)
			r.SetTiers(tiers)
			r.SetForce(force)

			summary, err := r.RenderAll(cmd.Context(), rows)
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), opts, summary,
				[]string{"RENDERED", "SKIPPED", "FAILED", "DURATION"},
				func() [][]string {
					return [][]string{{
						strconv.FormatInt(summary.Rendered, 10),
						strconv.FormatInt(summary.Skipped, 10),
						strconv.FormatInt(summary.Failed, 10),
						summary.Duration.String(),
					}}
				})
		},
	}

	cmd.Flags().StringVar(&author, "author", "", "Only render this author's images")
	cmd.Flags().StringSliceVar(&tierNames, "tier", nil, "Tiers to render (default all)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite renditions that are up to date")
	cmd.Flags().StringVar(&sourceDir, "source", "", "Source directory (default SOURCE_DIR)")
	cmd.Flags().StringVar(&originDir, "origin", "", "Output directory (default ORIGIN_DIR)")
	cmd.Flags().StringVar(&dbPath, "db", "", "Catalog database path (default DATABASE_DIR/catalog.db)")

	return cmd
}

func catalogRows(ctx context.Context, db *database.Database, author string) ([]catalog.Row, error) {
	images, err := db.AllImages(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]catalog.Row, 0, len(images))
	for _, img := range images {
		if author == "" || img.Author == author {
			rows = append(rows, img.Row)
		}
	}
	return rows, nil
}

// needsVips reports whether any requested tier is encoded as WebP.
func needsVips(tiers []sizetier.Tier, composer *cdnurl.Composer) bool {
	if backend, _ := mediatypes.Encoder(composer.OptimizedExtension()); backend != mediatypes.BackendVips {
		return false
	}
	if len(tiers) == 0 {
		tiers = sizetier.All
	}
	for _, t := range tiers {
		if !t.IsOriginal() {
			return true
		}
	}
	return false
}

package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/eringen/seotag"
	"github.com/eringen/seotag/frontmatter"
	"github.com/eringen/seotag/views"
)

// errNoImage makes `resolve` exit non-zero when a page has no image.
var errNoImage = errors.New("no image")

type rootOptions struct {
	envFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "seotag",
		Short:         "Publish pages with resolved SEO image metadata",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before SEOTAG_* variables")

	cmd.AddCommand(
		newServeCmd(opts),
		newResolveCmd(opts),
		newImportCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var staticDir string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := seotag.LoadConfig(opts.envFile)
			if err != nil {
				return err
			}
			app := seotag.New(cfg, views.New(cfg), seotag.WithStaticDir(staticDir))
			defer app.Close()
			return app.Start()
		},
	}
	cmd.Flags().StringVar(&staticDir, "static", "public", "directory served under /public")
	return cmd
}

func newResolveCmd(opts *rootOptions) *cobra.Command {
	var siteURL, baseURL, pageURL string
	var showData bool
	cmd := &cobra.Command{
		Use:   "resolve <file.md>",
		Short: "Print the absolute image URL of a Markdown page",
		Long: `Reads the front matter of a Markdown page and prints the image URL the
server would put in og:image and twitter:image. Exits with status 1 when the
page has no image.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := seotag.LoadConfig(opts.envFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("site-url") {
				cfg.URL = siteURL
			}
			if cmd.Flags().Changed("base-url") {
				cfg.BaseURL = baseURL
			}
			doc, err := frontmatter.Load(args[0])
			if err != nil {
				return err
			}
			page := doc.Post().FrontMatter(cfg)
			if pageURL != "" {
				page["url"] = pageURL
			} else if u, ok := doc.Meta["url"].(string); ok && u != "" {
				page["url"] = u
			}
			r, err := seotag.NewImageResolver(page, seotag.NewSiteFilters(cfg))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if showData {
				data := r.FallbackData()
				keys := make([]string, 0, len(data))
				for k := range data {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, k := range keys {
					fmt.Fprintf(out, "%s: %v\n", k, data[k])
				}
			}
			if _, ok := r.Resolve(); !ok {
				return fmt.Errorf("%s: %w", args[0], errNoImage)
			}
			fmt.Fprintln(out, r.String())
			return nil
		},
	}
	cmd.Flags().StringVar(&siteURL, "site-url", "", "site URL (overrides SEOTAG_URL)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "path prefix (overrides SEOTAG_BASE_URL)")
	cmd.Flags().StringVar(&pageURL, "page-url", "", "page URL used for relative images (default /blog/<slug>/)")
	cmd.Flags().BoolVar(&showData, "data", false, "also print the normalized image record")
	return cmd
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <dir>",
		Short: "Load *.md files from a directory into the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := seotag.LoadConfig(opts.envFile)
			if err != nil {
				return err
			}
			logger := seotag.NewLogger(cfg.LogLevel, cmd.ErrOrStderr())

			docs, err := frontmatter.LoadDir(args[0])
			if err != nil {
				return err
			}
			store, err := seotag.NewStore(cfg.DatabasePath)
			if err != nil {
				return err
			}
			defer store.Close()

			for _, doc := range docs {
				post := doc.Post()
				if err := store.SavePost(post); err != nil {
					return fmt.Errorf("save %s: %w", doc.Path, err)
				}
				img, _ := seotag.ResolveImage(cfg, post)
				logger.Info("imported", "file", doc.Path, "slug", post.Slug, "image", img)
			}
			logger.Info("import finished", "posts", len(docs), "db", cfg.DatabasePath)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the seotag version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "seotag %s\n", version)
		},
	}
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"agentui/cmd/agentui/ui"
	"agentui/internal/config"
	"agentui/internal/i18n"
	"agentui/internal/logging"
	"agentui/internal/output"
	"agentui/internal/types"
	"agentui/internal/watch"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	renderLevel   string
	renderFrom    string
	renderCopy    bool
	renderPreview bool
	renderWatch   bool
	renderWidth   int
)

// renderCmd prints the feedback document
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the current scopes as Markdown",
	Long: `Renders every scope in the session (or in a JSON export given with --from)
as a Markdown document at the chosen level.

Examples:
  agentui render --level compact
  agentui render --level forensic --copy
  agentui render --from scopes.json --preview
  agentui render --watch`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

// copyCmd copies the feedback document to the clipboard
var copyCmd = &cobra.Command{
	Use:   "copy",
	Short: "Copy the rendered document to the clipboard",
	Args:  cobra.NoArgs,
	RunE:  runCopy,
}

func init() {
	for _, c := range []*cobra.Command{renderCmd, copyCmd} {
		c.Flags().StringVarP(&renderLevel, "level", "l", "", "Output level: compact, standard, detailed, forensic (default from config)")
		c.Flags().StringVar(&renderFrom, "from", "", "Render scopes from a JSON export instead of the session")
	}
	renderCmd.Flags().BoolVar(&renderCopy, "copy", false, "Also copy the document to the clipboard")
	renderCmd.Flags().BoolVar(&renderPreview, "preview", false, "Render the Markdown for the terminal")
	renderCmd.Flags().BoolVarP(&renderWatch, "watch", "w", false, "Re-render whenever the inputs change")
	renderCmd.Flags().IntVar(&renderWidth, "width", 100, "Wrap width for --preview")
}

// renderInputs is everything a document depends on besides the level.
type renderInputs struct {
	scopes    []types.Scope
	generator *output.Generator
	resolver  *i18n.Resolver
}

func (in renderInputs) document(level types.OutputLevel) string {
	return in.generator.Generate(in.scopes, level)
}

// loadRenderInputs reads scopes from the export file when from is set,
// otherwise from the session store. The scopes are a snapshot.
func loadRenderInputs(ctx context.Context, c *config.Config, from string) (renderInputs, error) {
	resolver, err := newResolver(c)
	if err != nil {
		return renderInputs{}, err
	}

	var (
		scopes []types.Scope
		env    output.Environment
	)
	if from != "" {
		f, err := loadExportFile(from)
		if err != nil {
			return renderInputs{}, err
		}
		scopes = f.Scopes
		static := configEnvironment(c)
		if e := f.Environment; e != nil {
			static = output.StaticEnvironment{
				URL:              e.URL,
				UserAgent:        e.UserAgent,
				Viewport:         e.Viewport,
				DevicePixelRatio: e.DevicePixelRatio,
				ScrollPosition:   e.ScrollPosition,
			}
		}
		env = static
	} else {
		store, err := openStore(c)
		if err != nil {
			return renderInputs{}, err
		}
		defer store.Close()
		if scopes, err = store.List(ctx); err != nil {
			return renderInputs{}, err
		}
		env = storedEnvironment(ctx, c, store)
	}

	gen := output.NewGenerator(resolver, env, output.WithLogger(logging.Get(logging.CategoryOutput)))
	return renderInputs{scopes: scopes, generator: gen, resolver: resolver}, nil
}

// selectedLevel resolves --level against the configured default.
func selectedLevel(c *config.Config, flag string) (types.OutputLevel, error) {
	if flag == "" {
		return c.OutputLevel(), nil
	}
	return types.ParseOutputLevel(flag)
}

func runRender(cmd *cobra.Command, args []string) error {
	c, err := appConfig()
	if err != nil {
		return err
	}
	level, err := selectedLevel(c, renderLevel)
	if err != nil {
		return err
	}

	if renderWatch {
		return watchRender(cmd, c, level)
	}

	ctx, cancel := commandContext()
	defer cancel()
	return renderOnce(ctx, cmd, c, level)
}

func renderOnce(ctx context.Context, cmd *cobra.Command, c *config.Config, level types.OutputLevel) error {
	in, err := loadRenderInputs(ctx, c, renderFrom)
	if err != nil {
		return err
	}
	doc := in.document(level)
	writeDocument(cmd.OutOrStdout(), doc)

	if renderCopy {
		copyDocument(ctx, cmd, c, in.resolver, doc)
	}
	return nil
}

func writeDocument(w io.Writer, doc string) {
	if renderPreview {
		doc = ui.GlamourRenderer(doc, renderWidth)
	}
	fmt.Fprintln(w, doc)
}

// copyDocument reports the outcome on stderr and returns it.
func copyDocument(ctx context.Context, cmd *cobra.Command, c *config.Config, r *i18n.Resolver, doc string) bool {
	ok := newExporter(c).Copy(ctx, doc)
	key := "toolbar.copied"
	if !ok {
		key = "toolbar.copyFailed"
	}
	fmt.Fprintln(cmd.ErrOrStderr(), r.UI(key, nil))
	return ok
}

func watchRender(cmd *cobra.Command, c *config.Config, level types.OutputLevel) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := renderOnce(ctx, cmd, c, level); err != nil {
		return err
	}

	paths := []string{renderFrom, c.I18n.TranslationsFile}
	if renderFrom == "" {
		paths = append(paths, c.Session.DatabasePath)
	}
	w, err := watch.New(paths, func(ctx context.Context, path string) {
		fmt.Fprintln(cmd.OutOrStdout())
		if err := renderOnce(ctx, cmd, c, level); err != nil {
			appLogger().Error("re-render failed", zap.String("trigger", path), zap.Error(err))
		}
	}, watch.WithLogger(logging.Get(logging.CategoryWatch)))
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop()

	<-ctx.Done()
	w.Stop()
	st := w.Stats()
	appLogger().Debug("watch stopped",
		zap.Int("events", st.Events),
		zap.Int("renders", st.Fired),
		zap.Int("errors", st.Errors))
	return nil
}

func runCopy(cmd *cobra.Command, args []string) error {
	c, err := appConfig()
	if err != nil {
		return err
	}
	level, err := selectedLevel(c, renderLevel)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	in, err := loadRenderInputs(ctx, c, renderFrom)
	if err != nil {
		return err
	}
	if !copyDocument(ctx, cmd, c, in.resolver, in.document(level)) {
		return fmt.Errorf("copy failed")
	}
	return nil
}

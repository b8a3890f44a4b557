package main

import (
	"context"
	"fmt"
	"strings"

	"agentui/internal/browser"
	"agentui/internal/i18n"
	"agentui/internal/logging"
	"agentui/internal/session"
	"agentui/internal/types"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	addComment string
	addText    string
)

// addCmd captures elements from a live page and stores them as scopes
var addCmd = &cobra.Command{
	Use:   "add <url> <selector>...",
	Short: "Capture page elements and attach feedback to them",
	Long: `Opens the page in Chrome, captures each selector's element description and
appends one scope per element to the session. Several selectors form a
multi-element selection sharing the same comment.

Examples:
  agentui add http://localhost:3000/settings "#save" --comment "Make this blue"
  agentui add http://localhost:3000 ".card:nth-of-type(2)" ".card:nth-of-type(3)" -m "Align these"`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAdd,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the scopes in the session",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var editCmd = &cobra.Command{
	Use:   "edit <number|id> <comment>...",
	Short: "Replace a scope's comment",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runEdit,
}

var removeCmd = &cobra.Command{
	Use:   "remove <number|id>",
	Short: "Remove a scope and renumber the rest",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemove,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every scope",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

func init() {
	addCmd.Flags().StringVarP(&addComment, "comment", "m", "", "Feedback for the element(s)")
	addCmd.Flags().StringVar(&addText, "text", "", "Selected text to quote (default: the page's current selection)")
}

// elementSource captures elements and page state; *browser.Inspector in
// production.
type elementSource interface {
	capture(ctx context.Context, url string, selectors []string) (capturedPage, error)
	Close() error
}

type capturedPage struct {
	elements    []types.ElementInfo
	selection   string
	environment types.EnvironmentInfo
}

// newElementSource is replaced in tests.
var newElementSource = func(cfg browser.Config) elementSource {
	return inspectorSource{browser.NewInspector(cfg, logging.Get(logging.CategoryBrowser))}
}

type inspectorSource struct {
	*browser.Inspector
}

func (s inspectorSource) capture(ctx context.Context, url string, selectors []string) (capturedPage, error) {
	page, err := s.Open(ctx, url)
	if err != nil {
		return capturedPage{}, err
	}
	defer page.Close()

	elements, err := s.CaptureElements(ctx, page, selectors)
	if err != nil {
		return capturedPage{}, err
	}
	selection, err := s.CaptureSelection(ctx, page, selectors[0])
	if err != nil {
		return capturedPage{}, err
	}
	return capturedPage{
		elements:    elements,
		selection:   selection,
		environment: s.Environment(page).Snapshot(),
	}, nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	c, err := appConfig()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext()
	defer cancel()

	url, selectors := args[0], args[1:]
	src := newElementSource(c.Browser)
	defer src.Close()

	page, err := src.capture(ctx, url, selectors)
	if err != nil {
		return fmt.Errorf("capture %s: %w", url, err)
	}

	store, err := openStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	text := addText
	if text == "" {
		text = page.selection
	}
	multi := len(page.elements) > 1
	for _, el := range page.elements {
		scope, err := store.Add(ctx, session.Draft{
			ElementInfo:   el,
			Comment:       addComment,
			SelectedText:  text,
			IsMultiSelect: multi,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", scope.Number, scope.ElementInfo.HumanReadable)
	}
	if err := store.SetEnvironment(ctx, page.environment); err != nil {
		appLogger().Warn("failed to record page environment", zap.Error(err))
	}
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	c, err := appConfig()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext()
	defer cancel()

	store, err := openStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	scopes, err := store.List(ctx)
	if err != nil {
		return err
	}
	resolver, err := newResolver(c)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(scopes) == 0 {
		fmt.Fprintln(out, resolver.UI("output.noScopes", nil))
		return nil
	}
	for _, s := range scopes {
		comment := s.Comment
		if comment == "" {
			comment = resolver.UI("marker.noComment", nil)
		}
		fmt.Fprintf(out, "%d. %s: %s  [%s]\n", s.Number, s.ElementInfo.HumanReadable, comment, s.ID)
	}
	fmt.Fprintln(out, resolver.UI("toolbar.scopeCount", i18n.Params{"count": len(scopes)}))
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	c, err := appConfig()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext()
	defer cancel()

	store, err := openStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	scope, err := store.Resolve(ctx, args[0])
	if err != nil {
		return fmt.Errorf("scope %s: %w", args[0], err)
	}
	updated, err := store.UpdateComment(ctx, scope.ID, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d. %s: %s\n", updated.Number, updated.ElementInfo.HumanReadable, updated.Comment)
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	c, err := appConfig()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext()
	defer cancel()

	store, err := openStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	scope, err := store.Resolve(ctx, args[0])
	if err != nil {
		return fmt.Errorf("scope %s: %w", args[0], err)
	}
	if err := store.Remove(ctx, scope.ID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %d. %s\n", scope.Number, scope.ElementInfo.HumanReadable)
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	c, err := appConfig()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext()
	defer cancel()

	store, err := openStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.Count(ctx)
	if err != nil {
		return err
	}
	if err := store.Clear(ctx); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "cleared %d scopes\n", n)
	return nil
}

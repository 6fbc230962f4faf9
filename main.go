// trkit — GetX translation kit: key extraction and AI translation for
// Flutter projects using the GetX .tr convention.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/getx-tools/trkit/arbfile"
	"github.com/getx-tools/trkit/config"
	"github.com/getx-tools/trkit/dartfile"
	"github.com/getx-tools/trkit/extract"
	"github.com/getx-tools/trkit/i18n"
	"github.com/getx-tools/trkit/langmeta"
	"github.com/getx-tools/trkit/merge"
	"github.com/getx-tools/trkit/settings"
	"github.com/getx-tools/trkit/translate"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorBlue+"[INFO]"+colorReset+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[OK]"+colorReset+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"[WARN]"+colorReset+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+format+"\n", args...)
}

// ---------------------------------------------------------------------------
// Global flag
// ---------------------------------------------------------------------------

var rootDir string

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "trkit",
		Short: "GetX translation kit: key extraction and AI translation",
		Long: `trkit — GetX translation kit for Flutter projects.

Scans Dart source for .tr-suffixed string keys, merges new keys into the
per-locale Map<String, String> stores, and machine-translates the missing
entries with an AI provider. Existing entries are never modified.

Commands:
  scan        Extract translation keys from source files
  status      Show project info and per-locale coverage
  translate   Merge and translate missing keys
  provider    List or switch translation providers
  auth        Manage provider credentials

AI Providers:
  openai   OpenAI chat completions — API key required
  groq     Groq — API key required
  ollama   Local Ollama server — no key needed`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global persistent flag — inherited by all subcommands
	root.PersistentFlags().StringVar(&rootDir, "root", ".", "Project root directory")

	root.AddCommand(
		newScanCmd(),
		newStatusCmd(),
		newTranslateCmd(),
		newExportCmd(),
		newProviderCmd(),
		newAuthCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	i18n.Init("")
	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("trkit version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}
}

// ---------------------------------------------------------------------------
// scan (read-only: extract keys from source)
// ---------------------------------------------------------------------------

func newScanCmd() *cobra.Command {
	var sourceDirs []string

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Extract translation keys from source files",
		Long: `Scan Dart source files for .tr-suffixed string literals and print
the extracted keys, one per line, in order of first appearance.

Keys are written to stdout; diagnostics go to stderr, so the output can
be piped.`,
		Run: func(cmd *cobra.Command, args []string) {
			runScan(sourceDirs)
		},
	}

	cmd.Flags().StringArrayVar(&sourceDirs, "source-dir", nil, "Directory to scan (repeatable, default: auto-detect)")

	return cmd
}

func runScan(sourceDirs []string) {
	proj := config.Detect(rootDir)
	if len(sourceDirs) > 0 {
		proj.SourceDirs = sourceDirs
	}

	logInfo(i18n.T("Scanning source files..."))
	keys := scanKeys(proj)

	for _, key := range keys {
		fmt.Println(key)
	}
	logSuccess(i18n.N("Found %d key", "Found %d keys", len(keys)), len(keys))

	// Missing-per-locale summary when a locale dir is present.
	files, err := extract.FindLocaleFiles(proj.LocaleDir)
	if err != nil || len(files) == 0 {
		return
	}
	for _, path := range files {
		f, err := dartfile.ParseFile(path)
		if err != nil {
			logWarning("%v", err)
			continue
		}
		if missing := len(f.Missing(keys)); missing > 0 {
			logInfo("%s: %d missing", filepath.Base(path), missing)
		}
	}
}

// scanKeys extracts the ordered key list from the project's source dirs.
func scanKeys(proj *config.Project) []string {
	files, err := extract.FindSources(proj.SourceDirs)
	if err != nil {
		logError("Scanning sources: %v", err)
		os.Exit(1)
	}
	return extract.KeysFromFiles(files, func(path string, err error) {
		logWarning("Skipping %s: %v", path, err)
	})
}

// ---------------------------------------------------------------------------
// status (read-only: project info + coverage table)
// ---------------------------------------------------------------------------

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show project info and per-locale coverage",
		Long: `Show auto-detected project structure and per-locale translation
coverage. Does not modify any files.`,
		Run: func(cmd *cobra.Command, args []string) {
			runStatus()
		},
	}
}

func runStatus() {
	proj := config.Detect(rootDir)
	cfg, err := config.Load(rootDir)
	if err != nil {
		logError("%v", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "%sProject%s\n", colorBlue, colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
	fmt.Fprintf(os.Stderr, "  %-14s %s %s\n", "Name:", proj.Name, proj.Version)
	fmt.Fprintf(os.Stderr, "  %-14s %s\n", "Locale dir:", proj.LocaleDir)
	fmt.Fprintf(os.Stderr, "  %-14s %s\n", "Base locale:", cfg.BaseLocale)
	fmt.Fprintf(os.Stderr, "  %-14s %s\n", "Provider:", cfg.Provider)
	fmt.Fprintln(os.Stderr)

	keys := scanKeys(proj)
	if len(keys) == 0 {
		logInfo("No translation keys found in %s", strings.Join(proj.SourceDirs, ", "))
		return
	}

	files, err := extract.FindLocaleFiles(proj.LocaleDir)
	if err != nil || len(files) == 0 {
		logWarning(i18n.T("No locale files found in %s"), proj.LocaleDir)
		fmt.Fprintf(os.Stderr, "\n  Create one per locale, e.g. %s\n\n",
			filepath.Join(proj.LocaleDir, "en.dart"))
		return
	}

	fmt.Fprintf(os.Stderr, "%sCoverage%s (%d keys in source)\n", colorBlue, colorReset, len(keys))
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))

	width := langColumnWidth(proj.Locales)
	missingTotal := 0
	for _, path := range files {
		loc, ok := langmeta.FromFileName(path)
		if !ok {
			continue
		}
		f, err := dartfile.ParseFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %s  %s\n", langCell(loc.Code, width), "unparseable")
			continue
		}
		missing := len(f.Missing(keys))
		missingTotal += missing
		percent := (len(keys) - missing) * 100 / len(keys)
		fmt.Fprintf(os.Stderr, "  %s  %s  %d missing  (%s)\n",
			langCell(loc.Code, width), progressBar(percent, 20), missing, langmeta.EnglishName(loc.Code))
	}
	fmt.Fprintln(os.Stderr)

	if missingTotal == 0 {
		logSuccess(i18n.T("Nothing to translate — all keys are present."))
	} else {
		logInfo("Run 'trkit translate' to fill %d missing entr%s",
			missingTotal, pluralSuffix(missingTotal, "y", "ies"))
	}
}

func pluralSuffix(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// ---------------------------------------------------------------------------
// translate (the core pipeline)
// ---------------------------------------------------------------------------

func newTranslateCmd() *cobra.Command {
	var (
		// Provider selection
		provider string
		apiKey   string
		model    string
		baseURL  string

		// Target selection
		localeDir string
		srcDirs   []string
		langs     string

		// Behavior
		batchSize     int
		batchDelay    time.Duration
		parallel      bool
		maxConcurrent int
		dryRun        bool
		yes           bool
	)

	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Merge and translate missing keys",
		Long: `Scan source for .tr keys, merge the new ones into every locale store,
and translate them with the configured AI provider.

The base-locale store is updated first (key as value) and seeds the
source text for the other locales. Existing entries are never modified,
so the command is safe to re-run.

Examples:
  # Translate with the configured provider (trkit.yaml)
  trkit translate

  # One-off provider/model override
  trkit translate --provider groq --model llama-3.3-70b-versatile

  # Local Ollama, no API key
  trkit translate --provider ollama

  # Limit to specific locales, run them in parallel
  trkit translate --lang ru,de --parallel

  # Show what would change without writing
  trkit translate --dry-run`,
		Run: func(cmd *cobra.Command, args []string) {
			runTranslate(translateArgs{
				provider: provider, apiKey: apiKey, model: model, baseURL: baseURL,
				localeDir: localeDir, srcDirs: srcDirs, langs: langs,
				batchSize: batchSize, batchDelay: batchDelay,
				parallel: parallel, maxConcurrent: maxConcurrent,
				dryRun: dryRun, yes: yes,
			})
		},
	}

	// Provider selection
	cmd.Flags().StringVar(&provider, "provider", "", "AI provider: openai, groq, ollama (default: trkit.yaml)")
	cmd.Flags().StringVar(&model, "model", "", "Model name (default: provider default)")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key (or TRKIT_API_KEY env var)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Custom API base URL")

	// Target selection
	cmd.Flags().StringVar(&localeDir, "locale-dir", "", "Directory with locale .dart files (default: auto-detect)")
	cmd.Flags().StringArrayVar(&srcDirs, "source-dir", nil, "Directory to scan (repeatable, default: auto-detect)")
	cmd.Flags().StringVar(&langs, "lang", "", "Locales to translate (comma-separated, default: all)")

	// Behavior
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Keys per translation batch (default: trkit.yaml)")
	cmd.Flags().DurationVar(&batchDelay, "delay", 0, "Pause between batches (default: trkit.yaml)")
	cmd.Flags().BoolVar(&parallel, "parallel", false, "Process locale files concurrently")
	cmd.Flags().IntVar(&maxConcurrent, "max-concurrent", 0, "Maximum concurrent files (with --parallel)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report without writing any file")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Never prompt; fall back to source text on failure")

	_ = cmd.RegisterFlagCompletionFunc("provider", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		completions := make([]string, 0, len(allProviders))
		for _, p := range allProviders {
			completions = append(completions, fmt.Sprintf("%s\t%s", p.id, p.desc))
		}
		return completions, cobra.ShellCompDirectiveNoFileComp
	})

	_ = cmd.RegisterFlagCompletionFunc("model", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		p, _ := cmd.Flags().GetString("provider")
		switch p {
		case translate.ProviderOpenAI:
			return []string{"gpt-4o-mini", "gpt-4o", "gpt-4.1-mini"}, cobra.ShellCompDirectiveNoFileComp
		case translate.ProviderGroq:
			return []string{"llama-3.3-70b-versatile", "llama-3.1-8b-instant"}, cobra.ShellCompDirectiveNoFileComp
		case translate.ProviderOllama:
			return []string{"llama3.2", "qwen2.5", "mistral", "phi3"}, cobra.ShellCompDirectiveNoFileComp
		default:
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
	})

	return cmd
}

type translateArgs struct {
	provider, apiKey, model, baseURL string
	localeDir                        string
	srcDirs                          []string
	langs                            string
	batchSize                        int
	batchDelay                       time.Duration
	parallel                         bool
	maxConcurrent                    int
	dryRun, yes                      bool
}

func runTranslate(a translateArgs) {
	cfg, err := config.Load(rootDir)
	if err != nil {
		logError("%v", err)
		os.Exit(1)
	}
	proj := config.Detect(rootDir)
	if len(proj.SourceDirs) == 0 {
		for _, dir := range cfg.SourceDirs {
			proj.SourceDirs = append(proj.SourceDirs, filepath.Join(rootDir, dir))
		}
	}
	if len(a.srcDirs) > 0 {
		proj.SourceDirs = a.srcDirs
	}

	// Locale dir precedence: flag, then trkit.yaml when it points at real
	// locale files, then auto-detection.
	localeDir := proj.LocaleDir
	if cfgDir := filepath.Join(rootDir, cfg.LocaleDir); cfgDir != localeDir {
		if files, err := extract.FindLocaleFiles(cfgDir); err == nil && len(files) > 0 {
			localeDir = cfgDir
		}
	}
	if a.localeDir != "" {
		localeDir = a.localeDir
	}

	providerID := cfg.Provider
	if a.provider != "" {
		providerID = a.provider
	}

	mgr, err := buildManager(cfg, providerID, a)
	if errors.Is(err, translate.ErrProviderNotAvailable) && !a.yes {
		// Offer key setup right here instead of bouncing the user to a
		// separate auth invocation.
		logWarning("%v", err)
		if confirm(fmt.Sprintf("Configure an API key for %s now?", providerID)) {
			authLoginAPIKey(providerID)
			mgr, err = buildManager(cfg, providerID, a)
		}
	}
	if err != nil {
		logError("%v", err)
		if errors.Is(err, translate.ErrProviderNotAvailable) {
			fmt.Fprintf(os.Stderr, "\n  Configure a key with: trkit auth login --provider %s\n\n", providerID)
		}
		os.Exit(1)
	}

	current, err := mgr.Current()
	if err != nil {
		logError("%v", err)
		os.Exit(1)
	}
	logInfo(i18n.T("Using provider %s (model %s)"), mgr.CurrentID(), current.Model())

	logInfo(i18n.T("Scanning source files..."))
	keys := scanKeys(proj)
	if len(keys) == 0 {
		logSuccess(i18n.T("Nothing to translate — all keys are present."))
		return
	}
	logInfo(i18n.N("Found %d key", "Found %d keys", len(keys)), len(keys))

	files, err := extract.FindLocaleFiles(localeDir)
	if err != nil {
		logError("%v", err)
		os.Exit(1)
	}
	files = filterLocaleFiles(files, a.langs, cfg.BaseLocale)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	session := &merge.Session{
		Manager:       mgr,
		BaseLocale:    cfg.BaseLocale,
		BatchSize:     firstPositive(a.batchSize, cfg.BatchSize),
		BatchDelay:    firstPositiveDuration(a.batchDelay, cfg.BatchDelayDuration()),
		Parallel:      a.parallel || cfg.Parallel,
		MaxConcurrent: firstPositive(a.maxConcurrent, cfg.MaxConcurrent),
		DryRun:        a.dryRun,
		OnLog: func(format string, args ...any) {
			logInfo(format, args...)
		},
		OnError: func(format string, args ...any) {
			logWarning(format, args...)
		},
	}
	if !a.yes {
		session.OnExhausted = func(locale string, cause error) merge.Decision {
			logError(i18n.T("All translation providers failed for %s."), locale)
			logError("  %v", cause)
			if confirm(i18n.T("Retry translation?")) {
				return merge.DecisionRetry
			}
			return merge.DecisionFallback
		}
	}

	report, err := session.Run(ctx, keys, files)
	if err != nil {
		if errors.Is(err, merge.ErrNoLocaleFiles) {
			logError(i18n.T("No locale files found in %s"), localeDir)
			fmt.Fprintf(os.Stderr, "\n  Create one per locale, e.g. %s\n\n",
				filepath.Join(localeDir, cfg.BaseLocale+".dart"))
			os.Exit(1)
		}
		if ctx.Err() != nil {
			logWarning("Interrupted, partial progress saved")
			os.Exit(0)
		}
		logError("Translation failed: %v", err)
		os.Exit(1)
	}

	if report.FilesErrored > 0 {
		logWarning("%d file(s) skipped due to errors", report.FilesErrored)
	}
	if report.KeysAdded == 0 {
		logSuccess(i18n.T("Nothing to translate — all keys are present."))
		return
	}
	verb := "Added"
	if a.dryRun {
		verb = "Would add"
	}
	logSuccess("%s across %d file(s)",
		fmt.Sprintf(i18n.N(verb+" %d key", verb+" %d keys", report.KeysAdded), report.KeysAdded),
		report.FilesTouched)
}

// buildManager registers every known provider and selects providerID as
// current. Provider switches are persisted back to trkit.yaml.
func buildManager(cfg *config.File, providerID string, a translateArgs) (*translate.Manager, error) {
	mgr := translate.NewManager()

	for _, p := range allProviders {
		key := settings.GetAPIKey(p.id)
		baseURL := settings.GetBaseURL(p.id)
		model := cfg.Model(p.id)
		if p.id == providerID {
			key = settings.ResolveAPIKey(p.id, a.apiKey)
			if a.baseURL != "" {
				baseURL = a.baseURL
			}
			if a.model != "" {
				model = a.model
			}
		}
		mgr.Register(p.id, newChatProvider(p.id, baseURL, key, model))
	}

	mgr.OnSwitch(func(id string) error {
		logWarning("Switched to provider %s", id)
		return cfg.SetProvider(id)
	})

	if err := mgr.SetCurrent(providerID); err != nil {
		return nil, err
	}
	return mgr, nil
}

func newChatProvider(id, baseURL, key, model string) *translate.ChatProvider {
	switch id {
	case translate.ProviderGroq:
		p := translate.NewGroq(key, model)
		if baseURL != "" {
			p = translate.NewChatProvider(id, baseURL, key, model)
		}
		return p
	case translate.ProviderOllama:
		return translate.NewOllama(baseURL, model)
	default:
		p := translate.NewOpenAI(key, model)
		if baseURL != "" {
			p = translate.NewChatProvider(id, baseURL, key, model)
		}
		return p
	}
}

// filterLocaleFiles keeps the files whose locale is listed in the
// comma-separated filter. The base locale always survives the filter:
// its store seeds the source text for everything else.
func filterLocaleFiles(files []string, filter, baseLocale string) []string {
	if filter == "" {
		return files
	}
	wanted := make(map[string]bool)
	for _, code := range strings.Split(filter, ",") {
		wanted[strings.TrimSpace(code)] = true
	}

	var kept []string
	for _, path := range files {
		loc, ok := langmeta.FromFileName(path)
		if !ok {
			continue
		}
		if wanted[loc.Code] || wanted[loc.Lang] || loc.Code == baseLocale || loc.Lang == baseLocale {
			kept = append(kept, path)
		}
	}
	return kept
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

func firstPositiveDuration(values ...time.Duration) time.Duration {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

// confirm asks a yes/no question on stderr and reads the answer from
// stdin. Defaults to no.
func confirm(prompt string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N] ", prompt)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

// ---------------------------------------------------------------------------
// export (locale stores → ARB)
// ---------------------------------------------------------------------------

func newExportCmd() *cobra.Command {
	var (
		localeDir string
		outDir    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export locale stores to Flutter ARB files",
		Long: `Export every locale store to an ARB file (app_LOCALE.arb) for use
with Flutter's gen_l10n tooling. Existing ARB files are overwritten.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(localeDir, outDir)
		},
	}

	cmd.Flags().StringVar(&localeDir, "locale-dir", "", "Directory with locale .dart files (default: auto-detect)")
	cmd.Flags().StringVar(&outDir, "out", "", "Output directory (default: lib/l10n)")

	return cmd
}

func runExport(localeDir, outDir string) error {
	proj := config.Detect(rootDir)
	if localeDir == "" {
		localeDir = proj.LocaleDir
	}
	if outDir == "" {
		outDir = filepath.Join(rootDir, "lib", "l10n")
	}

	files, err := extract.FindLocaleFiles(localeDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no locale files found in %s", localeDir)
	}

	exported := 0
	for _, path := range files {
		loc, ok := langmeta.FromFileName(path)
		if !ok {
			continue
		}
		f, err := dartfile.ParseFile(path)
		if err != nil {
			logWarning("Skipping %s: %v", path, err)
			continue
		}
		arb := arbfile.FromPairs(loc.Code, f.Pairs())
		target := filepath.Join(outDir, arbfile.FileName(loc.Code))
		if err := arb.WriteFile(target); err != nil {
			return err
		}
		logInfo("%s → %s", path, target)
		exported++
	}

	logSuccess("Exported %d locale(s) to %s", exported, outDir)
	return nil
}

// ---------------------------------------------------------------------------
// provider (list / use)
// ---------------------------------------------------------------------------

// allProviders is the ordered provider registry for menus and completion.
var allProviders = []struct {
	id   string
	name string
	desc string
	auth string // "api-key" or "none"
}{
	{translate.ProviderOpenAI, "OpenAI", "chat completions, API key required", "api-key"},
	{translate.ProviderGroq, "Groq Cloud", "fast inference, free tier available", "api-key"},
	{translate.ProviderOllama, "Ollama", "local server, no auth needed", "none"},
}

func newProviderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "provider",
		Short: "List or switch translation providers",
	}
	cmd.AddCommand(newProviderListCmd(), newProviderUseCmd())
	return cmd
}

func newProviderListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show providers and their status",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load(rootDir)
			if err != nil {
				logError("%v", err)
				os.Exit(1)
			}

			fmt.Fprintf(os.Stderr, "\n%sTranslation Providers%s\n", colorBlue, colorReset)
			fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
			for _, p := range allProviders {
				marker := " "
				if p.id == cfg.Provider {
					marker = colorGreen + "*" + colorReset
				}
				prov := newChatProvider(p.id, settings.GetBaseURL(p.id), settings.GetAPIKey(p.id), cfg.Model(p.id))
				status := colorGreen + "ready" + colorReset
				if !prov.Available() {
					status = colorRed + "no API key" + colorReset
				}
				fmt.Fprintf(os.Stderr, " %s %-8s %-12s model: %-26s %s\n",
					marker, p.id, status, prov.Model(), p.desc)
			}
			fmt.Fprintln(os.Stderr)
		},
	}
}

func newProviderUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use PROVIDER",
		Short: "Set the active provider (persisted to trkit.yaml)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			cfg, err := config.Load(rootDir)
			if err != nil {
				return err
			}

			prov := newChatProvider(id, settings.GetBaseURL(id), settings.GetAPIKey(id), cfg.Model(id))
			if !prov.Available() {
				logWarning("%s has no API key yet; run 'trkit auth login --provider %s'", id, id)
			}

			if err := cfg.SetProvider(id); err != nil {
				return err
			}
			logSuccess("Active provider set to %s", id)
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// auth (login / logout / list)
// ---------------------------------------------------------------------------

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage provider credentials",
		Long: `Manage API keys for the translation providers.

API key providers (paste your key):
  openai   OpenAI platform key
  groq     Groq Cloud (free tier available)

No auth required:
  ollama   Local Ollama server (endpoint override only)

Examples:
  trkit auth login --provider openai     Store an OpenAI API key
  trkit auth login --provider ollama     Set a custom Ollama endpoint
  trkit auth logout --provider groq      Remove the Groq key
  trkit auth logout                      Remove all credentials
  trkit auth list                        Show stored credentials`,
	}

	cmd.AddCommand(
		newAuthLoginCmd(),
		newAuthLogoutCmd(),
		newAuthListCmd(),
	)

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var provider string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store credentials for a provider",
		Run: func(cmd *cobra.Command, args []string) {
			switch provider {
			case translate.ProviderOpenAI, translate.ProviderGroq:
				authLoginAPIKey(provider)
			case translate.ProviderOllama:
				authLoginOllama()
			case "":
				logError("No provider specified. Use --provider openai, groq, or ollama.")
				os.Exit(1)
			default:
				logError("Unknown provider '%s'. Run 'trkit provider list' to see providers.", provider)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "Provider to authenticate: openai, groq, ollama")

	return cmd
}

func authLoginAPIKey(providerID string) {
	providerInfo := map[string]struct {
		name    string
		helpURL string
		example string
	}{
		translate.ProviderOpenAI: {
			name:    "OpenAI",
			helpURL: "https://platform.openai.com/api-keys",
			example: "trkit translate --provider openai",
		},
		translate.ProviderGroq: {
			name:    "Groq Cloud",
			helpURL: "https://console.groq.com/keys",
			example: "trkit translate --provider groq",
		},
	}

	info := providerInfo[providerID]

	fmt.Fprintf(os.Stderr, "\n%s%s — API Key Setup%s\n", colorBlue, info.name, colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
	fmt.Fprintln(os.Stderr)

	if info.helpURL != "" {
		fmt.Fprintf(os.Stderr, "  Get your API key from: %s%s%s\n\n", colorGreen, info.helpURL, colorReset)
	}

	existing := settings.GetAPIKey(providerID)
	if existing != "" {
		fmt.Fprintf(os.Stderr, "  Current key: %s%s%s\n", colorYellow, settings.MaskKey(existing), colorReset)
		fmt.Fprintf(os.Stderr, "  Enter new key to replace, or press Enter to keep: ")
	} else {
		fmt.Fprintf(os.Stderr, "  Enter API key: ")
	}

	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		logError("No input received")
		os.Exit(1)
	}
	key := strings.TrimSpace(scanner.Text())

	if key == "" {
		if existing != "" {
			logInfo("Keeping existing key")
			return
		}
		logError("No API key provided")
		os.Exit(1)
	}

	if err := settings.SetAPIKey(providerID, key); err != nil {
		logError("Failed to save API key: %v", err)
		os.Exit(1)
	}

	logSuccess(i18n.T("API key saved for %s"), info.name)
	fmt.Fprintf(os.Stderr, "\n  You can now use: %s\n\n", info.example)
}

func authLoginOllama() {
	fmt.Fprintf(os.Stderr, "\n%sOllama — Endpoint Setup%s\n", colorBlue, colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
	fmt.Fprintln(os.Stderr)
	fmt.Fprintf(os.Stderr, "  Ollama needs no API key. Enter a server URL, or press\n")
	fmt.Fprintf(os.Stderr, "  Enter for the default (http://localhost:11434/v1): ")

	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		logError("No input received")
		os.Exit(1)
	}
	baseURL := strings.TrimSpace(scanner.Text())

	if baseURL == "" {
		if err := settings.Remove(translate.ProviderOllama); err != nil {
			logError("Failed to reset endpoint: %v", err)
			os.Exit(1)
		}
		logSuccess("Using default Ollama endpoint")
		return
	}

	if err := settings.SetAPIKeyWithBaseURL(translate.ProviderOllama, "", baseURL); err != nil {
		logError("Failed to save endpoint: %v", err)
		os.Exit(1)
	}
	logSuccess("Ollama endpoint set to %s", baseURL)
}

func newAuthLogoutCmd() *cobra.Command {
	var provider string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove stored credentials",
		Long: `Remove stored credentials for one or all providers.

If --provider is not specified, credentials for ALL providers are removed.`,
		Run: func(cmd *cobra.Command, args []string) {
			if provider != "" {
				if !knownProvider(provider) {
					logError("Unknown provider '%s'. Run 'trkit provider list' to see providers.", provider)
					os.Exit(1)
				}
				if err := settings.Remove(provider); err != nil {
					logError("Failed to remove %s credentials: %v", provider, err)
					os.Exit(1)
				}
				logSuccess(i18n.T("Credentials removed for %s"), provider)
				return
			}

			if err := settings.RemoveAll(); err != nil {
				logError("Failed to remove credentials: %v", err)
				os.Exit(1)
			}
			logSuccess("All stored credentials removed")
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "Provider to logout (default: all)")

	return cmd
}

func knownProvider(id string) bool {
	for _, p := range allProviders {
		if p.id == id {
			return true
		}
	}
	return false
}

func newAuthListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show stored credentials and status",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stderr, "\n%sStored Credentials%s\n", colorBlue, colorReset)
			fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
			fmt.Fprintln(os.Stderr)

			for _, p := range allProviders {
				entry := settings.Get(p.id)
				switch {
				case entry != nil && entry.Key != "":
					status := fmt.Sprintf("%sconfigured%s (key: %s)", colorGreen, colorReset, settings.MaskKey(entry.Key))
					if entry.BaseURL != "" {
						status += fmt.Sprintf("\n  %8s endpoint: %s", "", entry.BaseURL)
					}
					fmt.Fprintf(os.Stderr, "  %-8s %s\n", p.id, status)
				case entry != nil && entry.BaseURL != "":
					fmt.Fprintf(os.Stderr, "  %-8s %sconfigured%s endpoint: %s\n", p.id, colorGreen, colorReset, entry.BaseURL)
				case p.auth == "none":
					fmt.Fprintf(os.Stderr, "  %-8s %sdefault endpoint%s (no auth needed)\n", p.id, colorGreen, colorReset)
				default:
					fmt.Fprintf(os.Stderr, "  %-8s %snot configured%s\n", p.id, colorRed, colorReset)
				}
			}

			fmt.Fprintf(os.Stderr, "\n  %sEnvironment Variables%s\n", colorYellow, colorReset)
			for _, env := range []string{settings.EnvKey, "OPENAI_API_KEY", "GROQ_API_KEY"} {
				if val := os.Getenv(env); val != "" {
					fmt.Fprintf(os.Stderr, "  %s: %s%s%s (overrides stored keys)\n", env, colorGreen, settings.MaskKey(val), colorReset)
				} else {
					fmt.Fprintf(os.Stderr, "  %s: %snot set%s\n", env, colorRed, colorReset)
				}
			}
			fmt.Fprintln(os.Stderr)
		},
	}
}

// ---------------------------------------------------------------------------
// Display helpers
// ---------------------------------------------------------------------------

// progressBar renders a fixed-width colored bar for a percentage.
func progressBar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := percent * width / 100
	color := colorRed
	switch {
	case percent >= 100:
		color = colorGreen
	case percent >= 40:
		color = colorYellow
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("%s%s%s %3d%%", color, bar, colorReset, percent)
}

// flagFromRegion converts a two-letter region code into the corresponding
// flag emoji via regional indicator symbols.
func flagFromRegion(region string) string {
	if len(region) != 2 {
		return ""
	}
	region = strings.ToUpper(region)
	var b strings.Builder
	for _, r := range region {
		if r < 'A' || r > 'Z' {
			return ""
		}
		b.WriteRune('🇦' + (r - 'A'))
	}
	return b.String()
}

// langFlag returns the flag emoji for a locale code, or "" when there is
// no region to derive one from.
func langFlag(code string) string {
	loc, ok := langmeta.Parse(code)
	if !ok || loc.Region == "" {
		return ""
	}
	return flagFromRegion(loc.Region)
}

// langColumnWidth returns the display width needed for a locale column.
func langColumnWidth(codes []string) int {
	width := 0
	for _, code := range codes {
		if len(code) > width {
			width = len(code)
		}
	}
	return width
}

// langCell formats a locale code padded to width, with a flag when one
// can be derived.
func langCell(code string, width int) string {
	cell := fmt.Sprintf("%-*s", width, code)
	if flag := langFlag(code); flag != "" {
		cell += " " + flag
	}
	return cell
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	_ "time/tzdata"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/CrestNiraj12/skyterm/app/aggregate"
	"github.com/CrestNiraj12/skyterm/domain"
	"github.com/CrestNiraj12/skyterm/infra/auth"
	"github.com/CrestNiraj12/skyterm/infra/bluesky"
	"github.com/CrestNiraj12/skyterm/infra/browser"
	"github.com/CrestNiraj12/skyterm/infra/config"
	"github.com/CrestNiraj12/skyterm/infra/logging"
	"github.com/CrestNiraj12/skyterm/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type cliMode int

const (
	cliRun cliMode = iota
	cliVersion
	cliHelp
	cliInvalid
)

func parseCLIArgs(args []string) (cliMode, string) {
	if len(args) == 0 {
		return cliRun, ""
	}

	switch args[0] {
	case "--version", "-version", "-v":
		return cliVersion, ""
	case "--help", "-h", "help":
		return cliHelp, ""
	default:
		return cliInvalid, fmt.Sprintf("unexpected argument: %s", strings.Join(args, " "))
	}
}

func usage() string {
	return "Usage: skyterm [--version|-version|-v] [--help|-h]\n\n" +
		"Reads BSKY_HANDLE and BSKY_PASSWORD from the environment or ./.env."
}

func resolveVersionInfo(v, c, d, moduleVersion string, settings map[string]string) (string, string, string) {
	if v == "dev" {
		mv := strings.TrimSpace(moduleVersion)
		if mv != "" && mv != "(devel)" {
			v = mv
		}
	}
	if c == "none" {
		rev := strings.TrimSpace(settings["vcs.revision"])
		if rev != "" {
			if len(rev) > 12 {
				rev = rev[:12]
			}
			c = rev
		}
	}
	if d == "unknown" {
		t := strings.TrimSpace(settings["vcs.time"])
		if t != "" {
			d = t
		}
	}
	return v, c, d
}

func buildSettingsMap(in []debug.BuildSetting) map[string]string {
	out := make(map[string]string, len(in))
	for _, s := range in {
		out[s.Key] = s.Value
	}
	return out
}

func resolvedRuntimeVersionInfo(v, c, d string) (string, string, string) {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return v, c, d
	}
	return resolveVersionInfo(v, c, d, info.Main.Version, buildSettingsMap(info.Settings))
}

// initialView picks the startup view from the saved UI state.
func initialView(st config.UIState, logger *log.Logger) aggregate.View {
	if st.View == "" {
		return aggregate.ViewTimeline
	}
	v, err := aggregate.ParseView(st.View)
	if err != nil {
		logger.Warn("ignoring saved view", "err", err)
		return aggregate.ViewTimeline
	}
	return v
}

func main() {
	mode, msg := parseCLIArgs(os.Args[1:])
	switch mode {
	case cliVersion:
		v, c, d := resolvedRuntimeVersionInfo(version, commit, date)
		fmt.Printf("skyterm %s\ncommit: %s\nbuilt: %s\n", v, c, d)
		return
	case cliHelp:
		fmt.Println(usage())
		return
	case cliInvalid:
		fmt.Fprintf(os.Stderr, "%s\n%s\n", msg, usage())
		os.Exit(2)
	}

	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "skyterm: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// 1. Load config from environment and ./.env.
	cfg, err := config.Load(ctx, ".env")
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, closer, err := logging.Open(cfg.LogPath(), cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	defer closer.Close()

	// 2. Build infrastructure.
	session := auth.NewSession(cfg.PDS, cfg.Handle, cfg.Password)
	if err := session.Login(ctx); err != nil {
		logger.Error("login failed", "handle", cfg.Handle, "err", err)
		if errors.Is(err, domain.ErrUnauthorized) {
			return fmt.Errorf("login rejected, check BSKY_HANDLE and BSKY_PASSWORD")
		}
		return fmt.Errorf("login: %w", err)
	}
	logger.Info("logged in", "handle", session.Handle(), "did", session.DID(), "pds", cfg.PDS)

	client := bluesky.NewClient(cfg.PDS, session)

	// 3. Build services (concrete types satisfy app.* interfaces).
	feedSvc := bluesky.NewFeedService(client, session, cfg.PageSize)
	postSvc := bluesky.NewPostService(client, session)
	accountSvc := bluesky.NewAccountService(client, session, logger)
	engine := aggregate.New(feedSvc, postSvc, logger)

	uiState, err := config.LoadUIState(cfg.UIStatePath())
	if err != nil {
		logger.Warn("ui state unreadable", "err", err)
	}

	// 4. Wire root TUI model.
	rootModel := tui.NewApp(tui.Deps{
		Engine:    engine,
		Account:   accountSvc,
		Opener:    browser.NewOpener(),
		Location:  cfg.Location,
		View:      initialView(uiState, logger),
		StatePath: cfg.UIStatePath(),
		Log:       logger,
	})

	// 5. Run.
	p := tea.NewProgram(rootModel, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

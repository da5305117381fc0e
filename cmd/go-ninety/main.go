package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/tartampluch/go-ninety/internal/app"
	"github.com/tartampluch/go-ninety/internal/config"
	"github.com/tartampluch/go-ninety/internal/engine"
	"github.com/tartampluch/go-ninety/internal/ui"
)

// main delegates to runMain so deferred calls (closing the log file) run before os.Exit.
func main() {
	os.Exit(runMain(os.Args[1:], os.Stdin, os.Stdout))
}

// options is the parsed command line.
type options struct {
	configPath string
	today      engine.Date
	debug      bool
	command    string
}

// runMain manages the application lifecycle, argument parsing, and exit codes.
func runMain(args []string, stdin io.Reader, stdout io.Writer) int {
	// -------------------------------------------------------------------------
	// 1. CLI Argument Parsing
	// -------------------------------------------------------------------------
	opts, showVersion, err := parseArgs(args, stdout)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return config.ExitCodeSuccess
		}
		fmt.Fprintln(os.Stderr, err)
		return config.ExitCodeUsage
	}

	if showVersion {
		printVersion(stdout)
		return config.ExitCodeSuccess
	}

	// -------------------------------------------------------------------------
	// 2. Logging Initialization
	// -------------------------------------------------------------------------
	// Only the server logs to stdout; other commands keep stdout for their output.
	console := io.Writer(os.Stderr)
	if opts.command == config.CmdServe {
		console = stdout
	}
	logCloser := setupLogging(console, opts.debug)
	if logCloser != nil {
		defer func() { _ = logCloser.Close() }()
	}

	if !opts.debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// -------------------------------------------------------------------------
	// 3. Context & Signal Handling
	// -------------------------------------------------------------------------
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo(opts.command)

	// -------------------------------------------------------------------------
	// 4. Application Logic
	// -------------------------------------------------------------------------
	if err := run(ctx, opts, stdin, stdout); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	slog.Debug(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// parseArgs reads flags and the optional command (ledger by default).
func parseArgs(args []string, out io.Writer) (options, bool, error) {
	fs := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() {
		fmt.Fprint(out, config.MsgUsage)
		fs.PrintDefaults()
	}

	showVersion := fs.Bool(config.FlagVersion, false, config.FlagDescVersion)
	debugMode := fs.Bool(config.FlagDebug, false, config.FlagDescDebug)
	configPath := fs.String(config.FlagConfig, "", config.FlagDescConfig)
	todayStr := fs.String(config.FlagToday, "", config.FlagDescToday)

	if err := fs.Parse(args); err != nil {
		return options{}, false, err
	}

	opts := options{
		configPath: *configPath,
		debug:      *debugMode,
		command:    config.CmdLedger,
	}

	if *todayStr != "" {
		d, err := engine.ParseDate(*todayStr)
		if err != nil {
			return options{}, false, err
		}
		opts.today = d
	}

	switch rest := fs.Args(); len(rest) {
	case 0:
	case 1:
		opts.command = rest[0]
	default:
		return options{}, false, fmt.Errorf("%s: %s", config.ErrUnknownCommand, strings.Join(rest, " "))
	}

	switch opts.command {
	case config.CmdLedger, config.CmdSummary, config.CmdServe, config.CmdSetPassword:
	default:
		return options{}, false, fmt.Errorf("%s: %q", config.ErrUnknownCommand, opts.command)
	}

	return opts, *showVersion, nil
}

// run loads settings, wires the App and dispatches the command.
func run(ctx context.Context, opts options, stdin io.Reader, stdout io.Writer) error {
	path := opts.configPath
	if path == "" {
		p, err := config.DefaultSettingsPath()
		if err != nil {
			return err
		}
		path = p
	}

	settings, err := config.LoadSettings(path)
	if err != nil {
		return err
	}

	a := app.New(settings, engine.RealClock{})
	a.Today = opts.today

	switch opts.command {
	case config.CmdServe:
		return a.Run(ctx)

	case config.CmdSetPassword:
		return setPassword(a, stdin, stdout)

	case config.CmdSummary:
		ledger, err := a.Load(ctx)
		if err != nil {
			return err
		}
		return ui.RenderSummary(stdout, ledger.Summary, a.Translator)

	default:
		ledger, err := a.Load(ctx)
		if err != nil {
			return err
		}
		return ui.RenderLedger(stdout, ledger.Trips, ledger.Rows, a.Translator)
	}
}

// setPassword reads one line from stdin and stores it for source.web_user.
func setPassword(a *app.App, stdin io.Reader, stdout io.Writer) error {
	user := a.Settings.Source.WebUser
	if user == "" {
		return errors.New(config.ErrUserRequired)
	}

	fmt.Fprint(stdout, a.Translator.MsgData(config.TKeyPromptPass, map[string]any{"User": user}))

	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	if err := app.StorePassword(user, strings.TrimRight(line, "\r\n")); err != nil {
		return err
	}
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, a.Translator.Msg(config.TKeyPassStored))
	return nil
}

// printVersion outputs the build information.
func printVersion(w io.Writer) {
	fmt.Fprintf(w, config.MsgVersionOutput,
		config.AppName,
		config.Version,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo(command string) {
	slog.Debug(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		config.LogKeyOp, command,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyCommit, config.Commit),
			slog.String(config.LogKeyBuilt, config.Date),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging configures the default slog logger: console plus a log file in the cache dir.
func setupLogging(console io.Writer, debugMode bool) io.Closer {
	writers := []io.Writer{console}
	var logFile *os.File

	if logPath, err := getLogFilePath(); err == nil {
		// O_TRUNC resets logs on restart to prevent indefinite growth.
		f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else {
			fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		}
	}

	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), opts)))

	if logFile == nil {
		return nil
	}
	return logFile
}

// getLogFilePath determines the platform-specific cache directory for logs.
func getLogFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	return filepath.Join(appDir, config.LogFileName), nil
}

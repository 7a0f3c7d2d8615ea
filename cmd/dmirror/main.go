package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"dmirror/internal/dirsyncer"
	"dmirror/internal/log"
	"dmirror/internal/prompt"
	"dmirror/internal/replica"
	"dmirror/internal/settings"
)

const (
	exitFailure         = 1
	exitInvalidSettings = 2

	envPrefix = "DMIRROR"
	keyConfig = "config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	cmd := newRootCmd()
	cmd.SetArgs(normalizeArgs(os.Args[1:]))
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		color.New(color.FgHiRed, color.Bold).Fprintln(os.Stderr, "Error:", err)
	}
	stop()
	os.Exit(exitCode(err))
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:   "dmirror [source] [replica] [copy-log] [-delete|-open]",
		Short: "Mirrors a source directory into a replica directory",
		Long: "Copies every file of the source directory which is missing or different in the replica directory.\n" +
			"Without the directories in the arguments, they are asked for interactively.",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MaximumNArgs(4)(cmd, args); err != nil {
				return invalidSettings(err)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		// legacy and mistyped trailing options are ignored
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(cmd, v); err != nil {
				return invalidSettings(err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), args, v, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.SortFlags = false
	flags.String(settings.KeyLogLevel, string(log.InfoLevel), "application logging level: debug, info, warn or error")
	flags.Bool(settings.KeyLogToStd, false, "if true, the application log is written to stderr, otherwise - to the applog file")
	flags.String(settings.KeyLogFile, "", "application log file (rotated), the default one is in the temp dir")
	flags.StringSlice(settings.KeyExclude, nil, "gitignore-style pattern of the source paths to skip (repeatable)")
	flags.Bool(settings.KeyDelete, false, "delete the replica directory after the synchronization")
	flags.Bool(settings.KeyOpen, false, "open the replica directory in the file browser after the synchronization")
	flags.String(keyConfig, "", "config file with the values of the flags above")
	return cmd
}

//loadConfig binds the flags, the DMIRROR_* env vars and the optional config file into v.
func loadConfig(cmd *cobra.Command, v *viper.Viper) error {
	settings.SetDefaults(v)
	for _, key := range []string{
		settings.KeyLogLevel, settings.KeyLogToStd, settings.KeyLogFile,
		settings.KeyExclude, settings.KeyDelete, settings.KeyOpen,
	} {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(key)); err != nil {
			return fmt.Errorf("cannot bind flag %q: %w", key, err)
		}
	}
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if path, _ := cmd.Flags().GetString(keyConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("cannot read config %q: %w", path, err)
		}
	}
	return nil
}

func run(ctx context.Context, args []string, v *viper.Viper, in io.Reader, out io.Writer) error {
	stg, err := settings.New(args, v)
	if err != nil {
		return invalidSettings(err)
	}

	logger, err := log.New(log.Options{Level: stg.LogLevel, LogToStd: stg.LogToStd, FilePath: stg.LogFile})
	if err != nil {
		return fmt.Errorf("cannot create logger: %w", err)
	}
	defer func() {
		// stderr can't be synced on some platforms
		_ = logger.Sync()
	}()

	if stg.Interactive() {
		if err := askDirs(stg, prompt.New(in, out)); err != nil {
			return err
		}
	}
	if err := stg.Validate(); err != nil {
		return invalidSettings(err)
	}
	logger.Debug("settings", log.Any("settings", stg))

	if _, err := dirsyncer.New(logger, *stg, newConsoleReporter(out)).Sync(ctx); err != nil {
		logger.Error("synchronization failed", log.Cause(err))
		return err
	}

	res, err := replica.New(logger, nil).Apply(ctx, stg.Action, stg.ReplicaDir)
	if err != nil {
		logger.Error("replica action failed", log.String("action", string(stg.Action)), log.Cause(err))
		return err
	}
	printResult(out, res, stg.ReplicaDir)
	return nil
}

func askDirs(stg *settings.Settings, p *prompt.Prompter) error {
	srcDir, err := p.Path("Enter the path to the source folder: ", settings.ValidateDirectoryPath)
	if err != nil {
		return fmt.Errorf("cannot get the source folder: %w", err)
	}
	replicaDir, err := p.Path("Enter the path to the replica folder: ", settings.ValidateDirectoryPath)
	if err != nil {
		return fmt.Errorf("cannot get the replica folder: %w", err)
	}
	if err := stg.SetDirs(srcDir, replicaDir); err != nil {
		return invalidSettings(err)
	}
	return nil
}

func printResult(out io.Writer, res replica.Result, replicaDir string) {
	switch res {
	case replica.ResultDeleted:
		fmt.Fprintf(out, "Replica folder deleted: %s\n", replicaDir)
	case replica.ResultNotFound:
		fmt.Fprintf(out, "Replica folder not found: %s\n", replicaDir)
	}
}

//normalizeArgs maps the legacy single-dash action, given as the fourth positional argument, to its flag.
//Any other single-dash value in that position is dropped, and so is a legacy action in any other position.
func normalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	positional := 0
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			return append(out, args[i:]...)
		case strings.HasPrefix(arg, "--"):
			out = append(out, arg)
			if valueFlags[strings.TrimPrefix(arg, "--")] && i+1 < len(args) {
				i++
				out = append(out, args[i])
			}
		case strings.HasPrefix(arg, "-") && len(arg) > 1:
			action := strings.TrimPrefix(arg, "-")
			isAction := action == settings.KeyDelete || action == settings.KeyOpen
			switch {
			case positional == actionArgPos:
				positional++
				if isAction {
					out = append(out, "--"+action)
				}
			case !isAction:
				out = append(out, arg)
			}
		default:
			positional++
			out = append(out, arg)
		}
	}
	return out
}

const actionArgPos = 3

//valueFlags are the flags which take the next arg as their value when given without "=".
var valueFlags = map[string]bool{
	settings.KeyLogLevel: true,
	settings.KeyLogFile:  true,
	settings.KeyExclude:  true,
	keyConfig:            true,
}

type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func invalidSettings(err error) error {
	return &exitError{code: exitInvalidSettings, err: err}
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitFailure
}

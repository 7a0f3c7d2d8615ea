package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"dmirror/internal/log"
)

//Action is the optional step taken with the replica after a completed synchronization.
type Action string

const (
	ActionNone   Action = ""
	ActionDelete Action = "delete"
	ActionOpen   Action = "open"
)

//Keys of the values read from viper (flags, DMIRROR_* env vars or the config file).
const (
	KeyLogLevel = "loglvl"
	KeyLogToStd = "log2std"
	KeyLogFile  = "applog"
	KeyExclude  = "exclude"
	KeyDelete   = "delete"
	KeyOpen     = "open"
)

var (
	ErrSameDirs   = errors.New("the directories for synchronization cannot be the same")
	ErrNestedDirs = errors.New("the directories for synchronization cannot be nested in each other")
)

type Settings struct {
	SrcDir      string
	ReplicaDir  string
	CopyLogPath string // empty means no copy log
	Action      Action
	Excludes    []string
	LogLevel    log.Level
	LogToStd    bool
	LogFile     string
}

//SetDefaults registers the default values of the optional settings.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyLogLevel, log.InfoLevel)
	v.SetDefault(KeyLogToStd, false)
	v.SetDefault(KeyLogFile, filepath.Join(os.TempDir(), "dmirror", "dmirror.log"))
}

//New builds settings from the positional command args ([source replica [copy-log [-delete|-open]]])
//and from v. With less than two args, the directories are left empty to be asked for interactively.
func New(commandArgs []string, v *viper.Viper) (*Settings, error) {
	stg := &Settings{
		CopyLogPath: argAt(commandArgs, 2),
		Excludes:    nonEmpty(v.GetStringSlice(KeyExclude)),
		LogToStd:    v.GetBool(KeyLogToStd),
		LogFile:     v.GetString(KeyLogFile),
	}

	level := v.GetString(KeyLogLevel)
	if !log.Level(level).IsValid() {
		return nil, fmt.Errorf("logging level %q does not exist", level)
	}
	stg.LogLevel = log.Level(strings.ToLower(level))

	if v.GetBool(KeyDelete) && v.GetBool(KeyOpen) {
		return nil, fmt.Errorf("only one of %q and %q can be requested", KeyDelete, KeyOpen)
	}
	switch {
	case v.GetBool(KeyDelete):
		stg.Action = ActionDelete
	case v.GetBool(KeyOpen):
		stg.Action = ActionOpen
	default:
		stg.Action = parseAction(argAt(commandArgs, 3))
	}

	if len(commandArgs) >= 2 {
		if err := stg.SetDirs(commandArgs[0], commandArgs[1]); err != nil {
			return nil, err
		}
	}
	return stg, nil
}

//Interactive tells whether the directories still have to be asked for.
func (stg *Settings) Interactive() bool {
	return stg.SrcDir == "" || stg.ReplicaDir == ""
}

func (stg *Settings) SetDirs(srcDir, replicaDir string) error {
	var err error
	if stg.SrcDir, err = filepath.Abs(srcDir); err != nil {
		return fmt.Errorf("path %q cannot be converted to absolute: %v", srcDir, err)
	}
	if stg.ReplicaDir, err = filepath.Abs(replicaDir); err != nil {
		return fmt.Errorf("path %q cannot be converted to absolute: %v", replicaDir, err)
	}
	if stg.SrcDir == stg.ReplicaDir {
		return ErrSameDirs
	}
	return nil
}

func (stg *Settings) Validate() error {
	if err := ValidateDirectoryPath(stg.SrcDir); err != nil {
		return fmt.Errorf("the first (source) directory is invalid: %v", err)
	}
	if info, err := os.Stat(stg.ReplicaDir); err == nil && !info.IsDir() {
		return fmt.Errorf("the second (replica) directory is invalid: path %q is not a directory path", stg.ReplicaDir)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("the second (replica) directory is invalid: %v", err)
	}
	if isWithin(stg.SrcDir, stg.ReplicaDir) || isWithin(stg.ReplicaDir, stg.SrcDir) {
		return ErrNestedDirs
	}
	return nil
}

//ValidateDirectoryPath checks that path exists and is a directory.
func ValidateDirectoryPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("path %q is not a directory path", path)
	}
	return nil
}

func isWithin(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

//parseAction recognizes the legacy fourth positional argument; any other value is ignored.
func parseAction(arg string) Action {
	switch arg {
	case "-" + KeyDelete:
		return ActionDelete
	case "-" + KeyOpen:
		return ActionOpen
	default:
		return ActionNone
	}
}

func argAt(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func nonEmpty(values []string) []string {
	var out []string
	for _, val := range values {
		if val = strings.TrimSpace(val); val != "" {
			out = append(out, val)
		}
	}
	return out
}

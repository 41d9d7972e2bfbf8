package glcaps

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/thediveo/enumflag/v2"
)

// ConfigurationFlags is a set of context construction behavior flags.
type ConfigurationFlags uint8

const (
	// QuietLog suppresses the construction-time diagnostic block entirely.
	QuietLog ConfigurationFlags = 1 << iota
	// VerboseLog additionally emits items default verbosity omits. When both
	// QuietLog and VerboseLog are set at the same precedence tier, verbose
	// wins.
	VerboseLog
)

// LogVerbosity is the resolved logging behavior after all configuration
// tiers are merged.
type LogVerbosity int

const (
	LogDefault LogVerbosity = iota
	LogQuiet
	LogVerbose
)

func (v LogVerbosity) String() string {
	switch v {
	case LogQuiet:
		return "quiet"
	case LogVerbose:
		return "verbose"
	default:
		return "default"
	}
}

// Configuration is the programmatic tier of context construction settings.
// It is consumed once by [NewContext]; command-line flags found in Args and
// environment variables take precedence over its fields.
type Configuration struct {
	// Flags holds behavior flags. See [QuietLog] and [VerboseLog].
	Flags ConfigurationFlags

	// DisabledWorkarounds lists driver workarounds to skip, by exact name.
	// Unknown names are reported to the diagnostic sink and ignored.
	DisabledWorkarounds []string

	// DisabledExtensions lists extensions to treat as unsupported even when
	// the driver advertises them.
	DisabledExtensions []Extension

	// Args is the surrounding tool's command line, including the program
	// name. The flags recognized here are --glcaps-log
	// {quiet|verbose|default}, --glcaps-disable-workarounds and
	// --glcaps-disable-extensions; anything else is ignored.
	Args []string

	// Log is the diagnostic sink. Defaults to os.Stdout.
	Log io.Writer
}

// Environment variables consulted when the corresponding command-line flag
// is absent.
const (
	envLog                 = "GLCAPS_LOG"
	envDisableWorkarounds  = "GLCAPS_DISABLE_WORKAROUNDS"
	envDisableExtensions   = "GLCAPS_DISABLE_EXTENSIONS"
	flagLog                = "glcaps-log"
	flagDisableWorkarounds = "glcaps-disable-workarounds"
	flagDisableExtensions  = "glcaps-disable-extensions"
)

type logMode enumflag.Flag

const (
	logModeDefault logMode = iota
	logModeQuiet
	logModeVerbose
)

var logModeIdents = map[logMode][]string{
	logModeDefault: {"default"},
	logModeQuiet:   {"quiet"},
	logModeVerbose: {"verbose"},
}

// effectiveConfig is the merge of all four configuration tiers, resolved
// once at context construction.
type effectiveConfig struct {
	verbosity              LogVerbosity
	disabledWorkarounds    []string
	disabledExtensionNames []string
	sink                   io.Writer
	warnings               []string
}

// resolveConfiguration merges command-line flags, environment variables, the
// programmatic Configuration and compiled-in defaults, highest tier winning
// independently per setting.
func resolveConfiguration(cfg Configuration) effectiveConfig {
	out := effectiveConfig{sink: cfg.Log}
	if out.sink == nil {
		out.sink = os.Stdout
	}

	fs := pflag.NewFlagSet("glcaps", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	var mode logMode
	fs.Var(enumflag.New(&mode, "log", logModeIdents, enumflag.EnumCaseInsensitive),
		flagLog, "log verbosity (quiet, verbose, default)")
	cliWorkarounds := fs.String(flagDisableWorkarounds, "", "driver workarounds to disable")
	cliExtensions := fs.String(flagDisableExtensions, "", "extensions to disable")
	if len(cfg.Args) > 1 {
		// Args carries the program name first, same as os.Args. A malformed
		// command line degrades to the lower tiers.
		_ = fs.Parse(cfg.Args[1:])
	}

	// Log verbosity. Quiet and verbose asserted together at the same tier
	// resolve to verbose; across tiers normal precedence applies regardless
	// of direction.
	switch {
	case fs.Changed(flagLog):
		switch mode {
		case logModeQuiet:
			out.verbosity = LogQuiet
		case logModeVerbose:
			out.verbosity = LogVerbose
		default:
			out.verbosity = LogDefault
		}
	default:
		if env, ok := os.LookupEnv(envLog); ok {
			switch strings.ToLower(strings.TrimSpace(env)) {
			case "quiet":
				out.verbosity = LogQuiet
			case "verbose":
				out.verbosity = LogVerbose
			case "default", "":
				out.verbosity = LogDefault
			default:
				out.warnings = append(out.warnings,
					fmt.Sprintf("Ignoring unknown %s value: %q", envLog, env))
				out.verbosity = programmaticVerbosity(cfg.Flags)
			}
			break
		}
		out.verbosity = programmaticVerbosity(cfg.Flags)
	}

	// Disabled workarounds.
	switch {
	case fs.Changed(flagDisableWorkarounds):
		out.disabledWorkarounds = splitList(*cliWorkarounds)
	default:
		if env, ok := os.LookupEnv(envDisableWorkarounds); ok {
			out.disabledWorkarounds = splitList(env)
			break
		}
		out.disabledWorkarounds = append([]string(nil), cfg.DisabledWorkarounds...)
	}

	// Disabled extensions. The winning tier is kept as names; resolution
	// against the catalog happens at construction so unknown names can be
	// reported through the sink.
	switch {
	case fs.Changed(flagDisableExtensions):
		out.disabledExtensionNames = splitList(*cliExtensions)
	default:
		if env, ok := os.LookupEnv(envDisableExtensions); ok {
			out.disabledExtensionNames = splitList(env)
			break
		}
		for _, e := range cfg.DisabledExtensions {
			out.disabledExtensionNames = append(out.disabledExtensionNames, e.String())
		}
	}

	return out
}

func programmaticVerbosity(flags ConfigurationFlags) LogVerbosity {
	switch {
	case flags&VerboseLog != 0:
		return LogVerbose
	case flags&QuietLog != 0:
		return LogQuiet
	default:
		return LogDefault
	}
}

// splitList splits a comma- or space-delimited list, dropping empty items.
func splitList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' '
	})
	if len(fields) == 0 {
		return nil
	}
	return fields
}

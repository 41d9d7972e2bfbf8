package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/leodido/glcaps"
	"github.com/leodido/structcli"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Build metadata injected via ldflags. When built without ldflags these
// remain at their zero values and the version command omits them gracefully.
var (
	version = ""
	commit  = ""
	date    = ""
)

func main() {
	root := &cobra.Command{
		Use:   "glcaps",
		Short: "OpenGL context capability inspection",
		Long: `glcaps resolves the capability surface of an OpenGL driver.

It detects the context version, parses the extension list, applies known
driver workarounds and answers support/disable queries. Drivers are supplied
as YAML snapshots (vendor, renderer, version, extensions), so no live GL
context is needed. Use it for asset-pipeline gating, bug triage on reported
driver strings, or CI validation of minimum requirements.`,
		SilenceUsage: true,
	}

	root.AddCommand(inspectCmd())
	root.AddCommand(checkCmd())
	root.AddCommand(extensionsCmd())
	root.AddCommand(versionCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// InspectOptions defines flags for the inspect subcommand.
type InspectOptions struct {
	JSON               bool   `flag:"json" flagshort:"j" flagdescr:"Output in JSON format"`
	DisableExtensions  string `flag:"disable-extensions" flagdescr:"Extensions to disable (comma- or space-delimited names)"`
	DisableWorkarounds string `flag:"disable-workarounds" flagdescr:"Driver workarounds to disable (comma- or space-delimited names)"`
}

func (o *InspectOptions) Attach(c *cobra.Command) error {
	return structcli.Define(c, o)
}

func inspectCmd() *cobra.Command {
	opts := &InspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect <snapshot.yaml>",
		Short: "Resolve and display the capability surface of a driver snapshot",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(c *cobra.Command, args []string) error {
			return structcli.Unmarshal(c, opts)
		},
		RunE: func(c *cobra.Command, args []string) error {
			ctx, err := contextFromSnapshot(args[0], opts.DisableExtensions, opts.DisableWorkarounds)
			if err != nil {
				return err
			}
			defer ctx.Close()

			if opts.JSON {
				return printJSON(map[string]any{
					"vendor":              ctx.VendorString(),
					"renderer":            ctx.RendererString(),
					"version":             ctx.Version().String(),
					"version_string":      ctx.VersionString(),
					"driver":              ctx.DriverKind().String(),
					"extensions":          ctx.ExtensionStrings(),
					"applied_workarounds": ctx.AppliedWorkarounds(),
				})
			}

			fmt.Print(ctx)
			return nil
		},
	}

	if err := opts.Attach(cmd); err != nil {
		panic(err)
	}
	return cmd
}

// CheckOptions defines flags for the check subcommand.
type CheckOptions struct {
	Require requirementList `flag:"require" flagshort:"r" flagdescr:"Required capabilities: extension names or version identifiers" flagrequired:"true" flagcustom:"true"`
	JSON    bool            `flag:"json" flagshort:"j" flagdescr:"Output in JSON format"`
}

func (o *CheckOptions) Attach(c *cobra.Command) error {
	return structcli.Define(c, o)
}

func (o *CheckOptions) DefineRequire(name, short, descr string, structField reflect.StructField, fieldValue reflect.Value) (pflag.Value, string) {
	fieldPtr := fieldValue.Addr().Interface().(*requirementList)
	*fieldPtr = nil
	return fieldPtr, descr
}

func (o *CheckOptions) DecodeRequire(input any) (any, error) {
	s, ok := input.(string)
	if !ok {
		return input, nil
	}

	return parseRequirements(s)
}

func checkCmd() *cobra.Command {
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check <snapshot.yaml>",
		Short: "Check capability requirements against a driver snapshot",
		Long: `Check that a driver snapshot satisfies all required capabilities.
Exits with code 0 if all requirements are met, 1 if any are missing.

Requirements are extension names (GL_ARB_direct_state_access) or version
identifiers (GL330, GLES300).`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(c *cobra.Command, args []string) error {
			return structcli.Unmarshal(c, opts)
		},
		RunE: func(c *cobra.Command, args []string) error {
			if len(opts.Require) == 0 {
				return fmt.Errorf("no requirements specified")
			}

			ctx, err := contextFromSnapshot(args[0], "", "")
			if err != nil {
				return err
			}
			defer ctx.Close()

			err = ctx.Require(opts.Require...)
			if err != nil {
				var ce *glcaps.CapabilityError
				if errors.As(err, &ce) {
					if opts.JSON {
						return printJSON(map[string]any{
							"ok":         false,
							"capability": ce.Name,
							"reason":     ce.Reason,
						})
					}
					fmt.Fprintf(os.Stderr, "FAIL: %s: %s\n", ce.Name, ce.Reason)
					os.Exit(1)
				}
				return err
			}

			if opts.JSON {
				return printJSON(map[string]any{"ok": true})
			}
			fmt.Println("OK: all requirements satisfied")
			return nil
		},
	}

	if err := opts.Attach(cmd); err != nil {
		panic(err)
	}
	return cmd
}

// ExtensionsOptions defines flags for the extensions subcommand.
type ExtensionsOptions struct {
	JSON bool `flag:"json" flagshort:"j" flagdescr:"Output in JSON format"`
}

func (o *ExtensionsOptions) Attach(c *cobra.Command) error {
	return structcli.Define(c, o)
}

func extensionsCmd() *cobra.Command {
	opts := &ExtensionsOptions{}

	cmd := &cobra.Command{
		Use:   "extensions",
		Short: "List the static extension catalog",
		PreRunE: func(c *cobra.Command, args []string) error {
			return structcli.Unmarshal(c, opts)
		},
		RunE: func(c *cobra.Command, args []string) error {
			if opts.JSON {
				entries := make([]map[string]string, 0, len(glcaps.ExtensionValues()))
				for _, e := range glcaps.ExtensionValues() {
					entries = append(entries, map[string]string{
						"name": e.String(),
						"core": e.Core().String(),
					})
				}
				return printJSON(entries)
			}

			for _, e := range glcaps.ExtensionValues() {
				fmt.Printf("%-42s core: %s\n", e, e.Core())
			}
			return nil
		},
	}

	if err := opts.Attach(cmd); err != nil {
		panic(err)
	}
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show tool version",
		Run: func(c *cobra.Command, args []string) {
			if version != "" {
				fmt.Printf("glcaps %s", version)
				if commit != "" {
					fmt.Printf(" (%s)", commit)
				}
				if date != "" {
					fmt.Printf(" built %s", date)
				}
				fmt.Println()
			} else {
				fmt.Println("glcaps (dev)")
			}
		},
	}
}

func contextFromSnapshot(path, disableExtensions, disableWorkarounds string) (*glcaps.Context, error) {
	snap, err := glcaps.LoadDriverSnapshot(path)
	if err != nil {
		return nil, err
	}

	args := []string{"glcaps"}
	if disableExtensions != "" {
		args = append(args, "--glcaps-disable-extensions", disableExtensions)
	}
	if disableWorkarounds != "" {
		args = append(args, "--glcaps-disable-workarounds", disableWorkarounds)
	}

	return glcaps.NewContext(snap.Driver(), glcaps.Configuration{
		Flags: glcaps.QuietLog,
		Args:  args,
	})
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type requirementList []glcaps.Requirement

func (r *requirementList) String() string {
	names := make([]string, 0, len(*r))
	for _, req := range *r {
		switch req := req.(type) {
		case glcaps.Extension:
			names = append(names, req.String())
		case glcaps.Version:
			names = append(names, req.Identifier())
		}
	}

	return strings.Join(names, ",")
}

func (r *requirementList) Set(input string) error {
	reqs, err := parseRequirements(input)
	if err != nil {
		return err
	}

	*r = append(*r, reqs...)
	return nil
}

func (r *requirementList) Type() string {
	return "capability"
}

// parseRequirements resolves a comma-separated list of capability names.
// Items starting with "GL_" are extension names, everything else is tried as
// a version identifier.
func parseRequirements(input string) (requirementList, error) {
	if strings.TrimSpace(input) == "" {
		return requirementList{}, nil
	}

	parts := strings.Split(input, ",")
	reqs := make(requirementList, 0, len(parts))
	for _, part := range parts {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}

		if strings.HasPrefix(name, "GL_") {
			e, ok := glcaps.ExtensionByName(name)
			if !ok {
				return nil, fmt.Errorf("unknown extension: %q", name)
			}
			reqs = append(reqs, e)
			continue
		}

		v, ok := glcaps.VersionByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown capability: %q (extension names start with GL_, versions look like GL330 or GLES300)", name)
		}
		reqs = append(reqs, v)
	}

	return reqs, nil
}

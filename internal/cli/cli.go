package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/specialistvlad/bringup/internal/app"
	"github.com/specialistvlad/bringup/internal/publish"
	"github.com/specialistvlad/bringup/internal/render"
	"github.com/spf13/cobra"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) error {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

type flags struct {
	configPath string
	format     string
	draft      bool
	showArgs   bool
	output     string
	shares     []string
	logFormat  string
	logLevel   string

	publishURL       string
	publishNamespace string
	publishEvent     string
	publishAck       string
	publishTimeout   string
	insecure         bool
}

// RunFunc executes a parsed configuration. Execute uses it so tests can
// inspect the configuration without running the App.
type RunFunc func(ctx context.Context, cfg *app.Config) error

// NewCommand builds the root command. Output of the App goes to outW, logs
// and usage errors to errW.
func NewCommand(outW, errW io.Writer, run RunFunc) *cobra.Command {
	envDefaults, envErr := app.LoadEnvDefaults()
	var f flags

	cmd := &cobra.Command{
		Use:   "bringup [flags] [name:=value ...]",
		Short: "Compose the stage + cartographer + nav2 launch session",
		Long: `bringup composes the stage simulator, cartographer SLAM, the occupancy grid
publisher, rviz2 and the nav2 navigation includes into one ROS 2 launch file.

Launch arguments are passed as name:=value, for example:

  bringup world:=office > bring_up_all.launch.yaml
  ros2 launch bring_up_all.launch.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if envErr != nil {
				return usageError("%s", envErr.Error())
			}
			cfg, err := buildConfig(cmd, &f, args)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	cmd.SetOut(outW)
	cmd.SetErr(errW)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError("%s", err.Error())
	})

	fs := cmd.Flags()
	fs.StringVarP(&f.configPath, "config", "c", envDefaults.ConfigPath, "Path to an HCL file overriding the built-in session.")
	fs.StringVarP(&f.format, "format", "f", string(render.FormatYAML), "Output format. Options: 'yaml' or 'json'.")
	fs.BoolVar(&f.draft, "draft", false, "Keep launch substitutions instead of resolving them.")
	fs.BoolVarP(&f.showArgs, "show-args", "s", false, "Show the declared launch arguments and exit.")
	fs.StringVarP(&f.output, "output", "o", "", "Write the launch file here instead of stdout.")
	fs.StringArrayVar(&f.shares, "share", nil, "Override a package share directory, as name=dir. Repeatable.")
	fs.StringVar(&f.logFormat, "log-format", envDefaults.LogFormat, "Log output format. Options: 'text' or 'json'.")
	fs.StringVar(&f.logLevel, "log-level", envDefaults.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	fs.StringVar(&f.publishURL, "publish-url", envDefaults.PublishURL, "socket.io endpoint to publish the launch description to.")
	fs.StringVar(&f.publishNamespace, "publish-namespace", "/", "socket.io namespace.")
	fs.StringVar(&f.publishEvent, "publish-event", publish.DefaultEvent, "Event name the description is emitted as.")
	fs.StringVar(&f.publishAck, "publish-ack-event", "", "Wait for this event from the receiver before returning.")
	fs.StringVar(&f.publishTimeout, "publish-timeout", envDefaults.PublishTimeout.String(), "Timeout for publishing.")
	fs.BoolVar(&f.insecure, "insecure-skip-verify", false, "Skip TLS verification when publishing.")

	return cmd
}

func buildConfig(cmd *cobra.Command, f *flags, args []string) (*app.Config, error) {
	overrides, err := ParseOverrides(args)
	if err != nil {
		return nil, err
	}

	format, err := render.ParseFormat(f.format)
	if err != nil {
		return nil, usageError("%s", err.Error())
	}

	cfg := app.Config{
		ConfigPath: f.configPath,
		Overrides:  overrides,
		Shares:     f.shares,
		Format:     format,
		Draft:      f.draft,
		ShowArgs:   f.showArgs,
		OutputPath: f.output,
		LogFormat:  strings.ToLower(f.logFormat),
		LogLevel:   strings.ToLower(f.logLevel),
	}

	if f.publishURL != "" {
		timeout, err := parseTimeout(f.publishTimeout)
		if err != nil {
			return nil, err
		}
		cfg.Publish = &publish.Options{
			URL:                f.publishURL,
			Namespace:          f.publishNamespace,
			Event:              f.publishEvent,
			AckEvent:           f.publishAck,
			Timeout:            timeout,
			InsecureSkipVerify: f.insecure,
		}
	} else if cmd.Flags().Changed("publish-event") || cmd.Flags().Changed("publish-ack-event") {
		return nil, usageError("--publish-event and --publish-ack-event require --publish-url")
	}

	appCfg, err := app.NewConfig(cfg)
	if err != nil {
		return nil, usageError("%s", err.Error())
	}
	return appCfg, nil
}

func parseTimeout(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, usageError("invalid publish-timeout '%s': must be a positive duration", s)
	}
	return d, nil
}

// ParseOverrides reads ros2-launch style `name:=value` arguments.
func ParseOverrides(args []string) (map[string]string, error) {
	overrides := make(map[string]string, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, ":=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, usageError("invalid launch argument '%s': expected name:=value", arg)
		}
		if _, dup := overrides[name]; dup {
			return nil, usageError("launch argument '%s' given more than once", name)
		}
		overrides[name] = value
	}
	return overrides, nil
}

// Execute parses args and runs the App.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	cmd := NewCommand(outW, errW, func(ctx context.Context, cfg *app.Config) error {
		a, err := app.NewApp(outW, errW, cfg)
		if err != nil {
			return err
		}
		return a.Run(ctx)
	})
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

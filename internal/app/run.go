package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/specialistvlad/bringup/internal/composer"
	"github.com/specialistvlad/bringup/internal/config"
	"github.com/specialistvlad/bringup/internal/ctxlog"
	"github.com/specialistvlad/bringup/internal/launch"
	"github.com/specialistvlad/bringup/internal/publish"
	"github.com/specialistvlad/bringup/internal/render"
)

// Run composes the session, renders it and optionally publishes it.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	sessionCfg, err := config.Load(ctx, a.config.ConfigPath)
	if err != nil {
		return err
	}

	comp := composer.New(a.locator, sessionCfg)
	draft, err := comp.Compose(ctx)
	if err != nil {
		return fmt.Errorf("failed to compose launch description: %w", err)
	}

	if a.config.ShowArgs {
		return writeArguments(a.outW, draft)
	}

	desc := draft
	if a.config.Draft {
		a.logger.Debug("Rendering draft, substitutions left for the launch runtime.")
		if len(a.config.Overrides) > 0 {
			a.logger.Warn("Overrides are ignored when rendering a draft.", "count", len(a.config.Overrides))
		}
	} else {
		fin, err := comp.Finalize(ctx, draft, a.config.Overrides)
		if err != nil {
			return err
		}
		desc = fin.Description
	}

	doc, err := render.Build(desc)
	if err != nil {
		return fmt.Errorf("failed to render launch description: %w", err)
	}
	if err := a.write(doc); err != nil {
		return err
	}

	if a.config.Publish != nil {
		pub, err := publish.New(*a.config.Publish)
		if err != nil {
			return err
		}
		if err := pub.Publish(ctx, doc); err != nil {
			return fmt.Errorf("failed to publish launch description: %w", err)
		}
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) write(doc *render.Document) error {
	if a.config.OutputPath == "" {
		return render.EncodeDocument(a.outW, doc, a.config.Format)
	}

	f, err := os.Create(a.config.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := render.EncodeDocument(f, doc, a.config.Format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	a.logger.Info("Launch file written.", "path", a.config.OutputPath, "format", a.config.Format)
	return nil
}

// writeArguments prints declared arguments the way `ros2 launch --show-args`
// does.
func writeArguments(w io.Writer, d *launch.Description) error {
	args := d.Arguments()
	if len(args) == 0 {
		_, err := fmt.Fprintln(w, "No arguments.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Arguments (pass arguments as '<name>:=<value>'):"); err != nil {
		return err
	}
	for _, arg := range args {
		desc := arg.Description
		if desc == "" {
			desc = "no description given"
		}
		if _, err := fmt.Fprintf(w, "\n    '%s':\n        %s\n        (default: '%s')\n", arg.Name, desc, arg.Default); err != nil {
			return err
		}
	}
	return nil
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/df07/go-tile-raytracer/pkg/config"
	"github.com/df07/go-tile-raytracer/pkg/core"
	"github.com/df07/go-tile-raytracer/pkg/renderer"
	"github.com/df07/go-tile-raytracer/pkg/watcher"
	"github.com/df07/go-tile-raytracer/web/server"
)

var renderOptions renderFlags

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a scene to a PNG file",
	Long: `Render a built-in scene or an STL/PLY mesh.

While rendering, type p and Enter to pause or resume and x and Enter to
abort. Ctrl-C also aborts; the completed tiles are still written.`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

func init() {
	renderOptions.register(renderCmd.Flags())
	renderCmd.Flags().Bool("watch", false, "Re-render when the config or mesh file changes")
	renderCmd.Flags().Bool("no-input", false, "Do not read control keys from stdin")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd.Flags(), &renderOptions)
	if err != nil {
		return err
	}

	slogger, err := config.NewLogger(os.Stderr, cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := config.SlogLogger{Logger: slogger}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	env := renderEnv{logger: logger}
	if noInput, _ := cmd.Flags().GetBool("no-input"); !noInput {
		env.control = newKeyControl(logger)
		go env.control.run(cmd.InOrStdin())
	}

	serverErr := make(chan error, 1)
	if cfg.Listen != "" {
		env.server = server.NewServer(logger)
		go func() { serverErr <- env.server.ListenAndServe(ctx, cfg.Listen) }()
	}

	watch, _ := cmd.Flags().GetBool("watch")
	if !watch {
		return finishRender(renderOnce(ctx, cfg, env))
	}

	configPath, _ := cmd.Flags().GetString("config")
	return watchAndRender(ctx, cfg, env, func() (config.Config, error) {
		return loadConfig(cmd.Flags(), &renderOptions)
	}, configPath, serverErr)
}

// finishRender reports the outcome of a single render
func finishRender(result renderer.PassResult, err error) error {
	if errors.Is(err, renderer.ErrRenderAborted) {
		return fmt.Errorf("render aborted with %d of %d tiles complete", result.TilesCompleted, result.TotalTiles)
	}
	return err
}

// watchAndRender renders cfg and starts over whenever a watched file
// changes, aborting the render in flight. It returns when ctx is done.
func watchAndRender(ctx context.Context, cfg config.Config, env renderEnv, reload func() (config.Config, error), configPath string, serverErr <-chan error) error {
	fw, err := watcher.NewFileWatcher(watcher.DefaultDebounce, env.logger)
	if err != nil {
		return err
	}
	defer fw.Close()
	if err := fw.Watch(configPath, cfg.Mesh); err != nil {
		return err
	}
	env.logger.Printf("Watching %s\n", strings.Join(fw.Files(), ", "))

	changes := make(chan string, 1)
	go fw.Run(ctx, func(path string) {
		select {
		case changes <- path:
		default:
		}
	})

	shouldRender := true
	for {
		var done chan error // nil while waiting without a render
		cancelRender := func() {}
		if shouldRender {
			var renderCtx context.Context
			renderCtx, cancelRender = context.WithCancel(ctx)
			done = make(chan error, 1)
			go func(cfg config.Config) {
				_, err := renderOnce(renderCtx, cfg, env)
				done <- err
			}(cfg)
		}

		stopRender := func() {
			cancelRender()
			if done != nil {
				<-done
			}
		}

		select {
		case err := <-done:
			done = nil
			cancelRender()
			logRenderOutcome(env.logger, err)

			select {
			case <-changes:
			case err := <-serverErr:
				return err
			case <-ctx.Done():
				return nil
			}
		case <-changes:
		case err := <-serverErr:
			stopRender()
			return err
		case <-ctx.Done():
			stopRender()
			return nil
		}
		stopRender()

		env.logger.Printf("Change detected, re-rendering\n")
		reloaded, err := reload()
		if err != nil {
			// Keep the previous image until the file is fixed
			env.logger.Printf("Config reload failed: %v\n", err)
			shouldRender = false
			continue
		}
		cfg = reloaded
		shouldRender = true
		if err := fw.Watch(cfg.Mesh); err != nil {
			env.logger.Printf("Failed to watch %s: %v\n", cfg.Mesh, err)
		}
	}
}

func logRenderOutcome(logger core.Logger, err error) {
	switch {
	case err == nil:
		logger.Printf("Waiting for changes\n")
	case errors.Is(err, renderer.ErrRenderAborted):
		logger.Printf("Render aborted, waiting for changes\n")
	default:
		logger.Printf("Render failed: %v\n", err)
	}
}

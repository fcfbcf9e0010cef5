package main

import (
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	"lumen/internal/config"
	"lumen/internal/engine"
	"lumen/internal/exec"
	"lumen/internal/history"
	"lumen/internal/icons"
	"lumen/internal/model"
	"lumen/internal/render"
	"lumen/internal/session"
	"lumen/internal/sources"
)

const pidFile = "/tmp/lumen.pid"

// envOptions can override the flag defaults, e.g. LUMEN_GROUP=work.
type envOptions struct {
	Config  string `envconfig:"CONFIG"`
	Group   string `envconfig:"GROUP"`
	LogFile string `envconfig:"LOG_FILE"`
}

var (
	flagConfig  string
	flagGroup   string
	flagLogFile string
)

// nullPresenter drops finished frames. The compositor-facing surface is a
// separate collaborator; running without one still exercises the full loop.
type nullPresenter struct{}

func (nullPresenter) Present(*image.RGBA) {}

func ensureSingleInstance() error {
	if data, err := os.ReadFile(pidFile); err == nil {
		if pid, err := strconv.Atoi(string(data)); err == nil {
			process, err := os.FindProcess(pid)
			if err == nil {
				// A previous launcher still running gets replaced.
				if err := process.Signal(syscall.Signal(0)); err == nil {
					process.Kill()
					process.Wait()
				}
			}
		}
	}
	return os.WriteFile(pidFile, []byte(strconv.Itoa(os.Getpid())), 0644)
}

func cleanup() {
	os.Remove(pidFile)
}

func dataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "lumen")
	}
	return filepath.Join(home, ".local", "share", "lumen")
}

func run(configPath, groupName string) error {
	cfg, err := config.LoadAndValidateConfig(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		defaults := config.DefaultConfig
		cfg = &defaults
	}

	hist, err := history.NewStore(dataDir(), cfg.General.HistorySize)
	if err != nil {
		return fmt.Errorf("failed to open history store: %w", err)
	}

	groupName, group := cfg.Group(groupName)

	eng := engine.New(hist, group)

	iconService := icons.NewService(icons.NewLoader(icons.DefaultThemeRoots()))
	iconService.Start()

	renderer, err := render.New(cfg.Theme, iconService)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	executor := exec.New(cfg, hist)

	items := make(chan []model.Item, 1)
	go sources.Scan(group, items)

	loop := session.NewLoop(eng, renderer, iconService, executor, nullPresenter{}, groupName, items)
	loop.Events() <- session.Resize{Width: int(cfg.Theme.Width), Height: int(cfg.Theme.Height)}
	loop.Run()
	return nil
}

func main() {
	var env envOptions
	if err := envconfig.Process("lumen", &env); err != nil {
		log.Fatalf("Failed to read environment: %v", err)
	}

	root := &cobra.Command{
		Use:   "lumen",
		Short: "Keyboard-driven application launcher",
		RunE: func(cmd *cobra.Command, args []string) error {
			logPath := flagLogFile
			if env.LogFile != "" {
				logPath = env.LogFile
			}
			if logPath != "" {
				logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
				if err == nil {
					log.SetOutput(logFile)
					defer logFile.Close()
				}
			}

			if err := ensureSingleInstance(); err != nil {
				return fmt.Errorf("failed to ensure single instance: %w", err)
			}
			defer cleanup()

			configPath := flagConfig
			if env.Config != "" {
				configPath = env.Config
			}
			groupName := flagGroup
			if env.Group != "" {
				groupName = env.Group
			}
			return run(configPath, groupName)
		},
	}
	root.Flags().StringVar(&flagConfig, "config", config.DefaultPath(), "path to config file")
	root.Flags().StringVar(&flagGroup, "group", "default", "launch group to activate")
	root.Flags().StringVar(&flagLogFile, "log-file", "", "append logs to this file instead of stderr")

	validate := &cobra.Command{
		Use:   "validate [config-path]",
		Short: "Check a config file and exit",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultPath()
			if len(args) > 0 {
				path = args[0]
			}
			if _, err := config.LoadAndValidateConfig(path); err != nil {
				return err
			}
			fmt.Printf("%s: ok\n", path)
			return nil
		},
	}
	root.AddCommand(validate)

	if err := root.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}

// Package exec spawns the chosen item as a detached process. Terminal
// wrapping and per-group environment injection happen here, outside the
// interactive core.
package exec

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"lumen/internal/config"
	"lumen/internal/history"
	"lumen/internal/model"
)

type Executor struct {
	cfg     *config.Config
	history *history.Store
}

func New(cfg *config.Config, hist *history.Store) *Executor {
	return &Executor{cfg: cfg, history: hist}
}

// Execute launches the item, applying the active group's environment
// overrides. Usage history is incremented exactly once per execution,
// best-effort.
func (e *Executor) Execute(item model.Item, group string) error {
	if e.history != nil {
		e.history.RecordLaunch(item.ID)
	}

	parts := e.commandParts(item)
	if len(parts) == 0 {
		return nil
	}

	cmd := exec.Command(parts[0], parts[1:]...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	cmd.Env = e.environ(group)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to spawn %q: %w", parts[0], err)
	}

	log.Printf("[EXEC] Launched %q (pid=%d, group=%s)", item.Name, cmd.Process.Pid, group)

	// The child outlives the launcher; release it so no zombie waits on us.
	return cmd.Process.Release()
}

// commandParts splits the invocation, wrapping it in the configured
// terminal emulator when the item asks for one.
func (e *Executor) commandParts(item model.Item) []string {
	if item.Terminal && e.cfg.General.Terminal != "" {
		parts := strings.Fields(e.cfg.General.Terminal)
		return append(parts, item.Command)
	}
	return strings.Fields(item.Command)
}

// environ layers the group's env overrides over the process environment.
func (e *Executor) environ(group string) []string {
	env := os.Environ()

	_, gc := e.cfg.Group(group)
	for key, val := range gc.Env {
		env = append(env, key+"="+val)
	}
	return env
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"cccolutils"
)

var (
	watchInterval time.Duration
	watchScript   string
	watchOnce     bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [realm...]",
	Short: "Poll the credential cache and react to changes",
	Long: `Watch polls the credential cache collection and logs every change of a
realm's state (authenticated, principal). On a change the realm's script, or
the global watch script, is run with a ctx table:

  ctx.name, ctx.realm, ctx.authenticated, ctx.username, ctx.first,
  ctx.was_authenticated, ctx.was_username

Unchanged states are announced again after the heartbeat. Only one watcher
runs per user.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "poll interval (default from config, 30s)")
	watchCmd.Flags().StringVar(&watchScript, "script", "", "Lua script run on every change")
	watchCmd.Flags().BoolVar(&watchOnce, "once", false, "poll once and exit")
}

// Watcher polls a client and tracks realm state transitions
type Watcher struct {
	client  *cccolutils.Client
	realms  []RealmEntry
	states  *StateCache
	engine  *LuaEngine
	script  string
	onEvent func(prev, cur RealmState, first bool)
	now     func() time.Time
}

// NewWatcher creates a watcher over realms. script is the default
// transition script, used for realms without their own.
func NewWatcher(c *cccolutils.Client, realms []RealmEntry, heartbeat time.Duration, script string) *Watcher {
	return &Watcher{
		client: c,
		realms: realms,
		states: NewStateCache(heartbeat),
		engine: NewLuaEngine(c),
		script: script,
		now:    time.Now,
	}
}

// Poll observes every realm once and returns the number of transitions
func (w *Watcher) Poll() int {
	changes := 0
	for _, r := range w.realms {
		cur, err := w.observe(r)
		if err != nil {
			LogWarn("Skipping realm %q: %v", r.Realm, err)
			continue
		}

		prev, found, changed := w.states.Observe(cur)
		if !changed {
			continue
		}
		changes++
		first := !found
		LogTransition(prev, cur, first)
		if w.onEvent != nil {
			w.onEvent(prev, cur, first)
		}

		script := r.Script
		if script == "" {
			script = w.script
		}
		if script != "" {
			_, err := w.engine.RunForState(script, prev, cur, first)
			LogScriptExecuted(script, cur.Realm, err)
		}
	}
	return changes
}

// Run polls until ctx is cancelled
func (w *Watcher) Run(ctx context.Context, interval time.Duration) {
	w.Poll()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Poll()
		}
	}
}

func (w *Watcher) observe(r RealmEntry) (RealmState, error) {
	ok, err := w.client.HasCredentialsForRealm(r.Realm)
	if err != nil {
		return RealmState{}, err
	}
	user, err := w.client.Username(r.Realm)
	if err != nil {
		return RealmState{}, err
	}
	name, present := user.Get()
	return RealmState{
		Name:          r.Name,
		Realm:         r.Realm,
		Authenticated: ok,
		Username:      name,
		Present:       present,
		ObservedAt:    w.now(),
	}, nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	realms := resolveRealms(args, appConfig)
	if len(realms) == 0 {
		return fmt.Errorf("no realms to watch: pass realms, set REALM or add them to %s", DefaultConfigPath())
	}

	wc := appConfig.GetWatchConfigWithDefaults()
	interval := wc.Interval()
	if watchInterval > 0 {
		interval = watchInterval
	}
	script := wc.Script
	if watchScript != "" {
		script = watchScript
	}

	w := NewWatcher(client, realms, wc.Heartbeat(), script)
	w.onEvent = func(_, cur RealmState, _ bool) {
		state := "not authenticated"
		if cur.Authenticated {
			state = "authenticated"
		}
		if cur.Present {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s as %s\n", cur.ObservedAt.Format(time.RFC3339), cur.Realm, state, cur.Username)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", cur.ObservedAt.Format(time.RFC3339), cur.Realm, state)
		}
	}

	if watchOnce {
		w.Poll()
		return nil
	}

	if err := EnsureSingleInstance(); err != nil {
		return err
	}
	defer ReleaseSingleInstance()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	LogAction("watch_started", "Watching credential cache", logrus.Fields{
		"realms":   len(realms),
		"interval": interval.String(),
	})
	w.Run(ctx, interval)
	LogInfo("Watch stopped")
	return nil
}

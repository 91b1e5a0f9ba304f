package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/carpeta/organizer/internal/config"
	"github.com/carpeta/organizer/internal/persistence"
	"github.com/carpeta/organizer/internal/workspace"
	"github.com/carpeta/organizer/pkg/logger"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

type options struct {
	localPath string
	redisAddr string
	remoteURL string
	key       string
	verbose   bool
}

var opts options

func main() {
	logger.SetOutput(logger.ConsoleWriter(os.Stderr))
	logger.Init("warn")

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := newRootCmd(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	localPath := cfg.Sync.LocalPath
	if !filepath.IsAbs(localPath) {
		if home, err := os.UserHomeDir(); err == nil {
			localPath = filepath.Join(home, ".organizer", localPath)
		}
	}

	rootCmd := &cobra.Command{
		Use:           "organizer",
		Short:         "Folders, documents and a calendar, kept locally and synced to a server",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.verbose {
				logger.Init("debug")
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.localPath, "local", localPath, "local SQLite database path")
	rootCmd.PersistentFlags().StringVar(&opts.redisAddr, "redis", cfg.Redis.Addr(), "keep the local copy in Redis at host:port instead of SQLite")
	rootCmd.PersistentFlags().StringVar(&opts.remoteURL, "remote", cfg.Sync.RemoteURL, "sync server base URL (empty disables sync)")
	rootCmd.PersistentFlags().StringVar(&opts.key, "key", cfg.Sync.LocalKey, "storage key of the workspace")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(foldersCmd(cfg))
	rootCmd.AddCommand(folderCmd(cfg))
	rootCmd.AddCommand(docCmd(cfg))
	rootCmd.AddCommand(eventCmd(cfg))
	rootCmd.AddCommand(eventsCmd(cfg))
	rootCmd.AddCommand(calendarCmd(cfg))
	rootCmd.AddCommand(exportCmd(cfg))
	rootCmd.AddCommand(remoteCmd(cfg))

	return rootCmd
}

// app is one loaded workspace plus what it takes to shut it down cleanly.
type app struct {
	store   *workspace.Store
	gateway *persistence.Gateway
	closers []func()
}

// openApp wires the local backend, the optional remote and the store, then
// loads the workspace.
func openApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{}

	var local persistence.LocalBackend
	if opts.redisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: opts.redisAddr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		a.closers = append(a.closers, func() { _ = client.Close() })
		local = persistence.NewKVLocal(persistence.NewRedisKV(client, ""), opts.key)
	} else {
		kv, err := persistence.OpenSQLiteKV(opts.localPath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = kv.Close() })
		local = persistence.NewKVLocal(kv, opts.key)
	}

	gwOpts := persistence.GatewayOptions{
		RemoteTimeout: cfg.Sync.RemoteTimeout,
		RemoteRetries: cfg.Sync.RemoteRetries,
	}
	if cfg.Sync.RemoteRPS > 0 {
		gwOpts.RemoteLimiter = rate.NewLimiter(rate.Limit(cfg.Sync.RemoteRPS), 1)
	}
	var remote persistence.RemoteBackend
	if opts.remoteURL != "" {
		remote = persistence.NewHTTPRemote(opts.remoteURL, cfg.Sync.RemoteTimeout)
	}
	a.gateway = persistence.NewGateway(local, remote, gwOpts)
	a.store = workspace.New(a.gateway)

	src := a.store.Load(ctx)
	logger.Debugf("workspace %q loaded from %s", opts.key, src)
	return a, nil
}

// Close waits for pending remote saves before releasing backends.
func (a *app) Close() {
	done := make(chan struct{})
	go func() {
		a.gateway.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(30 * time.Second):
		logger.Warnf("gave up waiting for remote saves")
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// withApp runs fn against a freshly loaded workspace.
func withApp(cmd *cobra.Command, cfg *config.Config, fn func(a *app) error) error {
	a, err := openApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

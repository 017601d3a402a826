package commands

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/chandlergims/pokestrat/internal/config"
	"github.com/chandlergims/pokestrat/internal/printer"
	"github.com/chandlergims/pokestrat/pkg/registry"
)

var (
	version string
	commit  string
	date    string

	configPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pokestrat",
	Short: "Pokestrat - Community card acquisition pools",
	Long: `Pokestrat tracks community demand for trading cards. Wallets join a
card's acquisition pool to signal interest; when enough demand gathers,
the pool is ready for a community acquisition.

State lives in a shared Redis server, so every pokestrat process pointed
at the same namespace sees the same pools.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to pokestrat.yml")
}

// newRegistryClient loads the configuration, connects to Redis and verifies
// the connection. Callers own the returned client and must Close it.
func newRegistryClient(ctx context.Context) (*registry.Client, *config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, printer.Error(
			"invalid configuration",
			fmt.Sprintf("Error: %v", err),
			[]string{
				fmt.Sprintf("Check %s", configPath),
				"Or set REDIS_URL in the environment",
			},
		)
	}

	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, nil, printer.Error(
			"invalid Redis URL",
			fmt.Sprintf("Could not parse %q: %v", cfg.Redis.URL, err),
			[]string{"Expected a URL like redis://localhost:6379"},
		)
	}

	client, err := registry.NewClient(redisOpts, cfg.Namespace)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create registry client: %w", err)
	}

	if err := client.Ping(ctx); err != nil {
		client.Close()
		return nil, nil, printer.Error(
			"Redis connection failed",
			fmt.Sprintf("Could not connect to Redis at %s", cfg.Redis.URL),
			[]string{
				"Check that the Redis server is running",
				fmt.Sprintf("Check redis.url in %s", configPath),
			},
		)
	}

	return client, cfg, nil
}

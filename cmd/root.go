package cmd

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/leocov-dev/mccdl/config"
	"github.com/leocov-dev/mccdl/internal/shared"
	"github.com/leocov-dev/mccdl/mccdl"
)

var (
	cfg    config.Config
	logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: config.AppName})
)

// rootCmd installs or upgrades a modpack when invoked without a subcommand
var rootCmd = &cobra.Command{
	Use:   "mccdl <modpack-url|project> [instance-name]",
	Short: "Download a CurseForge modpack into a MultiMC instance",
	Long: `Download a CurseForge modpack, every mod it lists and its overrides into a MultiMC instance.

The modpack can be given as a CurseForge project or file URL, a modpack landing page URL
or a bare project slug. The instance name defaults to one derived from the project.`,
	Args:              cobra.RangeArgs(1, 2),
	PersistentPreRunE: loadConfig,
	Run: func(cmd *cobra.Command, args []string) {
		app := newApp()

		req := mccdl.Request{
			Locator: args[0],
			FileID:  viper.GetString("file-id"),
			Upgrade: viper.GetBool("upgrade"),
		}
		if len(args) > 1 {
			req.InstanceName = args[1]
		}
		if _, err := app.Run(req); err != nil {
			shared.ExitErr(logger, err)
		}
	},
}

func Execute() {
	rootCmd.Version = config.Version
	if err := rootCmd.Execute(); err != nil {
		shared.Exitln(err)
	}
}

func loadConfig(cmd *cobra.Command, args []string) error {
	if noProgress, _ := cmd.Flags().GetBool("no-progress"); noProgress {
		viper.Set(config.KeyProgress, false)
	}

	var err error
	cfg, err = config.Load(viper.GetViper(), viper.GetString("config"))
	if err != nil {
		return err
	}

	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger.SetLevel(level)
	logger.Debug("loaded config", "cache", cfg.CacheDirectory, "multimc", cfg.MultiMCDirectory)
	return nil
}

func newApp() *mccdl.App {
	app, err := mccdl.New(cfg, logger)
	if err != nil {
		shared.ExitErr(logger, err)
	}
	return app
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default "+config.DefaultConfigFile()+")")
	_ = viper.BindPFlag("config", flags.Lookup("config"))
	flags.StringP(config.KeyCacheDirectory, "c", "", "Directory for downloaded and unpacked files")
	_ = viper.BindPFlag(config.KeyCacheDirectory, flags.Lookup(config.KeyCacheDirectory))
	flags.StringP(config.KeyLogLevel, "l", "", "Log level: debug, info, warning, error or critical")
	_ = viper.BindPFlag(config.KeyLogLevel, flags.Lookup(config.KeyLogLevel))
	flags.String(config.KeyMultiMCDirectory, "", "MultiMC data directory")
	_ = viper.BindPFlag(config.KeyMultiMCDirectory, flags.Lookup(config.KeyMultiMCDirectory))
	flags.Bool("no-progress", false, "Do not show download progress bars")

	rootCmd.Flags().Bool("upgrade", false, "Upgrade an existing instance instead of creating a new one")
	_ = viper.BindPFlag("upgrade", rootCmd.Flags().Lookup("upgrade"))
	rootCmd.Flags().String("file-id", "", "Install this file of the modpack instead of the one in the URL")
	_ = viper.BindPFlag("file-id", rootCmd.Flags().Lookup("file-id"))
	rootCmd.Flags().String(config.KeyExclude, "", "Skip optional mods whose project id matches this pattern")
	_ = viper.BindPFlag(config.KeyExclude, rootCmd.Flags().Lookup(config.KeyExclude))
}

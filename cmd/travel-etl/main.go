// Command travel-etl joins the normalized travel-booking tables of a SQLite
// database into one enriched row per ticket leg, projects and localizes it,
// and optionally exports the result to sqlite, postgres or mssql.
package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"travel-etl/internal/config"

	// register every storage backend; the pipeline file picks one.
	_ "travel-etl/internal/storage/all"
)

// Version is injected at build time with -ldflags "-X main.Version=...".
var Version = "dev"

const (
	appName  = "travel-etl"
	appShort = "travel-etl flattens the travel booking database into one enriched table"
	appLong  = `Load every table of the travel SQLite database, inner-join tickets with
	their flights, aircraft, airports, passengers and bookings, drop the key and
	operational columns, and turn the JSON-encoded names into plain strings for
	one locale.

	Configuration comes from an optional JSON or YAML pipeline file, TRAVEL_ETL_*
	environment variables (a .env file in the working directory is read first)
	and the command line flags, in increasing order of precedence.`

	configFlagName    = "config"
	logLevelFlagName  = "log-level"
	logFormatFlagName = "log-format"
)

// rootFlags holds the persistent flags shared by every subcommand.
type rootFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

func (f *rootFlags) addFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVarP(&f.configPath, configFlagName, "c", "", "pipeline file (JSON or YAML); empty reads the environment only")
	flags.StringVarP(&f.logLevel, logLevelFlagName, "v", "", "log level: debug, info, warn, error (overrides LOG_LEVEL)")
	flags.StringVar(&f.logFormat, logFormatFlagName, "", "log format: console or json (overrides LOG_FORMAT)")
}

// load reads the pipeline and applies the persistent flag overrides.
func (f *rootFlags) load() (config.Pipeline, error) {
	p, err := config.Load(f.configPath)
	if err != nil {
		return config.Pipeline{}, err
	}
	if f.logLevel != "" {
		p.Log.Level = f.logLevel
	}
	if f.logFormat != "" {
		p.Log.Format = f.logFormat
	}
	return p, nil
}

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cmd := rootCmd()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		cmd.PrintErrln("Error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: heredoc.Doc(appShort),
		Long:  heredoc.Doc(appLong),

		SilenceErrors: true,
		SilenceUsage:  true,

		ValidArgsFunction: cobra.NoFileCompletions,
	}

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		c.PrintErrln(err)
		_ = c.Usage()
		return err
	})

	flags.addFlags(cmd)
	cmd.AddCommand(
		runCmd(flags),
		validateCmd(flags),
		tablesCmd(flags),
		envCmd(),
		versionCmd(),
	)
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display the " + appName + " version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), versionString(Version, runtime.Version()))
		},
	}
}

func versionString(version, runtimeVersion string) string {
	return appName + " " + version + ", Go Version: " + runtimeVersion
}

// envCmd prints the environment variables understood by the config loader.
func envCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "List the environment variables read by " + appName,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			usage, err := config.Usage()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), usage)
			return nil
		},
	}
}

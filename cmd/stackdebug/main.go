// Command stackdebug fills a bounded stack with random ints, drains it and
// prints every step. It exits 1 when the stack cannot be created.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lifostack/lifostack/config"
	"github.com/lifostack/lifostack/errs"
	"github.com/lifostack/lifostack/internal/harness"
	"github.com/lifostack/lifostack/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var confPath string
	cmd := &cobra.Command{
		Use:           "stackdebug",
		Short:         "Exercise a bounded stack and print every push and pop",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := run(confPath, cmd.OutOrStdout())
			if err != nil {
				reportError(cmd.ErrOrStderr(), err)
			}
			return err
		},
	}
	cmd.PersistentFlags().StringVar(&confPath, "conf", config.DefaultConfigPath, "config file path")
	cmd.AddCommand(&cobra.Command{
		Use:   "selftest",
		Short: "Check every stack operation and print Pass or Fail for each",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := selfTest(confPath, cmd.OutOrStdout())
			if err != nil {
				reportError(cmd.ErrOrStderr(), err)
			}
			return err
		},
	})
	return cmd
}

// setup loads the global config and installs its logger as the default one.
func setup(confPath string) (*config.Config, error) {
	if err := config.LoadGlobalConfig(confPath); err != nil {
		return nil, err
	}
	cfg := config.GlobalConfig()
	errs.SetTraceable(cfg.TraceErrors)
	logger, err := log.Build(cfg.Log)
	if err != nil {
		return nil, err
	}
	log.SetLogger(logger)
	return cfg, nil
}

func run(confPath string, out io.Writer) error {
	cfg, err := setup(confPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = log.Sync()
	}()

	_, err = harness.Run(cfg.Stack, out)
	return err
}

func selfTest(confPath string, out io.Writer) error {
	cfg, err := setup(confPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = log.Sync()
	}()

	return harness.SelfTest(out, cfg.Stack.Seed)
}

func reportError(w io.Writer, err error) {
	if errs.Code(err) == errs.RetAllocationFailure {
		fmt.Fprintln(w, "Could not allocate memory for stack!")
		return
	}
	fmt.Fprintln(w, err)
}

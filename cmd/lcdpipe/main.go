package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/srlehn/lcdpipe/internal/errors"
)

var rootCmd = &cobra.Command{
	Use:              filepath.Base(os.Args[0]),
	Short:            "lcdpipe emulates a colour LCD driven through a named pipe",
	Long:             "lcdpipe emulates a colour LCD panel. Drawing commands are read line by line from a named pipe and shown in the terminal.",
	SilenceUsage:     true,
	SilenceErrors:    true,
	TraverseChildren: true,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	cobra.EnablePrefixMatching = true
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, `debug`, `d`, false, `print error stacks`)
	rootCmd.PersistentFlags().BoolVarP(&silentFlag, `silent`, `s`, false, `silence errors`)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	debugFlag      bool
	silentFlag     bool
	cpuProfileFlag string
	cpuProfilefunc func(profileFile string) func()
)

// run calls fn with a context that is cancelled on SIGINT and SIGTERM and
// exits the process with the outcome.
func run(fn func(ctx context.Context) error) {
	var exitCode int
	defer func() {
		if r := recover(); r != nil {
			exitCode = 1
			if !silentFlag {
				if stackFramer, ok := r.(interface{ ErrorStack() string }); ok {
					fmt.Fprintln(os.Stderr, "\n"+stackFramer.ErrorStack())
				} else {
					fmt.Fprintln(os.Stderr, r)
					debug.PrintStack()
				}
			}
		}
		os.Exit(exitCode)
	}()
	if fn == nil {
		panic(errors.NilParam())
	}
	if len(cpuProfileFlag) > 0 && cpuProfilefunc != nil {
		if stop := cpuProfilefunc(cpuProfileFlag); stop != nil {
			defer stop()
		}
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := ignoreCancel(fn(ctx)); err != nil {
		exitCode = 1
		if !silentFlag {
			if stack := errors.Stack(err); debugFlag && len(stack) > 0 {
				fmt.Fprintln(os.Stderr, "\n"+stack)
			} else {
				fmt.Fprintln(os.Stderr, err.Error())
			}
		}
	}
}

// ignoreCancel drops the error of an interrupted command. Ctrl-C is a
// regular way to end the run and demo commands.
func ignoreCancel(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/srlehn/lcdpipe/transport"
)

func init() {
	rootCmd.AddCommand(mkfifoCmd)
	mkfifoCmd.Flags().Uint32VarP(&mkfifoModeFlag, `mode`, `m`, 0o600, `permission bits`)
}

var mkfifoCmd = &cobra.Command{
	Use:   mkfifoCmdStr + " PATH",
	Short: "create the named pipe",
	Long:  "create the named pipe a sender writes to",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(context.Context) error {
			return transport.Mkfifo(args[0], os.FileMode(mkfifoModeFlag).Perm())
		})
	},
}

var (
	mkfifoCmdStr   = "mkfifo"
	mkfifoModeFlag uint32
)

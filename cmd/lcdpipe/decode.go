package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/srlehn/lcdpipe/internal/errors"
	"github.com/srlehn/lcdpipe/proto"
)

func init() { rootCmd.AddCommand(decodeCmd) }

var decodeCmd = &cobra.Command{
	Use:   decodeCmdStr + " [FILE]",
	Short: "decode protocol lines and print the commands",
	Long:  "decode protocol lines from FILE or stdin and print one command or error per line",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context) error {
			in := io.Reader(os.Stdin)
			if len(args) == 1 && args[0] != `-` {
				f, err := os.Open(args[0])
				if err != nil {
					return errors.New(err)
				}
				defer f.Close()
				in = f
			}
			bad, err := decodeLines(in, os.Stdout)
			if err != nil {
				return err
			}
			if bad > 0 {
				return errors.Errorf(`%d lines rejected`, bad)
			}
			return nil
		})
	},
}

var decodeCmdStr = "decode"

// decodeLines writes one result per non-blank input line and returns the
// number of rejected lines.
func decodeLines(r io.Reader, w io.Writer) (bad int, _ error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	var lineNo int
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		cmd, err := proto.Decode(line)
		if err != nil {
			bad++
			if _, err := fmt.Fprintf(w, "%d: error: %v\n", lineNo, err); err != nil {
				return bad, errors.New(err)
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "%d: %v\n", lineNo, cmd); err != nil {
			return bad, errors.New(err)
		}
	}
	if err := sc.Err(); err != nil {
		return bad, errors.New(err)
	}
	return bad, nil
}

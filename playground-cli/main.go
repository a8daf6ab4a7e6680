package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"

	"github.com/retro-framework/glob-playground/framework"
	"github.com/retro-framework/glob-playground/framework/controller"
	"github.com/retro-framework/glob-playground/framework/evaluator"
	"github.com/retro-framework/glob-playground/framework/matcher"
	"github.com/retro-framework/glob-playground/framework/options"
	"github.com/retro-framework/glob-playground/framework/script"
	"github.com/retro-framework/glob-playground/framework/types"
)

// maxLineSize bounds a single candidate read with --stdin.
const maxLineSize = 16 << 20

var errInvalidOptions = xerrors.New("options text is not valid JSON, evaluated with the defaults")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {

	var (
		engineName string
		logLevel   string
	)

	var rootCmd = &cobra.Command{
		Use:          "playground-cli",
		Short:        "Try glob patterns against candidate paths",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&engineName, "engine", matcher.DefaultEngine, "glob engine, see the engines command")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "debug, info, warn or error")

	var (
		logger = func(cmd *cobra.Command) types.Logger {
			return framework.NewLogfmt(cmd.ErrOrStderr(), framework.ParseLevel(logLevel))
		}
		engine = func(cmd *cobra.Command, name string) (*matcher.Engine, error) {
			return matcher.New(name, logger(cmd))
		}
	)

	var (
		optionsText string
		fromStdin   bool
	)
	var cmdMatch = &cobra.Command{
		Use:   "match PATTERN [CANDIDATE...]",
		Short: "Match candidates against a pattern",
		Long: `Prints every candidate prefixed with + when it matches and - when it
doesn't, followed by the match count. With --stdin candidates are also
read from standard input, one per line.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := engine(cmd, engineName)
			if err != nil {
				return err
			}

			var texts = args[1:]
			if fromStdin {
				lines, err := readLines(cmd.InOrStdin())
				if err != nil {
					return errors.Wrap(err, "can't read candidates from stdin")
				}
				texts = append(texts, lines...)
			}
			cs := make([]types.Candidate, len(texts))
			for i, t := range texts {
				cs[i] = types.Candidate{ID: strconv.Itoa(i), Text: t}
			}

			var (
				o     = options.Default()
				valid = true
			)
			if cmd.Flags().Changed("options") {
				o, valid = options.Parse(optionsText, o)
			}

			res := evaluator.New(e, logger(cmd)).Evaluate(context.Background(), args[0], o, cs)
			out := cmd.OutOrStdout()
			for i, c := range cs {
				marker := "-"
				if res.Matched(i) {
					marker = "+"
				}
				fmt.Fprintf(out, "%s %s\n", marker, c.Text)
			}
			fmt.Fprintln(out, res.Summary())

			if !valid {
				return errInvalidOptions
			}
			return nil
		},
	}
	cmdMatch.Flags().StringVar(&optionsText, "options", "", "options as JSON, e.g. '{\"dot\": true}'")
	cmdMatch.Flags().BoolVar(&fromStdin, "stdin", false, "read additional candidates from stdin")

	var cmdOptions = &cobra.Command{
		Use:   "options",
		Short: "Print the default options",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), options.DefaultText())
		},
	}

	var cmdEngines = &cobra.Command{
		Use:   "engines",
		Short: "List the glob engines",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, name := range matcher.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}

	var cmdReplay = &cobra.Command{
		Use:   "replay FILE",
		Short: "Replay a YAML session script, checking its expectations",
		Long: `Delivers each step of the script to a fresh playground and prints the
resulting update. Use - to read the script from stdin. The engine named
in the script is used unless --engine is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return errors.Wrap(err, "can't open script")
				}
				defer f.Close()
				r = f
			}
			s, err := script.Load(r)
			if err != nil {
				return err
			}

			var name = s.Engine
			if name == "" || cmd.Flags().Changed("engine") {
				name = engineName
			}
			e, err := engine(cmd, name)
			if err != nil {
				return err
			}

			var (
				l   = logger(cmd)
				c   = controller.New(e, l)
				out = cmd.OutOrStdout()
			)
			return script.Run(context.Background(), c, s, func(i int, _ script.Step, u controller.Update) {
				fmt.Fprintf(out, "step %d rev=%d valid=%t evaluated=%t %s ops=%s\n",
					i, u.Revision, u.Valid, u.Evaluated, u.Summary, formatOps(u.Ops))
			})
		},
	}

	rootCmd.AddCommand(cmdMatch, cmdOptions, cmdEngines, cmdReplay)
	return rootCmd
}

func readLines(r io.Reader) ([]string, error) {
	var (
		lines   []string
		scanner = bufio.NewScanner(r)
	)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

func formatOps(ops []types.MarkerOp) string {
	s := make([]string, len(ops))
	for i, o := range ops {
		s[i] = o.String()
	}
	return "[" + strings.Join(s, ", ") + "]"
}

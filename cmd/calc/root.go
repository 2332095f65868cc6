package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-chi-calculator/internal/engine"
	"go-chi-calculator/internal/session"
)

type options struct {
	steps          bool
	clearVariables bool
	variables      map[string]string
}

func newRootCmd(logger *zap.Logger) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "calc [keys...]",
		Short: "Press calculator keys and print the display and history",
		Long: `Press calculator keys on a fresh session and print the result.

Keys are digits 0-9, "." and "+/-" for typing, the operators
+ - × ÷ sin cos tan √ x² ± π e =, C to clear, ⌫ to undo,
MC MR MS M+ for memory and $name to recall a variable. Without
arguments, keys are read from stdin, whitespace separated, and the
state is printed after each line.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession(opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(args) > 0 {
				return press(out, sess, args, opts.steps, logger)
			}
			return pressLines(cmd.InOrStdin(), out, sess, opts.steps, logger)
		},
	}

	cmd.Flags().BoolVarP(&opts.steps, "steps", "s", false, "print the state after every key")
	cmd.Flags().BoolVar(&opts.clearVariables, "reset-clears-variables", false, "make a second C also forget variables")
	cmd.Flags().StringToStringVarP(&opts.variables, "var", "v", nil, "preset variables, e.g. --var x=2,y=3")

	return cmd
}

func newSession(opts *options) (*session.Session, error) {
	e := engine.New(engine.WithResetClearsVariables(opts.clearVariables))
	for name, raw := range opts.variables {
		v, err := cast.ToFloat64E(raw)
		if err != nil {
			return nil, fmt.Errorf("variable %s: %w", name, err)
		}
		e.SetVariable(name, v)
	}
	return session.New("cli", e, time.Now()), nil
}

// pressKey presses key, treating "$name" as a variable recall.
func pressKey(sess *session.Session, key string) (session.Snapshot, error) {
	if name, ok := strings.CutPrefix(key, "$"); ok && name != "" {
		return sess.RecallVariable(name, time.Now()), nil
	}
	return sess.Press(key, time.Now())
}

func press(out io.Writer, sess *session.Session, keys []string, steps bool, logger *zap.Logger) error {
	var snap session.Snapshot
	for _, key := range keys {
		var err error
		snap, err = pressKey(sess, key)
		if err != nil {
			logger.Error("key rejected", zap.String("key", key), zap.Error(err))
			return fmt.Errorf("key %q: %w", key, err)
		}
		if steps {
			printSnapshot(out, key, snap)
		}
	}
	if !steps {
		printSnapshot(out, "", snap)
	}
	return nil
}

func pressLines(in io.Reader, out io.Writer, sess *session.Session, steps bool, logger *zap.Logger) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		keys := strings.Fields(scanner.Text())
		if len(keys) == 0 {
			continue
		}
		if err := press(out, sess, keys, steps, logger); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func printSnapshot(out io.Writer, key string, snap session.Snapshot) {
	if key != "" {
		fmt.Fprintf(out, "%-4s %-16s %s\n", key, snap.Display, snap.History)
		return
	}
	fmt.Fprintf(out, "%s\n%s\n", snap.Display, snap.History)
}

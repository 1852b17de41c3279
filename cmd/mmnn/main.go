// mmnn is a micro managed neural network: forward propagation and supervised
// training of neuron graphs described by declarative topology documents.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/micromanaged/mmnn/internal/network"
	"github.com/micromanaged/mmnn/internal/session"
	"github.com/micromanaged/mmnn/internal/topology"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "mmnn:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mmnn",
		Short: "Micro managed neural network",
		Long: `mmnn drives neuron graphs described by JSON or YAML topology documents.
Input vectors are read from stdin as whitespace-separated numbers, one vector
per line, and produce one output line each.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newPropagateCmd(), newLearnCmd(), newInspectCmd())
	return root
}

func newPropagateCmd() *cobra.Command {
	var names bool
	cmd := &cobra.Command{
		Use:   "propagate <topology>",
		Short: "Forward propagate stdin vectors through a network",
		Long: `Reads one input vector per line from stdin and writes the resulting
output vector per line. Lines that fail to parse or do not match the
network's input arity are reported on stderr and skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			net, err := loadNetwork(args[0])
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go func() {
				// After the first signal the loop finishes its current line;
				// releasing the handler lets a second signal kill the process.
				<-ctx.Done()
				stop()
			}()
			return session.New(net, cmd.InOrStdin(), cmd.OutOrStdout(), logger).Propagate(ctx, names)
		},
	}
	cmd.Flags().BoolVar(&names, "names", false, "prefix each output value with its neuron id")
	return cmd
}

func newLearnCmd() *cobra.Command {
	var learningRate float64
	cmd := &cobra.Command{
		Use:   "learn <topology> <save-path>",
		Short: "Train a network from alternating input and expected-output lines",
		Long: `Reads alternating lines from stdin: an input vector, which is propagated
and echoed with neuron ids, then an expected-output vector, which is
backpropagated and acknowledged with an "[Error: <loss>]" diagnostic.
Training runs until stdin is exhausted or an interrupt is received, then the
current topology is saved to <save-path>.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			net, err := loadNetwork(args[0])
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go func() {
				// After the first signal the loop finishes its current line;
				// releasing the handler lets a second signal kill the process.
				<-ctx.Done()
				stop()
			}()

			runErr := session.New(net, cmd.InOrStdin(), cmd.OutOrStdout(), logger).Learn(ctx, learningRate)
			if err := net.Snapshot().Save(args[1]); err != nil {
				return err
			}
			logger.Info("topology saved", zap.String("path", args[1]))
			return runErr
		},
	}
	cmd.Flags().Float64Var(&learningRate, "learning-rate", 1.0, "gradient descent step size")
	return cmd
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <topology>",
		Short: "Print a network's neurons grouped by evaluation depth",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			net, err := loadNetwork(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), net.Describe())
			return nil
		},
	}
}

// loadNetwork reads a topology document and builds the network it describes.
func loadNetwork(path string) (*network.Network, error) {
	doc, err := topology.Load(path)
	if err != nil {
		return nil, err
	}
	net, err := network.Build(doc)
	return net, errors.Wrapf(err, "build network from %s", path)
}

// newLogger builds the stderr logger used for per-line diagnostics.
func newLogger() (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	logger, err := cfg.Build()
	return logger, errors.Wrap(err, "init logger")
}

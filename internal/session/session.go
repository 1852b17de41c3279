// Package session runs the line-oriented propagate and learn loops around a
// built network.
//
// Both loops read one whitespace-separated vector per line. Per-line
// failures — unparseable numbers, vectors of the wrong arity — are logged and
// skipped; they never terminate the session. Cancellation is checked between
// lines, so an interrupted training run still finishes the line it is on.
package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/micromanaged/mmnn/internal/network"
)

// Session drives a network from a line-oriented input stream.
type Session struct {
	net *network.Network
	in  io.Reader
	out io.Writer
	log *zap.Logger
}

// New creates a session over the given streams.
func New(net *network.Network, in io.Reader, out io.Writer, log *zap.Logger) *Session {
	return &Session{net: net, in: in, out: out, log: log}
}

// Propagate consumes one input vector per line and writes one output vector
// per line until the stream ends or ctx is canceled. With withNames set,
// every value is prefixed by its output neuron's id.
func (s *Session) Propagate(ctx context.Context, withNames bool) error {
	scanner := bufio.NewScanner(s.in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			s.log.Info("session interrupted")
			break
		}
		values, err := parseVector(scanner.Text())
		if err != nil {
			s.log.Warn("skipping unparseable line", zap.Error(err))
			continue
		}
		if err := s.net.Propagate(values); err != nil {
			s.log.Warn("propagation failed", zap.Error(err))
			continue
		}
		fmt.Fprintln(s.out, s.formatOutputs(withNames))
	}
	return errors.Wrap(scanner.Err(), "read input")
}

// Learn alternates lines: an input vector is propagated and the outputs are
// echoed with their neuron ids, then the next line is taken as the expected
// output vector, backpropagated, and acknowledged with a "[Error: <loss>]"
// diagnostic completing the echoed line. A line that fails keeps the loop in
// its current phase, so the next line is interpreted the same way.
func (s *Session) Learn(ctx context.Context, learningRate float64) error {
	scanner := bufio.NewScanner(s.in)
	expectingTargets := false
	for scanner.Scan() {
		if ctx.Err() != nil {
			s.log.Info("session interrupted, saving state")
			break
		}
		values, err := parseVector(scanner.Text())
		if err != nil {
			s.log.Warn("skipping unparseable line", zap.Error(err))
			continue
		}
		if !expectingTargets {
			if err := s.net.Propagate(values); err != nil {
				s.log.Warn("propagation failed", zap.Error(err))
				continue
			}
			fmt.Fprint(s.out, s.formatOutputs(true))
			expectingTargets = true
			continue
		}
		total, err := s.net.Backpropagate(values, learningRate)
		if err != nil {
			s.log.Warn("backpropagation failed", zap.Error(err))
			continue
		}
		fmt.Fprintf(s.out, " [Error: %v]\n", total)
		expectingTargets = false
	}
	return errors.Wrap(scanner.Err(), "read input")
}

// formatOutputs renders the current output activations on one line.
func (s *Session) formatOutputs(withNames bool) string {
	ids := s.net.OutputIDs()
	values := s.net.Outputs()
	parts := make([]string, len(values))
	for i, v := range values {
		text := strconv.FormatFloat(v, 'g', -1, 64)
		if withNames {
			text = ids[i] + ":" + text
		}
		parts[i] = text
	}
	return strings.Join(parts, " ")
}

// parseVector parses a line of whitespace-separated floating-point numbers.
func parseVector(line string) ([]float64, error) {
	fields := strings.Fields(line)
	values := make([]float64, 0, len(fields))
	for _, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, errors.Wrap(err, "parse vector")
		}
		values = append(values, v)
	}
	return values, nil
}

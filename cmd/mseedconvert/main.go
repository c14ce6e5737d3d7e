// Command mseedconvert converts miniSEED formatted data: miniSEED version 2
// to 3, between data encodings, or to different record lengths. Extra
// headers can be edited with an RFC 7386 JSON Merge Patch applied to every
// record.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/mseed"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const version = "0.1.0"

type cliOptions struct {
	output        string
	forceRepack   bool
	recordLength  int
	encoding      int
	formatVersion int
	patchFile     string
	skipCRC       bool
	verbosity     int
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	opts := &cliOptions{}

	cmd := &cobra.Command{
		Use:     "mseedconvert [flags] <input file>",
		Short:   "Convert miniSEED formatted data",
		Version: version,
		Long: `Convert miniSEED formatted data, for example miniSEED version 2 to 3,
to other data encodings, or to different record lengths.

Each record is converted independently. This can lead to unfilled records
that contain padding depending on the conversion options.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, args[0], stdout)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, '-' for stdout (required)")
	cmd.Flags().BoolVarP(&opts.forceRepack, "force-repack", "f", false, "force full repack, do not use the verbatim shortcut")
	cmd.Flags().IntVarP(&opts.recordLength, "record-length", "R", 0, "maximum record length in bytes for packing")
	cmd.Flags().IntVarP(&opts.encoding, "encoding", "E", -1, "data encoding for packing (default: preserve)")
	cmd.Flags().IntVarP(&opts.formatVersion, "format-version", "F", 3, "output format version")
	cmd.Flags().StringVarP(&opts.patchFile, "extra-header-patch", "e", "", "file with an extra header JSON Merge Patch")
	cmd.Flags().BoolVar(&opts.skipCRC, "skip-crc", false, "do not validate CRCs of version 3 input records")
	cmd.Flags().CountVarP(&opts.verbosity, "verbose", "v", "be more verbose, repeatable")

	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func run(opts *cliOptions, input string, stdout io.Writer) error {
	logger, err := newLogger(opts.verbosity)
	if err != nil {
		return fmt.Errorf("cannot initialize logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	convOpts, err := conversionOptions(opts)
	if err != nil {
		return err
	}

	conv := mseed.NewConverter(convOpts)
	conv.Logger = logger
	conv.SkipCRC = opts.skipCRC

	if opts.patchFile != "" {
		patch, err := mseed.LoadHeaderPatch(opts.patchFile)
		if err != nil {
			return err
		}

		conv.Patch = patch
	}

	in, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("cannot open input file: %w", err)
	}
	defer in.Close()

	out, closeOut, err := openOutput(opts.output, stdout)
	if err != nil {
		return err
	}
	defer closeOut()

	if _, err := conv.Convert(in, out); err != nil {
		return err
	}

	return nil
}

// conversionOptions maps CLI flags onto conversion options, rejecting
// retired encodings and unsupported pack versions before any input is read.
func conversionOptions(opts *cliOptions) (mseed.Options, error) {
	if opts.encoding < -1 || opts.encoding > 127 {
		return mseed.Options{}, fmt.Errorf("invalid encoding value %d", opts.encoding)
	}

	conv := mseed.Options{
		Version:     opts.formatVersion,
		Encoding:    mseed.Encoding(opts.encoding),
		RecLen:      opts.recordLength,
		ForceRepack: opts.forceRepack,
	}

	if err := conv.Validate(); err != nil {
		return mseed.Options{}, err
	}

	return conv, nil
}

func openOutput(path string, stdout io.Writer) (io.Writer, func(), error) {
	if path == "-" {
		return stdout, func() {}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open output file: %w", err)
	}

	return f, func() { f.Close() }, nil
}

func newLogger(verbosity int) (*zap.Logger, error) {
	level := zapcore.WarnLevel
	switch {
	case verbosity >= 2:
		level = zapcore.DebugLevel
	case verbosity == 1:
		level = zapcore.InfoLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true

	return cfg.Build()
}

// aedat4to2 - convert AEDAT-4 recordings into jAER AEDAT-2.0 format
// Copyright (C) 2024, the aedat4to2 authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	arg "github.com/alexflint/go-arg"
	"github.com/gofrs/flock"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/davis-tools/aedat4to2/aedat2"
	"github.com/davis-tools/aedat4to2/convert"
	"github.com/davis-tools/aedat4to2/dv"
	"github.com/davis-tools/aedat4to2/dvstream"
)

const (
	outputExt = ".aedat2"
	rawExt    = ".dvraw"
)

var version = "<not set>"

type Args struct {
	Files      []string `arg:"positional" help:"input .aedat4 files to convert"`
	Input      string   `arg:"-i,--input" help:"single input .aedat4 file"`
	Output     string   `arg:"-o,--output" help:"output .aedat2 file name (single input only)"`
	ConfigFile string   `arg:"-c,--config" help:"path to configuration file"`
	Quiet      bool     `arg:"-q,--quiet" help:"only log warnings and errors"`
	Verbose    bool     `arg:"-v,--verbose" help:"make logging more verbose"`
	Overwrite  bool     `arg:"--overwrite" help:"overwrite existing output files"`
	NoIMU      bool     `arg:"--no-imu" help:"do not convert IMU samples"`
	NoFrames   bool     `arg:"--no-frames" help:"do not convert APS frames"`
	Exporter   string   `arg:"--exporter" help:"override the AEDAT-4 exporter binary"`
	Chip       string   `arg:"--chip" help:"override the AEChip identifier in the output header"`
	Timestamps bool     `arg:"-t,--timestamps" help:"include timestamps in log output"`
}

func (Args) Version() string {
	return version
}

func (Args) Description() string {
	return "Convert AEDAT-4 recordings into legacy jAER AEDAT-2.0 files."
}

func procArgs() Args {
	var args Args
	arg.MustParse(&args)
	return args
}

func main() {
	if err := runMain(); err != nil {
		logrus.Fatal(err)
	}
}

func runMain() error {
	args := procArgs()

	log := newLogger(args)
	log.Debugf("running version: %s", version)

	conf, err := loadConfig(args)
	if err != nil {
		return err
	}

	files, err := inputFiles(args)
	if err != nil {
		return err
	}

	exporter := dvstream.NewExporter(dvstream.WithBinary(conf.Exporter))
	conv := convert.NewConverter(log)
	conv.ChipName = conf.ChipName
	conv.SkipIMU = args.NoIMU
	conv.SkipFrames = args.NoFrames

	interactive := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	if !args.Quiet && interactive {
		conv.Progress = newProgressReporter()
	}

	// Per-file errors are logged and that file skipped; the batch
	// carries on with the remaining files.
	var results []fileResult
	for _, file := range files {
		stats, err := processFile(log, conv, exporter, conf, args, file)
		if err != nil {
			log.Errorf("%s: %v", file, err)
			continue
		}
		results = append(results, fileResult{file: file, stats: stats})
	}

	if len(results) > 1 && interactive && !args.Quiet {
		os.Stdout.WriteString(renderSummary(results) + "\n")
	}
	return nil
}

// inputFiles resolves the files to convert. -i names exactly one
// input and overrides any positional list.
func inputFiles(args Args) ([]string, error) {
	files := args.Files
	if args.Input != "" {
		files = []string{args.Input}
	}
	if len(files) == 0 {
		return nil, errors.New("no input files given (see --help)")
	}
	if args.Output != "" && len(files) != 1 {
		return nil, errors.New("-o is only valid with a single input file")
	}
	return files, nil
}

func newLogger(args Args) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: !args.Timestamps,
		FullTimestamp:    args.Timestamps,
	})
	switch {
	case args.Verbose:
		log.SetLevel(logrus.DebugLevel)
	case args.Quiet:
		log.SetLevel(logrus.WarnLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}

func loadConfig(args Args) (*Config, error) {
	defaults := defaultConfig
	conf := &defaults
	if args.ConfigFile != "" {
		var err error
		conf, err = ParseConfigFile(args.ConfigFile)
		if err != nil {
			return nil, errors.Wrap(err, "configuration")
		}
	}

	// Flags win over the config file.
	if args.Chip != "" {
		conf.ChipName = args.Chip
	}
	if args.Exporter != "" {
		conf.Exporter = args.Exporter
	}
	if args.Overwrite {
		conf.Overwrite = true
	}
	return conf, conf.Validate()
}

func processFile(log *logrus.Logger, conv *convert.Converter, exporter *dvstream.Exporter, conf *Config, args Args, file string) (*convert.Stats, error) {
	if _, err := os.Stat(file); err != nil {
		return nil, errors.New("does not exist or is not readable")
	}
	if ext := filepath.Ext(file); ext == outputExt || ext == ".aedat" {
		return nil, errors.New("already an AEDAT-2.0 file, not valid as input")
	}

	outPath := args.Output
	if outPath == "" {
		outPath = deriveOutputPath(conf.OutputDir, file)
	} else if ext := filepath.Ext(outPath); ext != ".aedat" && ext != outputExt {
		log.Warnf("output file %s does not have .aedat or .aedat2 extension; are you sure this is what you want?", outPath)
	}

	if _, err := os.Stat(outPath); err == nil {
		if !conf.Overwrite {
			return nil, errors.Errorf("%s exists, will not overwrite (use --overwrite)", outPath)
		}
		log.Infof("overwriting %s", outPath)
	}

	// A sidecar lock keeps two converter instances from writing the
	// same output at once.
	lock := flock.New(outPath + ".lock")
	locked, err := lock.TryLock()
	if err == nil && !locked {
		err = errors.New("already locked")
	}
	if err != nil {
		return nil, errors.Wrapf(err, "cannot lock %s for output; maybe another conversion is running or it is open in jAER", outPath)
	}
	defer func() {
		lock.Unlock()
		os.Remove(lock.Path())
	}()

	log.Debugf("loading %s", file)
	rec, err := loadRecording(exporter, file)
	if err != nil {
		return nil, err
	}

	fw, err := aedat2.NewFileWriter(outPath)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open %s for output; maybe it is open in jAER", outPath)
	}
	defer fw.Close()

	stats, err := conv.Convert(rec, fw)
	if err != nil {
		return nil, err
	}
	if err := fw.Finalize(); err != nil {
		return nil, err
	}

	log.Infof("wrote %d events to %s", stats.WordPairs, outPath)
	log.Debugf("%s: %d DVS events, %d IMU samples, %d frames over %s (DVS %.1f kHz, IMU %.1f kHz, frames %.1f Hz)",
		file, stats.DVSEvents, stats.IMUSamples, stats.Frames, stats.Duration(),
		stats.DVSRateKHz, stats.IMURateKHz, stats.FrameRateHz)
	return stats, nil
}

func loadRecording(exporter *dvstream.Exporter, file string) (*dv.Recording, error) {
	if filepath.Ext(file) == rawExt {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return dvstream.NewReader(f).ReadRecording(file)
	}
	return exporter.Export(context.Background(), file)
}

// deriveOutputPath places <stem>.aedat2 beside the input, or in
// outputDir when configured.
func deriveOutputPath(outputDir, file string) string {
	stem := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	dir := outputDir
	if dir == "" {
		dir = filepath.Dir(file)
	}
	return filepath.Join(dir, stem+outputExt)
}

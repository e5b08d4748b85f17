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

// aedat2-info prints a summary of one or more AEDAT-2.0 files: header
// fields, word counts per event type and the recording time span.
package main

import (
	"io"
	"os"
	"time"

	arg "github.com/alexflint/go-arg"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/davis-tools/aedat4to2/aedat2"
)

var version = "<not set>"

type Args struct {
	Files []string `arg:"positional,required" help:".aedat2 files to inspect"`
}

func (Args) Version() string {
	return version
}

func (Args) Description() string {
	return "Show summary information for AEDAT-2.0 files."
}

type fileInfo struct {
	file       string
	chip       string
	dvs        int
	imuSamples int
	aps        int
	durationUS int64
}

func main() {
	if err := runMain(); err != nil {
		logrus.Fatal(err)
	}
}

func runMain() error {
	var args Args
	arg.MustParse(&args)

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	var infos []fileInfo
	for _, file := range args.Files {
		info, err := inspect(file)
		if err != nil {
			log.Errorf("%s: %v", file, err)
			continue
		}
		infos = append(infos, info)
	}
	if len(infos) == 0 {
		return errors.New("no readable files")
	}

	os.Stdout.WriteString(render(infos) + "\n")
	return nil
}

func inspect(file string) (fileInfo, error) {
	f, err := os.Open(file)
	if err != nil {
		return fileInfo{}, err
	}
	defer f.Close()

	r := aedat2.NewReader(f)
	header, err := r.ReadHeader()
	if err != nil {
		return fileInfo{}, err
	}

	info := fileInfo{file: file, chip: header.Chip}
	var imuWords int
	var first, last int64
	n := 0
	for {
		word, err := r.ReadWord()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fileInfo{}, err
		}
		switch aedat2.TypeOf(word.Address) {
		case aedat2.WordDVS:
			info.dvs++
		case aedat2.WordIMU:
			imuWords++
		case aedat2.WordAPS:
			info.aps++
		}
		if n == 0 {
			first = word.TimeUS
		}
		last = word.TimeUS
		n++
	}
	info.imuSamples = imuWords / aedat2.NumIMUChannels
	info.durationUS = last - first
	return info, nil
}

func render(infos []fileInfo) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"File", "Chip", "DVS", "IMU", "APS words", "Duration"})

	for _, info := range infos {
		tw.AppendRow(table.Row{
			info.file,
			info.chip,
			info.dvs,
			info.imuSamples,
			info.aps,
			(time.Duration(info.durationUS) * time.Microsecond).Round(time.Millisecond).String(),
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	return tw.Render()
}

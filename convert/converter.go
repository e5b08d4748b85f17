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

// Package convert turns a decoded AEDAT-4 recording into an AEDAT-2.0
// event stream: per-record address encoding, a k-way timestamp merge
// with atomic groups, and the header/word serialisation.
package convert

import (
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/davis-tools/aedat4to2/aedat2"
	"github.com/davis-tools/aedat4to2/dv"
	"github.com/davis-tools/aedat4to2/loglimiter"
)

// DefaultChipName identifies the sensor in the output header when no
// override is configured.
const DefaultChipName = "DAVI346"

// The IMU scale warning is per run, not per file: the dedup window
// must outlast any batch.
const scaleWarnInterval = 1000 * time.Hour

// Stage identifies a conversion phase for progress reporting.
type Stage string

const (
	StageFrames Stage = "frames"
	StageMerge  Stage = "merge"
)

// NewConverter returns a Converter with default settings, logging
// through log.
func NewConverter(log *logrus.Logger) *Converter {
	return &Converter{
		ChipName:     DefaultChipName,
		log:          log,
		scaleWarning: loglimiter.New(log, scaleWarnInterval),
	}
}

// Converter runs the encode-merge-write pipeline for one recording at
// a time. Each call to Convert starts from fresh state; a Converter
// may be reused across the files of a batch.
type Converter struct {
	ChipName   string
	SkipIMU    bool
	SkipFrames bool

	// Progress, when set, is called with the number of units done so
	// far and the total for the stage.
	Progress func(stage Stage, done, total int64)

	log          *logrus.Logger
	scaleWarning *loglimiter.Limiter
}

// Convert encodes rec and writes the complete AEDAT-2.0 stream to w.
// Nothing is written until the merge has produced at least one word,
// so a failed conversion leaves no partial header behind.
func (c *Converter) Convert(rec *dv.Recording, w io.Writer) (*Stats, error) {
	if rec.Version != dv.ExpectedVersion {
		return nil, UnsupportedVersionError{Version: rec.Version}
	}
	if err := rec.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid recording")
	}

	c.log.Debugf("sensor size width=%d height=%d", rec.Width, rec.Height)

	dvs := encodeDVS(&rec.Events, rec.Height)
	c.log.Debugf("%d DVS events", len(dvs))

	var imuGroups []wordGroup
	if !c.SkipIMU && len(rec.IMU) > 0 {
		c.scaleWarning.Warn("IMU samples found: converting assumes full scale 2000 deg/s rotation and 8g acceleration")
		var err error
		imuGroups, err = encodeIMUGroups(rec.IMU)
		if err != nil {
			return nil, err
		}
		c.log.Debugf("%d IMU samples", len(imuGroups))
	}

	var frameGroups []wordGroup
	if !c.SkipFrames && len(rec.Frames) > 0 {
		total := int64(len(rec.Frames))
		var err error
		frameGroups, err = encodeFrameGroups(rec.Frames, func(done int) {
			c.progress(StageFrames, int64(done), total)
		})
		if err != nil {
			return nil, err
		}
		c.log.Debugf("%d frames", len(frameGroups))
	}

	totalWords := int64(len(dvs) + groupWordCount(imuGroups) + groupWordCount(frameGroups))
	words := mergeStreams(dvs, imuGroups, frameGroups, func(n int) {
		c.progress(StageMerge, int64(n), totalWords)
	})
	if len(words) == 0 {
		return nil, ErrEmptyRecording
	}

	aw := aedat2.NewWriter(w)
	if err := aw.WriteHeader(c.ChipName); err != nil {
		return nil, errors.Wrap(err, "write header")
	}
	if err := aw.WriteWords(words); err != nil {
		return nil, errors.Wrap(err, "write words")
	}

	return newStats(len(dvs), len(imuGroups), len(frameGroups), words, aw.BytesWritten()), nil
}

func (c *Converter) progress(stage Stage, done, total int64) {
	if c.Progress != nil {
		c.Progress(stage, done, total)
	}
}

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

package loglimiter

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// New returns a new Limiter logging through log with the configured
// minimum interval between repeats of the same message.
func New(log *logrus.Logger, interval time.Duration) *Limiter {
	return &Limiter{
		log:      log,
		interval: interval,
		nowFunc:  time.Now,
	}
}

// Limiter suppresses a log message if the same message was already
// logged within some time interval. Used for per-record warnings that
// would otherwise repeat for every file in a batch.
type Limiter struct {
	log           *logrus.Logger
	interval      time.Duration
	nowFunc       func() time.Time
	previousEntry string
	previousTime  time.Time
}

func (limiter *Limiter) Warnf(format string, v ...interface{}) {
	limiter.Warn(fmt.Sprintf(format, v...))
}

func (limiter *Limiter) Warn(s string) {
	now := limiter.nowFunc()
	if now.Sub(limiter.previousTime) < limiter.interval && s == limiter.previousEntry {
		return
	}

	limiter.log.Warn(s)
	limiter.previousTime = now
	limiter.previousEntry = s
}

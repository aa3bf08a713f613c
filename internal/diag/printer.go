// Copyright ©2026 The Mehrotra IPM Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diag provides the Mehrotra driver's run-progress printer.
package diag

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Printer writes one column-format line per outer iteration to Writer, the
// way optimize/printer.go writes optimizer progress: by default to Stdout,
// gated by a heading interval and a minimum time between value lines.
type Printer struct {
	Writer          io.Writer
	HeadingInterval int
	ValueInterval   time.Duration

	lastHeading int
	lastValue   time.Time
}

// NewPrinter returns a Printer writing to os.Stdout with the same defaults
// optimize/printer.go uses.
func NewPrinter() *Printer {
	return &Printer{
		Writer:          os.Stdout,
		HeadingInterval: 30,
		ValueInterval:   500 * time.Millisecond,
	}
}

const nCols = 6

var headings = [nCols]string{"Iter", "Mu", "Sigma", "AlphaPri", "AlphaDual", "CompErr"}

// Init resets the printer's heading/value timers so the first Record call
// always prints both, exactly as optimize/printer.go's Init does.
func (p *Printer) Init() {
	p.lastHeading = p.HeadingInterval + 1
	p.lastValue = time.Now().Add(-p.ValueInterval)
}

// Record is called once per outer iteration, and prints a value line (and,
// periodically, a heading line) describing the iterate's progress.
func (p *Printer) Record(iter int, mu, sigma, alphaPri, alphaDual, compErr float64) error {
	var values [nCols]string
	values[0] = strconv.Itoa(iter)
	values[1] = fmt.Sprintf("%.6g", mu)
	values[2] = fmt.Sprintf("%.6g", sigma)
	values[3] = fmt.Sprintf("%.6g", alphaPri)
	values[4] = fmt.Sprintf("%.6g", alphaDual)
	values[5] = fmt.Sprintf("%.6g", compErr)

	var widths [nCols]int
	for i := 0; i < nCols; i++ {
		widths[i] = len(headings[i])
		if v := len(values[i]); v > widths[i] {
			widths[i] = v
		}
	}

	if p.lastHeading >= p.HeadingInterval {
		p.lastHeading = 0
		if _, err := p.Writer.Write([]byte("\n" + buildRow(headings, widths))); err != nil {
			return err
		}
	}

	if time.Since(p.lastValue) > p.ValueInterval {
		p.lastHeading++
		p.lastValue = time.Now()
		if _, err := p.Writer.Write([]byte(buildRow(values, widths))); err != nil {
			return err
		}
	}
	return nil
}

func padString(s string, l int) string {
	if len(s) >= l {
		return s
	}
	return s + strings.Repeat(" ", l-len(s))
}

func buildRow(values [nCols]string, widths [nCols]int) string {
	var b strings.Builder
	for i := 0; i < nCols; i++ {
		b.WriteString(padString(values[i], widths[i]))
		if i != nCols-1 {
			b.WriteByte('\t')
		}
	}
	b.WriteByte('\n')
	return b.String()
}

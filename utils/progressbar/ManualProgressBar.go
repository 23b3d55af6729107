// Package progressbar implements functionality of printing a progress
// bar to a terminal window
package progressbar

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/samuelfneumann/deepracerenv/utils/floatutils"
)

// ManualProgressBar implement progress bar functionality that must
// be manually managed. That is, the Display() function must be called
// whenever an updated progress bar should be printed.
//
// ManualProgressBar does not use concurrency.
type ManualProgressBar struct {
	out             io.Writer
	width           int
	maxProgress     float64
	currentProgress float64
	bar             strings.Builder
	startTime       time.Time
}

// NewManualProgressBar returns a new ManualProgressBar that is width
// characters wide, prints to out, and is full after max calls to
// Increment
func NewManualProgressBar(out io.Writer, width, max int) *ManualProgressBar {
	if width < 0 {
		panic(fmt.Sprintf("newManualProgressBar: width must be "+
			"non-negative but got %v", width))
	}
	return &ManualProgressBar{
		out:             out,
		width:           width,
		maxProgress:     float64(max),
		currentProgress: 0,
		startTime:       time.Now(),
	}
}

// Increment increments the interal progress counter. Each time an
// iteration is performed, Increment should be called.
func (p *ManualProgressBar) Increment() {
	if p.currentProgress < p.maxProgress {
		p.currentProgress++
	}
}

// Fraction returns the fraction of the progress bar that is full
func (p *ManualProgressBar) Fraction() float64 {
	if p.maxProgress <= 0 {
		return 1
	}
	return floatutils.Clip(p.currentProgress/p.maxProgress, 0, 1)
}

// String returns the progress bar as it would be displayed
func (p *ManualProgressBar) String() string {
	p.bar.Reset()
	p.bar.WriteString("|")

	filled := int(p.Fraction() * float64(p.width))
	p.bar.WriteString(strings.Repeat("█", filled))
	p.bar.WriteString(strings.Repeat(" ", p.width-filled))

	fmt.Fprintf(&p.bar, "| [%.2f%% | elapsed: %v]", p.Fraction()*100,
		time.Since(p.startTime).Truncate(time.Second))

	return p.bar.String()
}

// Display overwrites the current line of the output with the
// progress bar
func (p *ManualProgressBar) Display() error {
	_, err := fmt.Fprintf(p.out, "\n\033[1A\033[K%v", p.String())
	return err
}

// Close moves the output past the progress bar
func (p *ManualProgressBar) Close() error {
	_, err := fmt.Fprintln(p.out)
	return err
}

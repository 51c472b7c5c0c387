package pipeline

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// newBar returns a progress bar writing to stderr, or nil when progress
// display is disabled or stderr is not a terminal.
func newBar(enabled bool, total int, description string) *progressbar.ProgressBar {
	if !enabled || total <= 0 || !isatty.IsTerminal(os.Stderr.Fd()) {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func barSet(bar *progressbar.ProgressBar, done int) {
	if bar != nil {
		_ = bar.Set(done)
	}
}

func barFinish(bar *progressbar.ProgressBar) {
	if bar != nil {
		_ = bar.Finish()
	}
}

// Command formrestore writes a saved form submission back onto an HTML page,
// either offline against a saved file or in a live headless Chrome tab.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
)

func main() {
	app := newApp()
	if err := app.root().Execute(); err != nil {
		if app.logger != nil {
			app.logger.Error("command failed", zap.Error(err))
			_ = app.logger.Sync()
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

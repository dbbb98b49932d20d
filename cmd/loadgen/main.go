package main

import (
	"os"

	"github.com/timetrial/timetrial/internal/loadgen"
)

func main() {
	if err := loadgen.NewApp().Run(os.Args); err != nil {
		os.Stderr.WriteString("loadgen failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}

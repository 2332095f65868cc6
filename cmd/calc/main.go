// Command calc drives a local calculator session from the command line.
//
//	calc 1 2 + 3 =
//	echo "9 √ ± =" | calc --steps
package main

import (
	"os"

	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := newRootCmd(logger).Execute(); err != nil {
		os.Exit(1)
	}
}

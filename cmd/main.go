package main

import (
	"fmt"
	"os"

	"github.com/demole/governor/cmd/governor"
)

func main() {
	rootCmd := governor.BuildGovernorCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// Command voyage is a command-line interface for the ship-voyage routing
// engine.
package main

import (
	"fmt"
	"os"

	"github.com/oceanrouting/voyage/internal/cmd"
)

func main() {
	if err := cmd.InitializeConfig().Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}

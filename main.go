// Command shelf tracks collections of movies, books, games and anything else
// worth remembering. cmd/shelf builds the same program.
package main

import (
	"os"

	"github.com/idilsaglam/shelf/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}

// Command dialoglsp validates and previews localized override-dialog
// templates.
package main

import (
	"os"

	"github.com/abiiranathan/dialog-template-lsp/analyzer/cli"
)

func main() {
	os.Exit(cli.Execute())
}

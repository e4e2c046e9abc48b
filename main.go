package main

import (
	"fmt"
	"os"

	"github.com/Fabio-ink/sistema-financeiro-pessoal/cmd/export"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/cmd/importer"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/cmd/root"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/cmd/serve"
)

func init() {
	root.Cmd.AddCommand(importer.Cmd)
	root.Cmd.AddCommand(export.Cmd)
	root.Cmd.AddCommand(serve.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

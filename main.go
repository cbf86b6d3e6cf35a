package main

import (
	"fmt"
	"os"

	"receiptbook/cmd/billing"
	exportcmd "receiptbook/cmd/export"
	"receiptbook/cmd/files"
	"receiptbook/cmd/history"
	"receiptbook/cmd/root"
	"receiptbook/cmd/tabs"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(tabs.Cmd)
	root.Cmd.AddCommand(billing.Cmd)
	root.Cmd.AddCommand(history.Cmd)
	root.Cmd.AddCommand(files.Cmd)
	root.Cmd.AddCommand(exportcmd.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

package main

import "github.com/soverxos/swiftdevbot-deploy/cmd/sdb-install-local/cmd"

func main() {
	cmd.Execute()
}

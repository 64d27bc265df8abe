package main

import "github.com/soverxos/swiftdevbot-deploy/cmd/sdb-install/cmd"

func main() {
	cmd.Execute()
}

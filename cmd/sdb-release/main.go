package main

import "github.com/soverxos/swiftdevbot-deploy/cmd/sdb-release/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/skywatch-ops/skywatch/cmd/skywatch/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/sentinai-labs/server/cmd/server/cmd"

func main() {
	cmd.Execute()
}

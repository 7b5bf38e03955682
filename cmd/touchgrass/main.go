package main

import "github.com/touchgrass/cli/internal/cmd"

func main() {
	cmd.Execute()
}

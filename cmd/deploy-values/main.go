package main

import "github.com/cameronsjo/deploy-values/internal/cmd"

func main() {
	cmd.Execute()
}

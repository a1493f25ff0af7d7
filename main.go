package main

import (
	"os"

	"github.com/scan-io-git/llm-guidance/cmd"
)

func main() {
	code := cmd.Execute()
	os.Exit(code)
}

package main

import (
	"github.com/chattyhq/chatty/cmd"
	"github.com/chattyhq/chatty/internal/logger"
)

func main() {
	defer logger.HandlePanic()
	cmd.Execute()
}

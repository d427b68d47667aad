package main

import (
	"github.com/ColonelBlimp/lasertag/cmd"
	"github.com/ColonelBlimp/lasertag/internal/recovery"
)

func main() {
	defer recovery.HandlePanic()
	cmd.Execute()
}

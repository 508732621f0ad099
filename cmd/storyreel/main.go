package main

import (
	"github.com/ivlev/storyreel/internal/command"
	"github.com/ivlev/storyreel/internal/system"
)

func main() {
	system.InitResourceLimits()
	command.Execute()
}

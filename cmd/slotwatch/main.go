package main

import "github.com/soccarena/slotwatch/internal/cli"

func main() {
	cli.Execute()
}

package main

import "github.com/eaglezone/eaglezone-bot/internal/cli"

func main() {
	cli.Execute()
}

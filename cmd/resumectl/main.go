package main

import "resume-formatter/internal/cli"

func main() {
	cli.Execute()
}

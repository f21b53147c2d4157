package main

import "smartcampus/internal/cli"

func main() {
	cli.Execute()
}

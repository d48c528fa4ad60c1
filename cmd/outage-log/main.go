package main

import "github.com/pfrederiksen/outage-log/internal/cli"

func main() {
	cli.Execute()
}

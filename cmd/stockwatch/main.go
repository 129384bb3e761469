package main

import "stock-signal-alerts/internal/cli"

func main() {
	cli.Execute()
}

package main

import "github.com/mpapenbr/pitstop-service-go/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/driveguard/driveguard/cmd"

func main() {
	cmd.Execute()
}

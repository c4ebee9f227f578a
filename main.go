package main

import "mapcycle-sync/cmd"

func main() {
	cmd.Execute()
}

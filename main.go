package main

import "josephlewis.net/osh/cmd"

func main() {
	cmd.Execute()
}

package main

import "oppgave-sync/cmd"

func main() {
	cmd.Execute()
}

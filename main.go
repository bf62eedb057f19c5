package main

import "github.com/ValentinKolb/hivemeta/cmd"

func main() {
	cmd.Execute()
}

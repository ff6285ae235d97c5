package main

import "github.com/Mohsinsiddi/urwacli/cmd"

func main() {
	cmd.Execute()
}

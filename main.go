package main

import "github.com/kirychukyurii/checknotifier/cmd"

func main() {
	cmd.Execute()
}

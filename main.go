package main

import "github.com/Norgate-AV/wcc/cmd"

func main() {
	cmd.Execute()
}

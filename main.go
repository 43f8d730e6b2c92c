package main

import "github.com/haingladys/jsdc-accounting/cmd"

func main() {
	cmd.Execute()
}

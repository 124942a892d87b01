package main

import (
	_ "shopcrawl.GO/custom"

	"shopcrawl.GO/cmd"
	"shopcrawl.GO/config"
)

func main() {
	config.LoadEnv()
	cmd.Execute()
}

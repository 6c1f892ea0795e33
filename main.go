package main

import (
	"github.com/ecomwatch/restock/cmd"
)

func main() {
	cmd.Execute()
}

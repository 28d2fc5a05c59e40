package main

import (
	"github.com/userdash/userdash/internal/cli"
)

func main() {
	cli.Execute()
}

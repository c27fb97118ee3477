package main

import (
	"time"

	"github.com/factupro/factupro/internal/cli"
)

func init() {
	time.Local = time.UTC
}

func main() {
	cli.Execute()
}

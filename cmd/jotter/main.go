package main

import (
	"context"
	"log"
	"os"

	"github.com/jotter/jotter/internal/cli"
)

func main() {
	if err := cli.Main(context.Background(), os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

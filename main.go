package main

import (
	"log"

	"github.com/pkondratev/contrib-compass/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

package main

import (
	"log"

	"github.com/ryandol1/qrserver/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
}

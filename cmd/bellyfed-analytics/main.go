package main

import (
	"log"

	"github.com/ming0627/bellyfed-new-sub002/internal/application/startup"
)

func main() {
	if err := startup.Initialize(); err != nil {
		log.Fatalf("bellyfed-analytics: %v", err)
	}
}

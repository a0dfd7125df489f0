package main

import (
	"log"

	"voxpage/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		log.Fatalf("❌ voxpage failed to start: %v", err)
	}
	if err := a.Run(); err != nil {
		log.Fatalf("❌ voxpage exited with error: %v", err)
	}
}

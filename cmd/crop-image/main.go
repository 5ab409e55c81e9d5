package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/cassiecay/portfolio-ops/internal/images"
)

func main() {
	size := flag.Int("size", 500, "output square size in pixels")
	quality := flag.Int("quality", 90, "JPEG quality")
	flag.Parse()

	if flag.NArg() != 2 {
		log.Fatal("Usage: crop-image [-size N] [-quality N] <input> <output>")
	}
	input, output := flag.Arg(0), flag.Arg(1)

	if err := images.CoverCrop(input, output, *size, *quality); err != nil {
		log.Fatalf("Crop failed: %v", err)
	}
	fmt.Printf("Cropped %s -> %s\n", input, output)
}

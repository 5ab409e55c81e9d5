package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/cassiecay/portfolio-ops/internal/htmlcheck"
)

func main() {
	root := flag.String("root", ".", "project root directory")
	flag.Parse()

	files := flag.Args()
	if len(files) == 0 {
		files = []string{"index.html"}
	}

	checker := &htmlcheck.Checker{Root: *root}
	broken := 0
	for _, file := range files {
		problems, err := checker.CheckFile(file)
		if err != nil {
			log.Fatalf("Check failed: %v", err)
		}
		for _, p := range problems {
			fmt.Printf("%s: %s\n", file, p)
		}
		broken += len(problems)
	}

	if broken > 0 {
		log.Fatalf("%d broken references", broken)
	}
	fmt.Println("All references resolve")
}

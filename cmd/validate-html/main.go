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
	total := 0
	for _, file := range files {
		issues, err := checker.ValidateFile(file)
		if err != nil {
			log.Fatalf("Validation failed: %v", err)
		}
		for _, issue := range issues {
			fmt.Printf("%s: %s\n", file, issue)
		}
		total += len(issues)
	}

	if total > 0 {
		log.Fatalf("%d structural issues", total)
	}
	fmt.Println("HTML validation passed")
}

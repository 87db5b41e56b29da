package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/fitglue/coursemap/pkg/domain/file_generators"
	"github.com/fitglue/coursemap/pkg/domain/gpx_parser"
)

func main() {
	inputFile := flag.String("input", "", "Path to input GPX file")
	outputFile := flag.String("output", "output.fit", "Path to output FIT file")
	flag.Parse()

	if *inputFile == "" {
		flag.Usage()
		os.Exit(1)
	}

	t, err := gpx_parser.ParseGPXFile(*inputFile)
	if err != nil {
		log.Fatalf("Failed to parse GPX file: %v", err)
	}
	fmt.Printf("Extracted %d track points (%s)\n", t.Len(), t.Session.Sport)

	fitData, err := file_generators.GenerateActivityFit(t)
	if err != nil {
		log.Fatalf("Failed to generate FIT file: %v", err)
	}

	if err := os.WriteFile(*outputFile, fitData, 0644); err != nil {
		log.Fatalf("Failed to write output file: %v", err)
	}

	fmt.Printf("Successfully wrote FIT file to %s (%d bytes)\n", *outputFile, len(fitData))
}

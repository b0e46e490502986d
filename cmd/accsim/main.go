package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/littlecomp/accsim/emulator"
)

func main() {
	var input string
	var output string
	var listing bool
	var verbose bool

	flag.StringVar(&input, "i", "-", "Tape input")
	flag.StringVar(&output, "o", "-", "Tape output")
	flag.BoolVar(&listing, "l", false, "Print the program listing, do not execute")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("usage: %v [options] <source.acc>", os.Args[0])
	}
	source := flag.Arg(0)

	srcf, err := os.Open(source)
	if err != nil {
		log.Fatalf("%v: %v", source, err)
	}
	defer srcf.Close()

	emu := emulator.NewEmulator()
	emu.Verbose = verbose

	if input == "-" {
		emu.Tape.Input = os.Stdin
	} else {
		inf, err := os.Open(input)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		defer inf.Close()
		emu.Tape.Input = inf
	}

	if output == "-" {
		emu.Tape.Output = os.Stdout
	} else {
		ouf, err := os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer ouf.Close()
		emu.Tape.Output = ouf
	}

	err = emu.Load(srcf)
	if err != nil {
		log.Fatalf("%v: %v", source, err)
	}

	for _, warning := range emu.Assembler.Warnings {
		log.Printf("%v: line %d: %v", source, warning.LineNo, warning.Text)
	}

	if listing {
		fmt.Print(emu.Program.Listing())
		return
	}

	err = emu.Run()
	if err != nil {
		log.Fatal(err)
	}
}

// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/ezrec/periphsim/layout"
	"github.com/ezrec/periphsim/periph"
)

func main() {
	var layoutFile string
	var input string
	var defines bool
	var verbose bool

	flag.StringVar(&layoutFile, "l", "", ".star layout file to load")
	flag.StringVar(&input, "i", "-", "Access trace input")
	flag.BoolVar(&defines, "D", false, "Dump layout defines, do not execute")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(layoutFile) == 0 {
		log.Fatalf("%v: No layout file (-l) given", os.Args[0])
	}

	lay, err := layout.Load(layoutFile)
	if err != nil {
		log.Fatalf("%v: %v", layoutFile, err)
	}

	bus, err := lay.Bus()
	if err != nil {
		log.Fatalf("%v: %v", layoutFile, err)
	}
	bus.Verbose = verbose
	for p := range bus.Peripherals() {
		p.Verbose = verbose
	}

	if defines {
		for key, value := range bus.Defines() {
			fmt.Printf("%v = %v\n", key, value)
		}
		return
	}

	var trace io.Reader
	if input == "-" {
		trace = os.Stdin
	} else {
		inf, err := os.Open(input)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		defer inf.Close()
		trace = inf
	}

	err = run(bus, lay, trace, os.Stdout)
	if err != nil {
		log.Fatal(err)
	}
}

// run executes an access trace against the bus. Commands:
//
//	read ADDR|NAME [SIZE]
//	write ADDR|NAME [SIZE] VALUE
//	reset
//	dump
//
// ADDR is a bus address; NAME is "peripheral.register". SIZE defaults to
// the register width for named accesses, and to 4 for addressed ones.
func run(bus *periph.Bus, lay *layout.Layout, trace io.Reader, out io.Writer) (err error) {
	scanner := bufio.NewScanner(trace)
	lineno := 0

	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		words := strings.Fields(line)
		switch words[0] {
		case "reset":
			bus.Reset()
		case "dump":
			for p := range bus.Peripherals() {
				for reg := range p.Registers() {
					fmt.Fprintf(out, "%v.%v = 0x%0*x\n",
						p.Name, reg.Name, int(reg.SizeBits/4), reg.Value())
				}
			}
		case "read":
			var addr uint64
			var size uint
			addr, size, err = resolve(bus, lay, words[1:])
			if err != nil {
				return fmt.Errorf("line %v: %w", lineno, err)
			}
			value := bus.Read(addr, size)
			fmt.Fprintf(out, "read 0x%08x %v -> 0x%0*x\n", addr, size, int(size*2), value)
		case "write":
			if len(words) < 3 {
				return fmt.Errorf("line %v: write needs a value", lineno)
			}
			var addr uint64
			var size uint
			addr, size, err = resolve(bus, lay, words[1:len(words)-1])
			if err != nil {
				return fmt.Errorf("line %v: %w", lineno, err)
			}
			var value uint64
			value, err = strconv.ParseUint(words[len(words)-1], 0, 64)
			if err != nil {
				return fmt.Errorf("line %v: %w", lineno, err)
			}
			bus.Write(addr, size, value)
		default:
			return fmt.Errorf("line %v: unknown command %v", lineno, words[0])
		}
	}

	return scanner.Err()
}

// resolve decodes an ADDR|NAME plus optional SIZE argument pair.
func resolve(bus *periph.Bus, lay *layout.Layout, words []string) (addr uint64, size uint, err error) {
	if len(words) == 0 {
		err = fmt.Errorf("missing address")
		return
	}

	size = 4
	addr, err = strconv.ParseUint(words[0], 0, 64)
	if err != nil {
		// Not an address; resolve "peripheral.register".
		pname, rname, ok := strings.Cut(words[0], ".")
		if !ok {
			err = fmt.Errorf("'%v' is not an address or peripheral.register", words[0])
			return
		}
		p, ok := lay.Lookup(pname)
		if !ok {
			err = fmt.Errorf("peripheral %v missing", pname)
			return
		}
		reg, ok := p.Lookup(rname)
		if !ok {
			err = fmt.Errorf("register %v.%v missing", pname, rname)
			return
		}
		addr = p.MmioBase + uint64(reg.Offset)
		size = reg.SizeBits / 8
		err = nil
	}

	if len(words) > 1 {
		var parsed uint64
		parsed, err = strconv.ParseUint(words[1], 0, 32)
		if err != nil {
			return
		}
		size = uint(parsed)
	}

	return
}

package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/zephyrtronium/formula"
	"github.com/zephyrtronium/formula/internal/render"
)

func main() {
	log.SetFlags(0)
	var (
		inname, verb string
		nl, echo     bool
		prec, places int
	)
	flag.StringVar(&inname, "in", "", "input file (default stdin if no args given)")
	flag.StringVar(&verb, "fmt", "%g", "result formatting string")
	flag.IntVar(&prec, "p", 0, "precision of calculations in bits (0 for float64)")
	flag.IntVar(&places, "round", -1, "round results to this many decimal places (negative to disable)")
	flag.BoolVar(&nl, "n", false, "evaluate separate input lines as separate formulas")
	flag.BoolVar(&echo, "echo", false, "print parse trees")
	flag.Parse()
	if prec < 0 {
		log.Fatalf("precision (%d) must not be negative", prec)
	}

	var srcs []string
	f, err := infile(inname, flag.NArg() == 0)
	if err != nil {
		log.Fatal(err)
	}
	if f != nil {
		s, err := read(f, nl)
		if err != nil {
			log.Fatal(err)
		}
		srcs = append(srcs, s...)
	}
	srcs = append(srcs, flag.Args()...)

	ev := formula.NewEvaluator(formula.Prec(uint(prec)))
	verb += "\n"
	failed := false
	for _, src := range srcs {
		a, err := formula.ParseString(src)
		if err != nil {
			fmt.Println(err)
			failed = true
			continue
		}
		if echo {
			fmt.Printf("%v : ", a)
		}
		if prec > 0 {
			r, err := ev.EvalBig(a)
			switch {
			case err != nil:
				fmt.Println(err)
				failed = true
			case places >= 0:
				fmt.Println(render.FixedBig(r, int32(places)))
			default:
				fmt.Printf(verb, r)
			}
			continue
		}
		r, err := ev.Eval(a)
		switch {
		case err != nil:
			fmt.Println(err)
			failed = true
		case places >= 0:
			fmt.Println(render.Fixed(r, int32(places)))
		default:
			fmt.Printf(verb, r)
		}
	}
	if failed {
		os.Exit(1)
	}
}

func infile(inname string, std bool) (io.Reader, error) {
	var f *os.File
	switch {
	case inname != "" && inname != "-":
		in, err := os.Open(inname)
		if err != nil {
			return nil, err
		}
		f = in
	case inname == "-", std:
		f = os.Stdin
	}
	if f == nil {
		return nil, nil
	}
	return bufio.NewReader(f), nil
}

// read collects formulas from r, either one per non-blank line or the whole
// input as one.
func read(r io.Reader, nl bool) ([]string, error) {
	if !nl {
		b, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(string(b)) == "" {
			return nil, nil
		}
		return []string{string(b)}, nil
	}
	var srcs []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) != "" {
			srcs = append(srcs, sc.Text())
		}
	}
	return srcs, sc.Err()
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		// An interrupt already announced itself on the terminal; only
		// real failures deserve an error line.
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "postshow:", err)
		}
		os.Exit(1)
	}
}

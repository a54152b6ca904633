// Command packtool inspects and builds filepack archives.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newApp().execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// mzannotate - metabolite annotation of LC-MS feature lists
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/omicsdb/mzannotate/cmd/mzannotate/cmd"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

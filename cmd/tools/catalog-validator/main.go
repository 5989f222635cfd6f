// cmd/tools/catalog-validator/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"phone-assistant/internal/catalog"
)

// catalog-validator checks a phone dataset against the catalog schema
// before it is shipped or loaded into the database.
func main() {
	path := flag.String("file", "data/phones.json", "path to the catalog JSON file")
	flag.Parse()

	raw, err := os.ReadFile(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", *path, err)
		os.Exit(1)
	}

	if err := catalog.ValidateRaw(raw); err != nil {
		fmt.Fprintf(os.Stderr, "%s: schema validation failed: %v\n", *path, err)
		os.Exit(1)
	}

	var phones []catalog.Phone
	if err := json.Unmarshal(raw, &phones); err != nil {
		fmt.Fprintf(os.Stderr, "%s: parse failed: %v\n", *path, err)
		os.Exit(1)
	}

	if err := catalog.ValidateRecords(phones); err != nil {
		fmt.Fprintf(os.Stderr, "%s: invalid records: %v\n", *path, err)
		os.Exit(1)
	}

	fmt.Printf("%s: OK (%d phones)\n", *path, len(phones))
}

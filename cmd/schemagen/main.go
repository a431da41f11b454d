// Command schemagen emits the JSON schema for object type definition
// files, for use by validators and editor tooling.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/invopop/jsonschema"

	"github.com/torvale/torvale-engine/internal/mapobjects"
)

func main() {
	out := flag.String("out", "", "output file (defaults to stdout)")
	flag.Parse()

	reflector := &jsonschema.Reflector{
		ExpandedStruct: true,
	}
	schema := reflector.Reflect(&mapobjects.ObjectDefinition{})

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal schema: %v", err)
	}
	data = append(data, '\n')

	if *out == "" {
		if _, err := os.Stdout.Write(data); err != nil {
			log.Fatalf("Failed to write schema: %v", err)
		}
		return
	}

	if err := os.WriteFile(*out, data, 0o644); err != nil {
		log.Fatalf("Failed to write %s: %v", *out, err)
	}
	log.Printf("Wrote object definition schema to %s", *out)
}

// knowledgectl validates a tenant knowledge file and prints the rendered
// prompt context, so knowledge edits can be reviewed before deploy.
//
// Usage:
//
//	knowledgectl [-file tenant.yaml] [-scope billing,lease]
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"cs-agent/internal/knowledge"
)

func main() {
	file := flag.String("file", "", "tenant knowledge YAML file (default: embedded tenant)")
	scope := flag.String("scope", "", "comma-separated categories to scope policies to")
	quiet := flag.Bool("q", false, "validate only, do not print the rendered context")
	flag.Parse()

	kb, err := knowledge.Load(*file)
	if err != nil {
		log.Fatalf("knowledge file invalid: %v", err)
	}

	fmt.Fprintf(os.Stderr, "OK: %s (%d policies)\n", kb.CompanyName(), len(kb.PolicyKeys()))
	if *quiet {
		return
	}

	var categories []string
	if *scope != "" {
		for _, c := range strings.Split(*scope, ",") {
			categories = append(categories, strings.TrimSpace(c))
		}
	}
	fmt.Println(kb.Context(categories))
}

// ideactl inspects and seeds the verified ideas store directly, using the
// same configuration and backends as the API.
//
//	go run ./cmd/ideactl list --output yaml
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(openService).Execute(); err != nil {
		os.Exit(1)
	}
}

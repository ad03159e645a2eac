// Command cccol inspects the Kerberos credential cache collection.
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	err := Execute()
	LogShutdown()
	if err == nil {
		return
	}

	var ee *exitError
	if errors.As(err, &ee) {
		os.Exit(ee.code)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

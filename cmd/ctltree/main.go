// Command ctltree loads control markup into a logical tree and reports on
// its lifecycle.
package main

import (
	"os"

	"github.com/go-drift/controls/cmd/ctltree/cmd"
	"github.com/go-drift/controls/pkg/errors"
)

var version = "0.1.0-dev"

func main() {
	code := 0
	func() {
		defer errors.RecoverWithCallback("ctltree.main", func(any) { code = 2 })
		if err := cmd.NewRootCmd(version).Execute(); err != nil {
			code = 1
		}
	}()
	os.Exit(code)
}

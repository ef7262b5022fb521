package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	_ "github.com/itpp-labs/ec2devbot/cmd/bot"
	_ "github.com/itpp-labs/ec2devbot/cmd/ec2"
	_ "github.com/itpp-labs/ec2devbot/cmd/telegram"
	"github.com/itpp-labs/ec2devbot/lib"
)

// lambdaCommand runs when the binary is started by the lambda runtime
// without arguments.
const lambdaCommand = "bot-lambda"

func usage() {
	var fns []string
	for k := range lib.Commands {
		fns = append(fns, k)
	}
	sort.Strings(fns)
	for _, fn := range fns {
		description := ""
		if args, ok := lib.Args[fn]; ok {
			description = args.Description()
		}
		fmt.Printf("%-20s %s\n", fn, strings.TrimSpace(description))
	}
}

func main() {
	if len(os.Args) < 2 && os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" {
		os.Args = append(os.Args, lambdaCommand)
	}
	if len(os.Args) < 2 || os.Args[1] == "-h" || os.Args[1] == "--help" {
		usage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	fn, ok := lib.Commands[cmd]
	if !ok {
		usage()
		os.Exit(1)
	}
	var args []string
	for _, a := range os.Args[1:] {
		if len(a) > 2 && a[0] == '-' && a[1] != '-' && (a[1] < '0' || a[1] > '9') {
			for _, k := range a[1:] {
				args = append(args, fmt.Sprintf("-%s", string(k)))
			}
		} else {
			args = append(args, a)
		}
	}
	os.Args = args
	fn()
}

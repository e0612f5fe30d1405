package commands

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/goccy/go-json"
)

var (
	okFmt   = color.New(color.FgGreen).SprintFunc()
	warnFmt = color.New(color.FgYellow).SprintFunc()
	errFmt  = color.New(color.FgRed, color.Bold).SprintFunc()
	keyFmt  = color.New(color.FgCyan).SprintFunc()
)

func printOK() {
	fmt.Println(okFmt("OK"))
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(data))
}

// fail prints err in red and returns it so cobra exits non-zero.
func fail(err error) error {
	if err != nil {
		fmt.Fprintln(os.Stderr, errFmt("error:"), err)
	}
	return err
}

// parseValue treats arg as JSON, falling back to a plain string.
func parseValue(arg string) any {
	var val any
	if err := json.Unmarshal([]byte(arg), &val); err != nil {
		return arg
	}
	return val
}

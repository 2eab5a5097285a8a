package cmd

import (
	"strings"

	"github.com/urfave/cli/v2"
)

// SplitArgs partitions argv (without the program name) into arguments
// owned by the supervisor and arguments forwarded to the ssh client.
//
// Supervisor flags are recognized anywhere on the command line, in
// both "--name value" and "--name=value" form. Everything else is
// forwarded unchanged and in its original order. A literal "--" stops
// recognition and forwards the remainder verbatim.
func SplitArgs(flags []cli.Flag, args []string) (supervisorArgs, forwardedArgs []string) {
	recognized := flagNames(flags)

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if arg == "--" {
			forwardedArgs = append(forwardedArgs, args[i+1:]...)
			break
		}

		name, hasValue := splitFlag(arg)

		takesValue, ok := recognized[name]
		if !ok {
			forwardedArgs = append(forwardedArgs, arg)
			continue
		}

		supervisorArgs = append(supervisorArgs, arg)

		if takesValue && !hasValue && i+1 < len(args) {
			supervisorArgs = append(supervisorArgs, args[i+1])
			i++
		}
	}

	return supervisorArgs, forwardedArgs
}

// flagNames maps every name and alias of the given flags to whether
// the flag consumes a value argument.
func flagNames(flags []cli.Flag) map[string]bool {
	names := make(map[string]bool)

	for _, flag := range flags {
		takesValue := true
		if doc, ok := flag.(cli.DocGenerationFlag); ok {
			takesValue = doc.TakesValue()
		}

		for _, name := range flag.Names() {
			names[name] = takesValue
		}
	}

	// cli appends its help and version flags during Run, after the
	// split has already happened.
	names["help"] = false
	names["h"] = false
	names["version"] = false

	return names
}

// splitFlag extracts the flag name from an option-looking argument.
// It returns an empty name for anything that cannot be a flag, such
// as positional arguments or a bare "-".
func splitFlag(arg string) (name string, hasValue bool) {
	if !strings.HasPrefix(arg, "-") {
		return "", false
	}

	name = strings.TrimLeft(arg, "-")

	if eq := strings.Index(name, "="); eq >= 0 {
		return name[:eq], true
	}

	return name, false
}

package cmds

import "strings"

// windowsCmdline joins args into a command line, quoting arguments that
// contain spaces. The engine passes the string to CreateProcess verbatim.
func windowsCmdline(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		if strings.ContainsAny(arg, " \t") {
			quoted[i] = `"` + arg + `"`
		} else {
			quoted[i] = arg
		}
	}
	return strings.Join(quoted, " ")
}

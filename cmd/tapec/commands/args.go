package commands

import "os"

// parsedArgs splits a command's argument list into recognized flags
// and the remaining positional arguments, by hand rather than with the
// flag package, matching the rest of the CLI's manual arg handling.
type parsedArgs struct {
	flags    map[string]string
	switches map[string]bool
	pos      []string
}

// parseArgs walks args left to right. Any token in valueFlags consumes
// the following token as its value; any token in boolFlags is recorded
// present with no value consumed; everything else is positional.
func parseArgs(args []string, valueFlags, boolFlags []string) parsedArgs {
	isValue := make(map[string]bool, len(valueFlags))
	for _, f := range valueFlags {
		isValue[f] = true
	}
	isBool := make(map[string]bool, len(boolFlags))
	for _, f := range boolFlags {
		isBool[f] = true
	}

	p := parsedArgs{flags: map[string]string{}, switches: map[string]bool{}}
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case isValue[a]:
			if i+1 < len(args) {
				i++
				p.flags[a] = args[i]
			}
		case isBool[a]:
			p.switches[a] = true
		default:
			p.pos = append(p.pos, a)
		}
	}
	return p
}

func (p parsedArgs) stringOr(flag, def string) string {
	if v, ok := p.flags[flag]; ok {
		return v
	}
	return def
}

func readFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	return string(b), err
}

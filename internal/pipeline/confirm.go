package pipeline

import (
	"bufio"
	"fmt"
	"strings"
)

// confirmLiteral is the exact string that authorizes a live commit.
// Anything else, including lowercase yes, aborts.
const confirmLiteral = "YES"

// confirmCommit prompts for the commit confirmation and reads one line.
// A missing reader means no interactive session, which never confirms.
func (p *Pipeline) confirmCommit() bool {
	if p.confirm == nil {
		return false
	}
	fmt.Fprintf(p.out, "Type %s to write these changes to the sheet: ", confirmLiteral)
	scanner := bufio.NewScanner(p.confirm)
	if !scanner.Scan() {
		return false
	}
	return strings.TrimSpace(scanner.Text()) == confirmLiteral
}

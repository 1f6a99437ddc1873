package command

import (
	"fmt"
	"strings"

	"github.com/smileynet/addressbook/internal/person"
)

// Command words.
const (
	WordAdd    = "add"
	WordFind   = "find"
	WordList   = "list"
	WordDelete = "delete"
	WordClear  = "clear"
	WordHelp   = "help"
	WordExit   = "exit"
)

// Descriptor documents one command for help output.
type Descriptor struct {
	Word       string
	Summary    string
	Parameters string // Empty when the command takes none.
	Example    string
}

// Usage renders the help entry for d.
func (d Descriptor) Usage() string {
	lines := []string{fmt.Sprintf(MsgCommandHelp, d.Word, d.Summary)}
	if d.Parameters != "" {
		lines = append(lines, fmt.Sprintf(MsgHelpParameters, d.Parameters))
	}
	lines = append(lines, fmt.Sprintf(MsgHelpExample, d.Example))
	return strings.Join(lines, "\n")
}

// Descriptors lists every command in help order.
var Descriptors = []Descriptor{
	{
		Word:       WordAdd,
		Summary:    "Adds a person to the address book.",
		Parameters: "NAME " + person.PhonePrefix + "PHONE_NUMBER " + person.EmailPrefix + "EMAIL",
		Example:    WordAdd + " John Doe " + person.PhonePrefix + "98765432 " + person.EmailPrefix + "johnd@gmail.com",
	},
	{
		Word:       WordFind,
		Summary:    "Finds all persons whose names contain any of the specified keywords (case-sensitive) and displays them as a list with index numbers.",
		Parameters: "KEYWORD [MORE_KEYWORDS]",
		Example:    WordFind + " alice bob charlie",
	},
	{
		Word:    WordList,
		Summary: "Displays all persons as a list with index numbers.",
		Example: WordList,
	},
	{
		Word:       WordDelete,
		Summary:    "Deletes a person identified by the index number used in the last find/list call.",
		Parameters: "INDEX",
		Example:    WordDelete + " 1",
	},
	{
		Word:    WordClear,
		Summary: "Clears address book permanently.",
		Example: WordClear,
	},
	{
		Word:    WordExit,
		Summary: "Exits the program.",
		Example: WordExit,
	},
	{
		Word:    WordHelp,
		Summary: "Shows program usage instructions.",
		Example: WordHelp,
	},
}

// Lookup returns the descriptor for word.
func Lookup(word string) (Descriptor, bool) {
	for _, d := range Descriptors {
		if d.Word == word {
			return d, true
		}
	}
	return Descriptor{}, false
}

// UsageFor returns the help entry for word, or "" if word is unknown.
func UsageFor(word string) string {
	d, ok := Lookup(word)
	if !ok {
		return ""
	}
	return d.Usage()
}

// UsageAll returns the help entries for every command.
func UsageAll() string {
	entries := make([]string, len(Descriptors))
	for i, d := range Descriptors {
		entries[i] = d.Usage()
	}
	return strings.Join(entries, "\n")
}
